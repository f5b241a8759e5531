package board

import (
	"context"

	"gitlab.com/golfhub-2025.net/internal/domain"
)

// TaskView pairs a task with its document id.
type TaskView struct {
	ID string `json:"id"`
	domain.Task
}

// RankingEntry is one leaderboard row.
type RankingEntry struct {
	UserID              string `json:"userId"`
	DisplayName         string `json:"displayName"`
	PhotoURL            string `json:"photoURL"`
	ColorIndex          *int   `json:"colorIndex"`
	Contributions       int    `json:"contributions"`
	ShortestSubmissions int    `json:"shortestSubmissions"`
}

// IBoardService serves the read surface the thin UI renders, plus task
// seeding for administration.
type IBoardService interface {
	ListTasks(ctx context.Context) ([]TaskView, error)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
	GetTaskData(ctx context.Context, taskID string) (*domain.TaskData, error)

	// Ranking orders users by owned-task count, then contributions.
	Ranking(ctx context.Context) ([]RankingEntry, error)

	// SeedTask creates a fresh unclaimed task and its task-data
	// document under one shared id, returning that id.
	SeedTask(ctx context.Context, taskID string, arcTaskID *string, data domain.TaskData) (string, error)

	// GetUser returns a member profile by document id.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}
