package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
)

var _ IBoardService = &BoardService{}

// BoardService implements the read surface over the document store.
type BoardService struct {
	store  secondary.DocumentStore
	logger primary.Logger
}

// NewBoardService creates a new board service.
func NewBoardService(store secondary.DocumentStore, logger primary.Logger) *BoardService {
	return &BoardService{
		store:  store,
		logger: logger,
	}
}

func (s *BoardService) ListTasks(ctx context.Context) ([]TaskView, error) {
	raw, err := s.store.GetAll(ctx, domain.CollectionTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	views := make([]TaskView, 0, len(raw))
	for id, data := range raw {
		var task domain.Task
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task %s: %w", id, err)
		}
		views = append(views, TaskView{ID: id, Task: task})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

func (s *BoardService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	var task domain.Task
	if err := s.store.Get(ctx, domain.CollectionTasks, taskID, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *BoardService) GetTaskData(ctx context.Context, taskID string) (*domain.TaskData, error) {
	var data domain.TaskData
	if err := s.store.Get(ctx, domain.CollectionTaskData, taskID, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *BoardService) Ranking(ctx context.Context) ([]RankingEntry, error) {
	raw, err := s.store.GetAll(ctx, domain.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entries := make([]RankingEntry, 0, len(raw))
	for id, data := range raw {
		var user domain.User
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
		}
		entries = append(entries, RankingEntry{
			UserID:              id,
			DisplayName:         user.DisplayName,
			PhotoURL:            user.PhotoURL,
			ColorIndex:          user.ColorIndex,
			Contributions:       user.Contributions,
			ShortestSubmissions: user.ShortestSubmissions,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ShortestSubmissions != entries[j].ShortestSubmissions {
			return entries[i].ShortestSubmissions > entries[j].ShortestSubmissions
		}
		if entries[i].Contributions != entries[j].Contributions {
			return entries[i].Contributions > entries[j].Contributions
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries, nil
}

func (s *BoardService) SeedTask(ctx context.Context, taskID string, arcTaskID *string, data domain.TaskData) (string, error) {
	if taskID == "" {
		taskID = uuid.New().String()
	}

	task := domain.Task{
		ArcTaskID: arcTaskID,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, domain.CollectionTasks, taskID, task); err != nil {
		return "", fmt.Errorf("failed to create task %s: %w", taskID, err)
	}
	if err := s.store.Create(ctx, domain.CollectionTaskData, taskID, data); err != nil {
		return "", fmt.Errorf("failed to create task data %s: %w", taskID, err)
	}

	s.logger.Info("Task seeded", "taskId", taskID)
	return taskID, nil
}

func (s *BoardService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := s.store.Get(ctx, domain.CollectionUsers, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
