package domain

// Top-level document collections. Tasks and TaskData share one id space:
// the task-data document for a task lives under the same id.
const (
	CollectionTasks       = "tasks"
	CollectionTaskData    = "taskData"
	CollectionSubmissions = "submissions"
	CollectionUsers       = "users"
)
