package domain

// GridExample is one input/output pair of newline-joined digit-grid
// strings.
type GridExample struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// TaskData holds the test data for a task, split into subsets. It is
// stored under the same document id as the task itself.
type TaskData struct {
	Train []GridExample `json:"train"`
	Test  []GridExample `json:"test"`
}
