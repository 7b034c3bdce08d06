package models

// HomeworkItem represents a single homework task
type HomeworkItem struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	DueDate   string `json:"dueDate,omitempty"`
	Category  string `json:"category,omitempty"`
}

// HomeworkStats holds the dashboard counters for the homework list
type HomeworkStats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}
