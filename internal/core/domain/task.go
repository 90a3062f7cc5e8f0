package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Attachment stores file metadata only; the bytes live elsewhere.
type Attachment struct {
	URL      string `json:"url" bson:"url"`
	MimeType string `json:"mimeType" bson:"mime_type"`
	Size     int64  `json:"size" bson:"size"`
}

// Task is a unit of work within a project.
type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	AssignedBy  string       `json:"assignedBy,omitempty"`
	Status      TaskStatus   `json:"status"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
