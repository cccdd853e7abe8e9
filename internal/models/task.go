package models

import "time"

// Task represents a row in the tasks table. Every task belongs to exactly
// one user, fixed at creation.
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        string    `json:"tags"`
}

// TaskRequest is the JSON body for POST /tasks and PUT /tasks/{id}.
// Tags is free text, comma-separated by convention.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
	Tags        string `json:"tags"`
}
