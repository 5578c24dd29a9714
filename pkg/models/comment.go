package models

import "time"

// Comment belongs to one task
type Comment struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	TaskID    string    `json:"task_id" db:"task_id"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCommentRequest represents the payload for creating a comment
type CreateCommentRequest struct {
	Content string `json:"content"`
	TaskID  string `json:"task_id"`
}

// UpdateCommentRequest represents the patch for a comment
type UpdateCommentRequest struct {
	Content string `json:"content"`
}
