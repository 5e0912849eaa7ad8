package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Comment validation errors
var (
	ErrEmptyCommentID      = errors.New("comment ID cannot be empty")
	ErrEmptyCommentTask    = errors.New("comment task cannot be empty")
	ErrEmptyCommentAuthor  = errors.New("comment author cannot be empty")
	ErrCommentContentEmpty = errors.New("content cannot be empty")
)

// Comment is a note attached to a task. TaskID and AuthorID are fixed at
// creation; only the content may change afterward.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a new Comment on taskID authored by authorID.
// Returns an error if validation fails.
func NewComment(taskID, authorID uuid.UUID, content string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
// Returns an error if any field fails validation.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}

	if c.TaskID == uuid.Nil {
		return ErrEmptyCommentTask
	}

	if c.AuthorID == uuid.Nil {
		return ErrEmptyCommentAuthor
	}

	if c.Content == "" {
		return ErrCommentContentEmpty
	}

	return nil
}
