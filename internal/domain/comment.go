package domain

import (
	"context"
	"time"
)

// Comment is a reply attached to a post.
type Comment struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	// Create reads the parent post, checks Post.CheckCommentable and inserts
	// the comment in one transaction, so a concurrent lock cannot slip
	// between the check and the insert.
	Create(ctx context.Context, comment *Comment) error
	// ListByPost returns the comments of a post, oldest first.
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
}
