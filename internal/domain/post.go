package domain

import (
	"context"
	"time"
)

// Post is a forum thread. A post starts open and can be locked exactly once
// by its author; a locked post accepts no new comments.
type Post struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Title      string
	Body       string
	Locked     bool
	CreatedAt  time.Time
	Comments   []Comment // Only populated by detail reads, oldest first
}

// CheckCommentable returns ErrPostLocked if the post no longer accepts comments.
func (p *Post) CheckCommentable() error {
	if p.Locked {
		return ErrPostLocked
	}
	return nil
}

// Lock transitions the post to locked on behalf of userID. Only the author may
// lock. Locking an already locked post is a no-op.
func (p *Post) Lock(userID int64) error {
	if p.AuthorID != userID {
		return ErrNotAuthor
	}
	p.Locked = true
	return nil
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	// GetByID returns the post with its author name and comments.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]Post, error)
	// ListByAuthor returns the posts written by userID, newest first.
	ListByAuthor(ctx context.Context, userID int64) ([]Post, error)
	// Lock applies Post.Lock for userID and persists the result in a single
	// transaction.
	Lock(ctx context.Context, postID, userID int64) (*Post, error)
}
