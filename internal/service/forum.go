package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/forum/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ForumService applies the forum rules over posts, comments, and profiles.
// Callers pass the authenticated user id taken from the session; it is never
// read from client input.
type ForumService struct {
	users    domain.UserRepository
	posts    domain.PostRepository
	comments domain.CommentRepository
}

// NewForumService creates a new ForumService.
func NewForumService(users domain.UserRepository, posts domain.PostRepository, comments domain.CommentRepository) *ForumService {
	return &ForumService{users: users, posts: posts, comments: comments}
}

// ListPosts returns every post, newest first.
func (s *ForumService) ListPosts(ctx context.Context) (_ []domain.Post, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.ListPosts")
	defer func() { endSpan(span, err) }()

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// CreatePost creates an unlocked post authored by authorID.
func (s *ForumService) CreatePost(ctx context.Context, authorID int64, title, body string) (_ *domain.Post, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.CreatePost", trace.WithAttributes(attribute.Int64("user.id", authorID)))
	defer func() { endSpan(span, err) }()

	if isBlank(title) || isBlank(body) {
		return nil, fmt.Errorf("%w: title and body required", domain.ErrInvalidInput)
	}

	post := &domain.Post{AuthorID: authorID, Title: title, Body: body}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	span.SetAttributes(attribute.Int64("post.id", post.ID))
	return post, nil
}

// GetPost returns a post with its comments, oldest first.
func (s *ForumService) GetPost(ctx context.Context, id int64) (_ *domain.Post, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.GetPost", trace.WithAttributes(attribute.Int64("post.id", id)))
	defer func() { endSpan(span, err) }()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// AddComment attaches a comment by authorID to an open post. The locked check
// and the insert run in one store transaction.
func (s *ForumService) AddComment(ctx context.Context, authorID, postID int64, body string) (_ *domain.Comment, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.AddComment", trace.WithAttributes(
		attribute.Int64("user.id", authorID),
		attribute.Int64("post.id", postID),
	))
	defer func() { endSpan(span, err) }()

	if isBlank(body) {
		return nil, fmt.Errorf("%w: comment body required", domain.ErrInvalidInput)
	}

	comment := &domain.Comment{PostID: postID, AuthorID: authorID, Body: body}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// LockPost locks a post on behalf of userID, who must be its author. Locking
// an already locked post succeeds without change.
func (s *ForumService) LockPost(ctx context.Context, userID, postID int64) (_ *domain.Post, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.LockPost", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("post.id", postID),
	))
	defer func() { endSpan(span, err) }()

	post, err := s.posts.Lock(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("lock post: %w", err)
	}
	return post, nil
}

// GetProfile returns the public profile of userID with their posts, newest first.
func (s *ForumService) GetProfile(ctx context.Context, userID int64) (_ *domain.Profile, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.GetProfile", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() { endSpan(span, err) }()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}

	return &domain.Profile{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
		Posts:       posts,
	}, nil
}
