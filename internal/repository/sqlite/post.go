package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/forum/internal/domain"
)

// postRepo implements domain.PostRepository using SQLite.
type postRepo struct {
	db *sql.DB
}

const selectPost = `SELECT p.id, p.author_id, u.display_name, p.title, p.body, p.locked, p.created_at
	FROM posts p JOIN users u ON u.id = p.author_id`

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	authorName, err := displayName(ctx, tx, post.AuthorID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, body, locked, created_at)
		 VALUES (?, ?, ?, 0, ?)`,
		post.AuthorID, post.Title, post.Body, now,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get post id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.ID = id
	post.AuthorName = authorName
	post.Locked = false
	post.CreatedAt = now
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := getPost(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	comments, err := listComments(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return p, nil
}

func (r *postRepo) List(ctx context.Context) ([]domain.Post, error) {
	return listPosts(ctx, r.db, selectPost+` ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *postRepo) ListByAuthor(ctx context.Context, userID int64) ([]domain.Post, error) {
	return listPosts(ctx, r.db, selectPost+` WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id DESC`, userID)
}

func (r *postRepo) Lock(ctx context.Context, postID, userID int64) (*domain.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := getPost(ctx, tx, postID)
	if err != nil {
		return nil, err
	}

	if err := p.Lock(userID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE posts SET locked = 1 WHERE id = ?", postID); err != nil {
		return nil, fmt.Errorf("lock post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func getPost(ctx context.Context, q dbtx, id int64) (*domain.Post, error) {
	p := &domain.Post{}
	err := q.QueryRowContext(ctx, selectPost+` WHERE p.id = ?`, id).
		Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Body, &p.Locked, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func listPosts(ctx context.Context, q dbtx, query string, args ...any) ([]domain.Post, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Body, &p.Locked, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
