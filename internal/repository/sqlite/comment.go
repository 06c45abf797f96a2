package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/forum/internal/domain"
)

// commentRepo implements domain.CommentRepository using SQLite.
type commentRepo struct {
	db *sql.DB
}

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	post, err := getPost(ctx, tx, comment.PostID)
	if err != nil {
		return err
	}
	if err := post.CheckCommentable(); err != nil {
		return err
	}

	authorName, err := displayName(ctx, tx, comment.AuthorID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?)`,
		comment.PostID, comment.AuthorID, comment.Body, now,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get comment id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	comment.ID = id
	comment.AuthorName = authorName
	comment.CreatedAt = now
	return nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return listComments(ctx, r.db, postID)
}

func listComments(ctx context.Context, q dbtx, postID int64) ([]domain.Comment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, u.display_name, c.body, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ? ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
