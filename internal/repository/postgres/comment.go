package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/forum/internal/domain"
)

type commentRepo struct {
	db *sql.DB
}

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	post, err := getPost(ctx, tx, comment.PostID, true)
	if err != nil {
		return err
	}
	if err := post.CheckCommentable(); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx,
		`WITH inserted AS (
			INSERT INTO comments (post_id, author_id, body) VALUES ($1, $2, $3)
			RETURNING id, author_id, created_at
		 )
		 SELECT i.id, i.created_at, u.display_name
		 FROM inserted i JOIN users u ON u.id = i.author_id`,
		comment.PostID, comment.AuthorID, comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.AuthorName)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("author %d: %w", comment.AuthorID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return listComments(ctx, r.db, postID)
}

func listComments(ctx context.Context, q dbtx, postID int64) ([]domain.Comment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, u.display_name, c.body, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`, postID)
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
