package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, title, detail, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Title, p.Detail, p.Category)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, detail, category, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Detail, &p.Category,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	p := &entity.Post{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, detail, category, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, id)

	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Detail, &p.Category,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, id int64, title, detail, category string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $1, detail = $2, category = $3, updated_at = now()
		WHERE id = $4
	`, title, detail, category, id)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
