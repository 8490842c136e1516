package repository

import (
	"context"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// PostRepository defines the interface for blog post database operations.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	ListByUser(ctx context.Context, userID string) ([]entity.Post, error)
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	Update(ctx context.Context, id int64, title, detail, category string) error
	Delete(ctx context.Context, id int64) error
}
