package survey

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("survey not found")

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]Survey, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Survey, error)
	GetByID(ctx context.Context, id uint) (Survey, error)
	Create(ctx context.Context, s Survey) (Survey, error)
	Update(ctx context.Context, s Survey) (Survey, error)
}
