package employee

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound  = errors.New("employee not found")
	ErrCodeTaken = errors.New("employee code already exists")
)

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]Employee, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Employee, error)
	GetByID(ctx context.Context, id uint) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	// GetByCodes returns all active employees matching the given codes in one
	// query; absent codes are simply missing from the result.
	GetByCodes(ctx context.Context, codes []string) ([]Employee, error)
	Create(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
}
