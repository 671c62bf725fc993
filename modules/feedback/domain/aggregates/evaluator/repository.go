package evaluator

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("evaluator not found")

type Repository interface {
	GetByID(ctx context.Context, id uint) (Evaluator, error)
	GetByEmployeeID(ctx context.Context, employeeID uint) (Evaluator, error)
	GetByEmployeeIDs(ctx context.Context, employeeIDs []uint) ([]Evaluator, error)
	Create(ctx context.Context, e Evaluator) (Evaluator, error)
	Update(ctx context.Context, e Evaluator) (Evaluator, error)
}
