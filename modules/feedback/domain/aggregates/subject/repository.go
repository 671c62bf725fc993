package subject

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("subject not found")

type Repository interface {
	GetByID(ctx context.Context, id uint) (Subject, error)
	GetByEmployeeID(ctx context.Context, employeeID uint) (Subject, error)
	// GetByEmployeeIDs bulk-fetches role records for the import pre-fetch
	// step; inactive records are included so callers can reactivate them.
	GetByEmployeeIDs(ctx context.Context, employeeIDs []uint) ([]Subject, error)
	Create(ctx context.Context, s Subject) (Subject, error)
	Update(ctx context.Context, s Subject) (Subject, error)
}
