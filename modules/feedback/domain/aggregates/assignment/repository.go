package assignment

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound  = errors.New("assignment not found")
	ErrDuplicate = errors.New("assignment already exists for this relationship and survey")
)

// Result reports the outcome of an assign/unassign/import call. Success is
// false only when the anchor entity (the survey) is unusable; per-item errors
// accumulate in Errors while the rest of the batch proceeds.
type Result struct {
	Success         bool
	AssignedCount   int
	UnassignedCount int
	Errors          []string
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (Assignment, error)
	// GetByPair returns the assignment row for an (edge, survey) pair
	// regardless of its active flag.
	GetByPair(ctx context.Context, edgeID, surveyID uint) (Assignment, error)
	// GetByEdgeIDs bulk-fetches the assignment rows for the given edges
	// against one survey, for the import pre-fetch step.
	GetByEdgeIDs(ctx context.Context, surveyID uint, edgeIDs []uint) ([]Assignment, error)
	Create(ctx context.Context, a Assignment) (Assignment, error)
	Update(ctx context.Context, a Assignment) (Assignment, error)
}
