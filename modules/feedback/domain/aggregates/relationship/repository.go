package relationship

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound  = errors.New("relationship edge not found")
	ErrDuplicate = errors.New("active relationship edge already exists")
)

// Result reports the outcome of a relationship-building call. Failures are
// accumulated per counterpart, never raised; callers surface Warnings to the
// user without aborting.
type Result struct {
	SuccessfulConnections int
	FailedEmployeeIDs     []string
	DuplicateConnections  []string
	Warnings              []string
}

// BuildWarnings derives the human-readable summaries from the failure lists.
func (r *Result) BuildWarnings() {
	r.Warnings = r.Warnings[:0]
	if len(r.FailedEmployeeIDs) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"Could not resolve employee codes: %s", strings.Join(r.FailedEmployeeIDs, ", ")))
	}
	if len(r.DuplicateConnections) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"Already connected: %s", strings.Join(r.DuplicateConnections, ", ")))
	}
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (Edge, error)
	// GetByIDs returns the edges matching the given ids; missing ids are
	// absent from the result.
	GetByIDs(ctx context.Context, ids []uint) ([]Edge, error)
	// GetByPair returns the edge for a (subject, evaluator) pair regardless
	// of its active flag.
	GetByPair(ctx context.Context, subjectID, evaluatorID uint) (Edge, error)
	// GetAmong bulk-fetches all edges whose endpoints fall in the given id
	// sets, for the import pre-fetch step.
	GetAmong(ctx context.Context, subjectIDs, evaluatorIDs []uint) ([]Edge, error)
	GetBySubjectID(ctx context.Context, subjectID uint) ([]Edge, error)
	Create(ctx context.Context, e Edge) (Edge, error)
	Update(ctx context.Context, e Edge) (Edge, error)
	// DeactivateBySubjectID and DeactivateByEvaluatorID cascade a role
	// deactivation onto its edges.
	DeactivateBySubjectID(ctx context.Context, subjectID uint) error
	DeactivateByEvaluatorID(ctx context.Context, evaluatorID uint) error
}
