package relationship

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SelfLabel marks a self-evaluation edge: subject and evaluator must resolve
// to the same underlying employee.
const SelfLabel = "Self"

const MaxLabelLength = 50

// Edge is a labeled link between one Subject and one Evaluator. At most one
// active edge exists per (subject, evaluator) pair per tenant; the label can
// be changed in place without minting a new edge.
type Edge struct {
	id          uint
	tenantID    uuid.UUID
	subjectID   uint
	evaluatorID uint
	label       string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewEdge(tenantID uuid.UUID, subjectID, evaluatorID uint, label string) Edge {
	return Edge{
		tenantID:    tenantID,
		subjectID:   subjectID,
		evaluatorID: evaluatorID,
		label:       strings.TrimSpace(label),
		isActive:    true,
	}
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	subjectID, evaluatorID uint,
	label string,
	isActive bool,
	createdAt, updatedAt time.Time,
) Edge {
	return Edge{
		id:          id,
		tenantID:    tenantID,
		subjectID:   subjectID,
		evaluatorID: evaluatorID,
		label:       label,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e Edge) ID() uint              { return e.id }
func (e Edge) TenantID() uuid.UUID   { return e.tenantID }
func (e Edge) SubjectID() uint       { return e.subjectID }
func (e Edge) EvaluatorID() uint     { return e.evaluatorID }
func (e Edge) Label() string         { return e.label }
func (e Edge) IsActive() bool        { return e.isActive }
func (e Edge) CreatedAt() time.Time  { return e.createdAt }
func (e Edge) UpdatedAt() time.Time  { return e.updatedAt }
func (e Edge) IsSelf() bool          { return strings.EqualFold(e.label, SelfLabel) }

func (e Edge) Relabeled(label string) Edge {
	e.label = strings.TrimSpace(label)
	return e
}

func (e Edge) Reactivated() Edge {
	e.isActive = true
	return e
}

func (e Edge) Deactivated() Edge {
	e.isActive = false
	return e
}

// ValidLabel reports whether the label satisfies the 1–50 character bound.
func ValidLabel(label string) bool {
	trimmed := strings.TrimSpace(label)
	return trimmed != "" && len(trimmed) <= MaxLabelLength
}

func IsSelfLabel(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), SelfLabel)
}
