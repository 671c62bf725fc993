package evaluator

import (
	"time"

	"github.com/google/uuid"
)

// Evaluator is the "person giving feedback" projection of an Employee. An
// employee may be both a Subject and an Evaluator in the same tenant; the two
// projections carry independent credentials and lifecycles.
type Evaluator struct {
	id             uint
	tenantID       uuid.UUID
	employeeID     uint
	credentialHash string
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

func New(tenantID uuid.UUID, employeeID uint, credentialHash string) Evaluator {
	return Evaluator{
		tenantID:       tenantID,
		employeeID:     employeeID,
		credentialHash: credentialHash,
		isActive:       true,
	}
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	employeeID uint,
	credentialHash string,
	isActive bool,
	createdAt, updatedAt time.Time,
) Evaluator {
	return Evaluator{
		id:             id,
		tenantID:       tenantID,
		employeeID:     employeeID,
		credentialHash: credentialHash,
		isActive:       isActive,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (e Evaluator) ID() uint               { return e.id }
func (e Evaluator) TenantID() uuid.UUID    { return e.tenantID }
func (e Evaluator) EmployeeID() uint       { return e.employeeID }
func (e Evaluator) CredentialHash() string { return e.credentialHash }
func (e Evaluator) IsActive() bool         { return e.isActive }
func (e Evaluator) CreatedAt() time.Time   { return e.createdAt }
func (e Evaluator) UpdatedAt() time.Time   { return e.updatedAt }

func (e Evaluator) Reactivated() Evaluator {
	e.isActive = true
	return e
}

func (e Evaluator) Deactivated() Evaluator {
	e.isActive = false
	return e
}
