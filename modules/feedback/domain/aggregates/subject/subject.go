package subject

import (
	"time"

	"github.com/google/uuid"
)

// Subject is the "person being rated" projection of an Employee. It exists
// from the first time the employee is referenced as a subject and is only
// ever deactivated, never deleted.
type Subject struct {
	id             uint
	tenantID       uuid.UUID
	employeeID     uint
	credentialHash string
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

func New(tenantID uuid.UUID, employeeID uint, credentialHash string) Subject {
	return Subject{
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
) Subject {
	return Subject{
		id:             id,
		tenantID:       tenantID,
		employeeID:     employeeID,
		credentialHash: credentialHash,
		isActive:       isActive,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (s Subject) ID() uint               { return s.id }
func (s Subject) TenantID() uuid.UUID    { return s.tenantID }
func (s Subject) EmployeeID() uint       { return s.employeeID }
func (s Subject) CredentialHash() string { return s.credentialHash }
func (s Subject) IsActive() bool         { return s.isActive }
func (s Subject) CreatedAt() time.Time   { return s.createdAt }
func (s Subject) UpdatedAt() time.Time   { return s.updatedAt }

func (s Subject) Reactivated() Subject {
	s.isActive = true
	return s
}

func (s Subject) Deactivated() Subject {
	s.isActive = false
	return s
}
