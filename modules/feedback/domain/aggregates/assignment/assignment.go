package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Assignment attaches a Survey to one relationship edge. At most one active
// assignment exists per (edge, survey) pair; unassigning deactivates the row
// and a later re-assignment reactivates it instead of inserting a duplicate.
type Assignment struct {
	id        uint
	tenantID  uuid.UUID
	edgeID    uint
	surveyID  uint
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, edgeID, surveyID uint) Assignment {
	return Assignment{
		tenantID: tenantID,
		edgeID:   edgeID,
		surveyID: surveyID,
		isActive: true,
	}
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	edgeID, surveyID uint,
	isActive bool,
	createdAt, updatedAt time.Time,
) Assignment {
	return Assignment{
		id:        id,
		tenantID:  tenantID,
		edgeID:    edgeID,
		surveyID:  surveyID,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a Assignment) ID() uint             { return a.id }
func (a Assignment) TenantID() uuid.UUID  { return a.tenantID }
func (a Assignment) EdgeID() uint         { return a.edgeID }
func (a Assignment) SurveyID() uint       { return a.surveyID }
func (a Assignment) IsActive() bool       { return a.isActive }
func (a Assignment) CreatedAt() time.Time { return a.createdAt }
func (a Assignment) UpdatedAt() time.Time { return a.updatedAt }

func (a Assignment) Reactivated() Assignment {
	a.isActive = true
	return a
}

func (a Assignment) Deactivated() Assignment {
	a.isActive = false
	return a
}
