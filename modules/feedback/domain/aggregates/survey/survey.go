package survey

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Survey is a tenant-scoped form definition. Assignment treats it as an
// immutable schema reference; authoring lives elsewhere.
type Survey struct {
	id          uint
	tenantID    uuid.UUID
	title       string
	description string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func New(tenantID uuid.UUID, title, description string) Survey {
	return Survey{
		tenantID:    tenantID,
		title:       strings.TrimSpace(title),
		description: strings.TrimSpace(description),
		isActive:    true,
	}
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	title, description string,
	isActive bool,
	createdAt, updatedAt time.Time,
) Survey {
	return Survey{
		id:          id,
		tenantID:    tenantID,
		title:       title,
		description: description,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s Survey) ID() uint             { return s.id }
func (s Survey) TenantID() uuid.UUID  { return s.tenantID }
func (s Survey) Title() string        { return s.title }
func (s Survey) Description() string  { return s.description }
func (s Survey) IsActive() bool       { return s.isActive }
func (s Survey) CreatedAt() time.Time { return s.createdAt }
func (s Survey) UpdatedAt() time.Time { return s.updatedAt }

func (s Survey) Deactivated() Survey {
	s.isActive = false
	return s
}
