package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is the tenant-scoped identity anchor. The code is the external
// identifier HR systems reference in forms and bulk uploads; it is unique per
// tenant and never reused.
type Employee struct {
	id        uint
	tenantID  uuid.UUID
	code      string
	firstName string
	lastName  string
	email     string
	position  string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, code, firstName, lastName, email, position string) Employee {
	return Employee{
		tenantID:  tenantID,
		code:      NormalizeCode(code),
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		email:     strings.ToLower(strings.TrimSpace(email)),
		position:  strings.TrimSpace(position),
		isActive:  true,
	}
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	code, firstName, lastName, email, position string,
	isActive bool,
	createdAt, updatedAt time.Time,
) Employee {
	return Employee{
		id:        id,
		tenantID:  tenantID,
		code:      code,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		position:  position,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e Employee) ID() uint             { return e.id }
func (e Employee) TenantID() uuid.UUID  { return e.tenantID }
func (e Employee) Code() string         { return e.code }
func (e Employee) FirstName() string    { return e.firstName }
func (e Employee) LastName() string     { return e.lastName }
func (e Employee) Email() string        { return e.email }
func (e Employee) Position() string     { return e.position }
func (e Employee) IsActive() bool       { return e.isActive }
func (e Employee) CreatedAt() time.Time { return e.createdAt }
func (e Employee) UpdatedAt() time.Time { return e.updatedAt }

func (e Employee) FullName() string {
	return strings.TrimSpace(e.firstName + " " + e.lastName)
}

func (e Employee) Deactivated() Employee {
	e.isActive = false
	return e
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
