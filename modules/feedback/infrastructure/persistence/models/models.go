package models

import "time"

type Employee struct {
	ID        uint
	TenantID  string
	Code      string
	FirstName string
	LastName  string
	Email     string
	Position  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Subject struct {
	ID             uint
	TenantID       string
	EmployeeID     uint
	CredentialHash string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Evaluator struct {
	ID             uint
	TenantID       string
	EmployeeID     uint
	CredentialHash string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RelationshipEdge struct {
	ID          uint
	TenantID    string
	SubjectID   uint
	EvaluatorID uint
	Label       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Survey struct {
	ID          uint
	TenantID    string
	Title       string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Assignment struct {
	ID        uint
	TenantID  string
	EdgeID    uint
	SurveyID  uint
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
