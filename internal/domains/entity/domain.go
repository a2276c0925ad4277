package entity

import "time"

// Domain is a skill area users are evaluated in.
type Domain struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewDomain struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
}

// Application is a user's pending or decided membership request for a
// domain.
type Application struct {
	DomainID   int64
	UserID     int64
	Status     ApplicationStatus
	AppliedAt  time.Time
	ReviewedAt *time.Time
	ReviewedBy *int64
}
