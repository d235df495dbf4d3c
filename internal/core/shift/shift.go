// Copyright (c) 2026 QuickShift. All rights reserved.

/*
Package shift manages shift postings and worker applications.

It covers the full marketplace flow: a company admin posts a shift, workers
apply, the company accepts or denies applications, and completed work is
rated.

# Core Responsibility

  - Posting: Defines the [Shift] entity and its status lifecycle.
  - Applications: One [Application] per (shift, worker) pair.
  - Authorization: Every shift mutation is gated on membership in the
    owning company.

# Status Lifecycle

	OPEN ──(accept)──► FILLED ──(complete)──► COMPLETED
	  │                   │
	  └────(cancel)───────┴──► CANCELLED
*/
package shift

import "time"

// # Shift Enums

// Status is the lifecycle state of a shift posting.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusFilled    Status = "FILLED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ApplicationStatus is the review state of a worker's application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationDenied   ApplicationStatus = "DENIED"
)

// # Core Entities

// Shift represents a single posted work shift.
type Shift struct {
	ID             string    `json:"id"` // UUIDv7
	CompanyID      string    `json:"company_id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Location       string    `json:"location"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	HourlyWage     float64   `json:"hourly_wage"`
	RequiredSkills []string  `json:"required_skills"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Application represents a worker's bid for a shift.
type Application struct {
	ID             string            `json:"id"` // UUIDv7
	ShiftID        string            `json:"shift_id"`
	WorkerID       string            `json:"worker_id"`
	WorkerUsername string            `json:"worker_username"` // Denormalized for review views
	Status         ApplicationStatus `json:"status"`
	Rating         *int              `json:"rating,omitempty"` // 1-5, set after completion
	AppliedAt      time.Time         `json:"applied_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// # Search & Filtering

// Filter holds parameters for browsing shift postings.
type Filter struct {
	// Skills narrows to postings requiring ALL listed skills.
	Skills    []string `json:"skills"`
	CompanyID string   `json:"company_id"`

	// MinWage filters out postings paying below this hourly rate.
	MinWage float64 `json:"min_wage"`

	// Status is empty for the public browse view, which pins it to OPEN.
	Status Status `json:"status"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldHourlyWage  = "hourly_wage"
	FieldRating      = "rating"
	FieldMessage     = "message"
)
