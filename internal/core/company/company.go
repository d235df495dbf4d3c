// Copyright (c) 2026 QuickShift. All rights reserved.

/*
Package company manages employer companies and their memberships.

It handles the lifecycle of hiring organizations, from creation and discovery
to member administration.

# Core Responsibility

  - Organization: Defines the [Company] entity and its metadata.
  - Membership: Manages [Member] associations; every member administers the
    company's shifts.
  - Authorization: Company membership is the ownership check behind all shift
    mutations in the core domain.

This package provides the employer context for shift postings.
*/
package company

import "time"

// # Core Entities

// Company represents an organization that posts shifts.
type Company struct {
	ID          string     `json:"id"` // UUIDv7
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	Website     *string    `json:"website,omitempty"`
	CreatorID   string     `json:"creator_id"`
	MemberCount int        `json:"member_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Member represents a user's administrative affiliation with a company.
//
// Every member holds the COMPANYADMIN platform role; there is no internal
// role hierarchy within a company.
type Member struct {
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"` // Denormalized for roster views
	JoinedAt  time.Time `json:"joined_at"`
}

// # Search & Filtering

// Filter holds parameters for searching and listing companies.
type Filter struct {
	Query string `json:"q"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldWebsite     = "website"
	FieldUserID      = "user_id"
	FieldMessage     = "message"
)
