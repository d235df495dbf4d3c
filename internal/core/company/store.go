// Copyright (c) 2026 QuickShift. All rights reserved.

package company

import "context"

// # Company Data Access

// Repository defines the data access contract for companies and memberships.
type Repository interface {

	/*
		List returns a filtered, paginated slice of companies and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Search query)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Company: Slice of matching companies
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Company, int, error)

	/*
		FindByID retrieves a company by its UUID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Company: Hydrated entity
		  - error: ErrNotFound if missing or deleted
	*/
	FindByID(context context.Context, id string) (*Company, error)

	/*
		FindBySlug retrieves a company by its human-readable identifier.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Company: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Company, error)

	/*
		Create persists a new company to the store.

		Parameters:
		  - context: context.Context
		  - company: *Company

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, company *Company) error

	/*
		Update modifies an existing company's metadata.

		Parameters:
		  - context: context.Context
		  - company: *Company

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, company *Company) error

	/*
		SoftDelete marks a company as deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	SoftDelete(context context.Context, id string) error

	// # Membership Management

	/*
		ListMembers returns all users affiliated with a company.

		Parameters:
		  - context: context.Context
		  - companyID: string

		Returns:
		  - []*Member: List of affiliated users
		  - error: Retrieval failures
	*/
	ListMembers(context context.Context, companyID string) ([]*Member, error)

	/*
		AddMember links a user to a company.

		Parameters:
		  - context: context.Context
		  - member: *Member

		Returns:
		  - error: apperr.Conflict for duplicate memberships, or persistence failures
	*/
	AddMember(context context.Context, member *Member) error

	/*
		RemoveMember terminates a user's affiliation with a company.

		Parameters:
		  - context: context.Context
		  - companyID: string
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RemoveMember(context context.Context, companyID, userID string) error

	/*
		IsMember reports whether a user belongs to a company.

		Parameters:
		  - context: context.Context
		  - companyID: string
		  - userID: string

		Returns:
		  - bool: Membership state
		  - error: Retrieval failures
	*/
	IsMember(context context.Context, companyID, userID string) (bool, error)
}
