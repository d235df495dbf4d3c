// Copyright (c) 2026 QuickShift. All rights reserved.

package shift

import "context"

// # Shift Data Access

// Repository defines the data access contract for shifts and applications.
type Repository interface {

	/*
		List returns a filtered, paginated slice of shifts and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Status, skill, company)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Shift: Slice of matching shifts
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Shift, int, error)

	/*
		FindByID retrieves a shift by its UUID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Shift: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Shift, error)

	/*
		Create persists a new shift posting.

		Parameters:
		  - context: context.Context
		  - shift: *Shift

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, shift *Shift) error

	/*
		UpdateStatus transitions a shift to a new lifecycle state.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: Status

		Returns:
		  - error: ErrNotFound or persistence failures
	*/
	UpdateStatus(context context.Context, id string, status Status) error

	// # Application Management

	/*
		ListApplications returns all applications for a shift.

		Parameters:
		  - context: context.Context
		  - shiftID: string

		Returns:
		  - []*Application: Applications in submission order
		  - error: Retrieval failures
	*/
	ListApplications(context context.Context, shiftID string) ([]*Application, error)

	/*
		FindApplication retrieves a single application by its UUID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Application: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindApplication(context context.Context, id string) (*Application, error)

	/*
		CreateApplication records a worker's bid for a shift.

		Description: The (shift, worker) pair is unique; a second application
		from the same worker surfaces as apperr.Conflict.

		Parameters:
		  - context: context.Context
		  - application: *Application

		Returns:
		  - error: apperr.Conflict or persistence failures
	*/
	CreateApplication(context context.Context, application *Application) error

	/*
		UpdateApplicationStatus transitions an application's review state.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: ApplicationStatus

		Returns:
		  - error: ErrNotFound or persistence failures
	*/
	UpdateApplicationStatus(context context.Context, id string, status ApplicationStatus) error

	/*
		SetRating records the 1-5 rating for an accepted application.

		Parameters:
		  - context: context.Context
		  - id: string
		  - rating: int

		Returns:
		  - error: ErrNotFound or persistence failures
	*/
	SetRating(context context.Context, id string, rating int) error
}
