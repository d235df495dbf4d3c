// Copyright (c) 2026 QuickShift. All rights reserved.

package shift

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed shift store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Shift Retrieval

/*
List returns a filtered and paginated list of shifts.

Description: Skill filtering uses the text[] containment operator against
requiredskills; COUNT(*) OVER() supplies the total without a second query.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Shift: Slice of matching shifts
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Shift, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			id, companyid, title, description, location, starttime, endtime,
			hourlywage, requiredskills, status, createdat, updatedat,
			COUNT(*) OVER() as total
		FROM core.shift
		WHERE 1=1
	`)

	args := []any{}
	argID := 1

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	if len(filter.Skills) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND requiredskills @> $%d", argID))
		args = append(args, filter.Skills)
		argID++
	}

	if filter.CompanyID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND companyid = $%d", argID))
		args = append(args, filter.CompanyID)
		argID++
	}

	if filter.MinWage > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND hourlywage >= $%d", argID))
		args = append(args, filter.MinWage)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY starttime ASC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_shifts")
	}
	defer rows.Close()

	var shifts []*Shift
	var total int
	for rows.Next() {
		shift := &Shift{}
		err := rows.Scan(
			&shift.ID, &shift.CompanyID, &shift.Title, &shift.Description, &shift.Location,
			&shift.StartTime, &shift.EndTime, &shift.HourlyWage, &shift.RequiredSkills,
			&shift.Status, &shift.CreatedAt, &shift.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_shift")
		}
		shifts = append(shifts, shift)
	}

	return shifts, total, nil
}

/*
FindByID retrieves a single shift record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Shift: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Shift, error) {
	const query = `
		SELECT
			id, companyid, title, description, location, starttime, endtime,
			hourlywage, requiredskills, status, createdat, updatedat
		FROM core.shift
		WHERE id = $1
	`
	shift := &Shift{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&shift.ID, &shift.CompanyID, &shift.Title, &shift.Description, &shift.Location,
		&shift.StartTime, &shift.EndTime, &shift.HourlyWage, &shift.RequiredSkills,
		&shift.Status, &shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_shift_by_id")
	}
	return shift, nil
}

// # Shift Mutation

/*
Create inserts a new shift posting.

Parameters:
  - context: context.Context
  - shift: *Shift

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, shift *Shift) error {
	const query = `
		INSERT INTO core.shift (
			id, companyid, title, description, location, starttime, endtime,
			hourlywage, requiredskills, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		shift.ID, shift.CompanyID, shift.Title, shift.Description, shift.Location,
		shift.StartTime, shift.EndTime, shift.HourlyWage, shift.RequiredSkills, shift.Status,
	).Scan(&shift.CreatedAt, &shift.UpdatedAt)

	return dberr.Wrap(err, "create_shift")
}

/*
UpdateStatus transitions a shift's lifecycle state.

Parameters:
  - context: context.Context
  - id: string
  - status: Status

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status Status) error {
	const query = `
		UPDATE core.shift
		SET status = $2, updatedat = NOW()
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "update_shift_status")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Shift")
	}
	return nil
}

// # Application Implementation

/*
ListApplications retrieves all applications for a shift in submission order.

Parameters:
  - context: context.Context
  - shiftID: string

Returns:
  - []*Application: Applications with denormalized worker usernames
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListApplications(context context.Context, shiftID string) ([]*Application, error) {
	const query = `
		SELECT a.id, a.shiftid, a.workerid, u.username, a.status, a.rating, a.appliedat, a.updatedat
		FROM core.application a
		JOIN users.account u ON a.workerid = u.id
		WHERE a.shiftid = $1
		ORDER BY a.appliedat ASC
	`
	rows, err := repository.db.Query(context, query, shiftID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_applications")
	}
	defer rows.Close()

	var applications []*Application
	for rows.Next() {
		application := &Application{}
		err := rows.Scan(
			&application.ID, &application.ShiftID, &application.WorkerID, &application.WorkerUsername,
			&application.Status, &application.Rating, &application.AppliedAt, &application.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_application")
		}
		applications = append(applications, application)
	}

	return applications, nil
}

/*
FindApplication retrieves a single application by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Application: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindApplication(context context.Context, id string) (*Application, error) {
	const query = `
		SELECT a.id, a.shiftid, a.workerid, u.username, a.status, a.rating, a.appliedat, a.updatedat
		FROM core.application a
		JOIN users.account u ON a.workerid = u.id
		WHERE a.id = $1
	`
	application := &Application{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&application.ID, &application.ShiftID, &application.WorkerID, &application.WorkerUsername,
		&application.Status, &application.Rating, &application.AppliedAt, &application.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_application_by_id")
	}
	return application, nil
}

/*
CreateApplication inserts a worker's bid.

Description: The core.application table carries a UNIQUE(shiftid, workerid)
constraint; violations map to apperr.Conflict via dberr.

Parameters:
  - context: context.Context
  - application: *Application

Returns:
  - error: apperr.Conflict or persistence failures
*/
func (repository *PostgresRepository) CreateApplication(context context.Context, application *Application) error {
	const query = `
		INSERT INTO core.application (id, shiftid, workerid, status, appliedat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING appliedat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		application.ID, application.ShiftID, application.WorkerID, application.Status,
	).Scan(&application.AppliedAt, &application.UpdatedAt)

	return dberr.Wrap(err, "create_application")
}

/*
UpdateApplicationStatus transitions an application's review state.

Parameters:
  - context: context.Context
  - id: string
  - status: ApplicationStatus

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) UpdateApplicationStatus(context context.Context, id string, status ApplicationStatus) error {
	const query = `
		UPDATE core.application
		SET status = $2, updatedat = NOW()
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "update_application_status")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Application")
	}
	return nil
}

/*
SetRating records the worker's rating for an application.

Parameters:
  - context: context.Context
  - id: string
  - rating: int

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) SetRating(context context.Context, id string, rating int) error {
	const query = `
		UPDATE core.application
		SET rating = $2, updatedat = NOW()
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id, rating)
	if err != nil {
		return dberr.Wrap(err, "set_application_rating")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Application")
	}
	return nil
}
