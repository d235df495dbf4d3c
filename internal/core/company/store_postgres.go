// Copyright (c) 2026 QuickShift. All rights reserved.

package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quickshift/quickshift/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed company store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Company Retrieval

/*
List returns a filtered and paginated list of companies.

Description: Uses ILIKE for name search and COUNT(*) OVER() for total metadata.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Company: Slice of matching companies
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Company, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			id, name, slug, description, website, creatorid,
			membercount, createdat, updatedat,
			COUNT(*) OVER() as total
		FROM core.company
		WHERE deletedat IS NULL
	`)

	args := []any{}
	argID := 1

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_companies")
	}
	defer rows.Close()

	var companies []*Company
	var total int
	for rows.Next() {
		company := &Company{}
		err := rows.Scan(
			&company.ID, &company.Name, &company.Slug, &company.Description, &company.Website, &company.CreatorID,
			&company.MemberCount, &company.CreatedAt, &company.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_company")
		}
		companies = append(companies, company)
	}

	return companies, total, nil
}

/*
FindByID retrieves a single company record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Company: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Company, error) {
	const query = `
		SELECT
			id, name, slug, description, website, creatorid,
			membercount, createdat, updatedat
		FROM core.company
		WHERE id = $1 AND deletedat IS NULL
	`
	company := &Company{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&company.ID, &company.Name, &company.Slug, &company.Description, &company.Website, &company.CreatorID,
		&company.MemberCount, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_company_by_id")
	}
	return company, nil
}

/*
FindBySlug retrieves a company by its unique URL slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Company: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Company, error) {
	const query = `
		SELECT
			id, name, slug, description, website, creatorid,
			membercount, createdat, updatedat
		FROM core.company
		WHERE slug = $1 AND deletedat IS NULL
	`
	company := &Company{}
	err := repository.db.QueryRow(context, query, slug).Scan(
		&company.ID, &company.Name, &company.Slug, &company.Description, &company.Website, &company.CreatorID,
		&company.MemberCount, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_company_by_slug")
	}
	return company, nil
}

// # Company Mutation

/*
Create inserts a new company record.

Parameters:
  - context: context.Context
  - company: *Company

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, company *Company) error {
	const query = `
		INSERT INTO core.company (
			id, name, slug, description, website, creatorid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		company.ID, company.Name, company.Slug, company.Description, company.Website, company.CreatorID,
	).Scan(&company.CreatedAt, &company.UpdatedAt)

	return dberr.Wrap(err, "create_company")
}

/*
Update modifies company metadata fields.

Parameters:
  - context: context.Context
  - company: *Company

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, company *Company) error {
	const query = `
		UPDATE core.company
		SET description = $2, website = $3, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat
	`
	err := repository.db.QueryRow(context, query, company.ID, company.Description, company.Website).Scan(&company.UpdatedAt)
	return dberr.Wrap(err, "update_company")
}

/*
SoftDelete flags a company as deleted.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	const query = `UPDATE core.company SET deletedat = NOW() WHERE id = $1`
	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, "delete_company")
}

// # Membership Implementation

/*
ListMembers retrieves all affiliated users.

Parameters:
  - context: context.Context
  - companyID: string

Returns:
  - []*Member: List of affiliated users
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListMembers(context context.Context, companyID string) ([]*Member, error) {
	const query = `
		SELECT m.companyid, m.userid, u.username, m.joinedat
		FROM core.companymember m
		JOIN users.account u ON m.userid = u.id
		WHERE m.companyid = $1
		ORDER BY m.joinedat ASC
	`
	rows, err := repository.db.Query(context, query, companyID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_company_members")
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.CompanyID, &member.UserID, &member.Username, &member.JoinedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_member")
		}
		members = append(members, member)
	}

	return members, nil
}

/*
AddMember inserts a new membership record and bumps the roster counter.

Description: Executes within a transaction so the counter can never drift
from the actual membership rows. A duplicate membership surfaces as a unique
violation, which dberr maps to apperr.Conflict.

Parameters:
  - context: context.Context
  - member: *Member

Returns:
  - error: apperr.Conflict or persistence failures
*/
func (repository *PostgresRepository) AddMember(context context.Context, member *Member) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_add_member_tx")
	}
	defer transaction.Rollback(context)

	const memberQuery = `
		INSERT INTO core.companymember (companyid, userid, joinedat)
		VALUES ($1, $2, NOW())
		RETURNING joinedat
	`
	err = transaction.QueryRow(context, memberQuery, member.CompanyID, member.UserID).Scan(&member.JoinedAt)
	if err != nil {
		return dberr.Wrap(err, "add_company_member")
	}

	const countQuery = `
		UPDATE core.company
		SET membercount = membercount + 1
		WHERE id = $1
	`
	_, err = transaction.Exec(context, countQuery, member.CompanyID)
	if err != nil {
		return dberr.Wrap(err, "increment_member_count")
	}

	return transaction.Commit(context)
}

/*
RemoveMember removes a membership link and decrements metrics accurately.

Description: Only decrements if a record was actually removed to prevent
negative drift during concurrent or duplicate requests.

Parameters:
  - context: context.Context
  - companyID: string
  - userID: string

Returns:
  - error: Database or transactional errors
*/
func (repository *PostgresRepository) RemoveMember(context context.Context, companyID, userID string) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_remove_member_tx")
	}
	defer transaction.Rollback(context)

	const deleteQuery = `
		DELETE FROM core.companymember
		WHERE companyid = $1 AND userid = $2
	`
	result, err := transaction.Exec(context, deleteQuery, companyID, userID)
	if err != nil {
		return dberr.Wrap(err, "remove_member")
	}

	// Prevents counter from dropping below zero using GREATEST(0, x)
	if result.RowsAffected() > 0 {
		const decrementQuery = `
			UPDATE core.company
			SET membercount = GREATEST(0, membercount - 1)
			WHERE id = $1
		`
		_, err = transaction.Exec(context, decrementQuery, companyID)
		if err != nil {
			return dberr.Wrap(err, "decrement_member_count")
		}
	}

	return transaction.Commit(context)
}

/*
IsMember checks for an active membership link.

Parameters:
  - context: context.Context
  - companyID: string
  - userID: string

Returns:
  - bool: Membership state
  - error: Retrieval failures
*/
func (repository *PostgresRepository) IsMember(context context.Context, companyID, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM core.companymember
			WHERE companyid = $1 AND userid = $2
		)
	`
	var exists bool
	if err := repository.db.QueryRow(context, query, companyID, userID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_company_member")
	}
	return exists, nil
}
