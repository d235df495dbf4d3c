// Copyright (c) 2026 QuickShift. All rights reserved.

package company

import (
	"context"
	"log/slog"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/internal/platform/validate"
	"github.com/quickshift/quickshift/pkg/slug"
	"github.com/quickshift/quickshift/pkg/uuid"
)

// # Service Layer

// RoleGranter promotes user accounts when they gain company standing.
//
// Implemented by the auth service; defined here so the company domain does
// not depend on the auth package directly.
type RoleGranter interface {
	GrantRole(ctx context.Context, userID string, role sec.Role) error
}

// Service orchestrates business rules for companies and memberships.
type Service struct {
	repo   Repository
	roles  RoleGranter
	logger *slog.Logger
}

// NewService constructs a new company [Service].
func NewService(repo Repository, roles RoleGranter, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		logger: logger,
	}
}

// # Company Management

/*
ListCompanies retrieves a paginated and filtered list of companies.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Company: List of companies
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) ListCompanies(context context.Context, filter Filter, limit, offset int) ([]*Company, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetCompany retrieves a company by its UUID or Slug identifier.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *Company: Hydrated company entity
  - error: ErrNotFound if missing
*/
func (service *Service) GetCompany(context context.Context, identifier string) (*Company, error) {

	// Discriminator: ID vs Slug
	// UUIDs have a fixed length of 36 characters in standard hyphenated format.
	if len(identifier) == 36 {
		return service.repo.FindByID(context, identifier)
	}

	return service.repo.FindBySlug(context, identifier)
}

/*
CreateCompany initialises a new organization and enrolls the creator.

Description: The creator becomes the first member and is promoted to the
COMPANYADMIN platform role, which unlocks shift posting for this company.

Parameters:
  - context: context.Context
  - company: *Company
  - creatorID: string (The user creating the company)

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) CreateCompany(context context.Context, company *Company, creatorID string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, company.Name).MaxLen(FieldName, company.Name, 200)

	if company.Website != nil {
		validator.URL(FieldWebsite, *company.Website)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	company.ID = uuid.New()
	company.Slug = slug.From(company.Name)
	company.CreatorID = creatorID

	if err := service.repo.Create(context, company); err != nil {
		return err
	}

	if err := service.repo.AddMember(context, &Member{
		CompanyID: company.ID,
		UserID:    creatorID,
	}); err != nil {
		return err
	}

	if err := service.roles.GrantRole(context, creatorID, sec.RoleCompanyAdmin); err != nil {
		return err
	}

	service.logger.Info("company_created",
		slog.String("company_id", company.ID),
		slog.String("creator_id", creatorID),
	)

	return nil
}

/*
UpdateCompany modifies the metadata of an existing company.

Description: Only members of the company (or platform admins) may update it.

Parameters:
  - context: context.Context
  - company: *Company
  - actor: Actor

Returns:
  - error: Authorization, validation, or persistence failures
*/
func (service *Service) UpdateCompany(context context.Context, company *Company, actor Actor) error {
	if err := service.AuthorizeAdmin(context, company.ID, actor); err != nil {
		return err
	}

	validator := &validate.Validator{}
	if company.Name != "" {
		validator.MaxLen(FieldName, company.Name, 200)
	}

	if company.Website != nil {
		validator.URL(FieldWebsite, *company.Website)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(context, company); err != nil {
		return err
	}

	service.logger.Info("company_updated", slog.String("company_id", company.ID))

	return nil
}

/*
DeleteCompany retires a company from the marketplace.

Description: The row is soft-deleted so historical shifts keep a valid
company reference. Only members (or platform admins) may delete.

Parameters:
  - context: context.Context
  - companyID: string (UUID)
  - actor: Actor

Returns:
  - error: Authorization or persistence failures
*/
func (service *Service) DeleteCompany(context context.Context, companyID string, actor Actor) error {
	if err := service.AuthorizeAdmin(context, companyID, actor); err != nil {
		return err
	}

	if err := service.repo.SoftDelete(context, companyID); err != nil {
		return err
	}

	service.logger.Warn("company_deleted", slog.String("company_id", companyID))

	return nil
}

// # Membership Controls

// Actor identifies the user performing a guarded operation.
type Actor struct {
	UserID string

	// IsAdmin short-circuits the membership check for platform admins.
	IsAdmin bool
}

/*
AuthorizeAdmin verifies that the actor may administer the given company.

Description: Platform admins pass unconditionally; everyone else must be a
member of the company.

Parameters:
  - context: context.Context
  - companyID: string
  - actor: Actor

Returns:
  - error: apperr.Forbidden when the actor has no standing
*/
func (service *Service) AuthorizeAdmin(context context.Context, companyID string, actor Actor) error {
	if actor.IsAdmin {
		return nil
	}

	member, err := service.repo.IsMember(context, companyID, actor.UserID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Forbidden("Insufficient permissions")
	}

	return nil
}

/*
IsCompanyAdmin reports whether a user administers a company.

Description: Adapter for the shift domain, which gates every shift mutation
on company membership.

Parameters:
  - context: context.Context
  - companyID: string
  - userID: string

Returns:
  - bool: Membership state
  - error: Retrieval failures
*/
func (service *Service) IsCompanyAdmin(context context.Context, companyID, userID string) (bool, error) {
	return service.repo.IsMember(context, companyID, userID)
}

/*
ListMembers returns the roster for a specific company.

Parameters:
  - context: context.Context
  - companyID: string

Returns:
  - []*Member: List of affiliated users
  - error: Retrieval failures
*/
func (service *Service) ListMembers(context context.Context, companyID string) ([]*Member, error) {
	return service.repo.ListMembers(context, companyID)
}

/*
AddMember enrolls a new user into the company roster.

Description: Only existing members (or platform admins) may add members. The
new member is promoted to COMPANYADMIN.

Parameters:
  - context: context.Context
  - member: *Member
  - actor: Actor

Returns:
  - error: Authorization, conflict, or storage failures
*/
func (service *Service) AddMember(context context.Context, member *Member, actor Actor) error {
	if err := service.AuthorizeAdmin(context, member.CompanyID, actor); err != nil {
		return err
	}

	if err := service.repo.AddMember(context, member); err != nil {
		return err
	}

	if err := service.roles.GrantRole(context, member.UserID, sec.RoleCompanyAdmin); err != nil {
		return err
	}

	service.logger.Info("company_member_added",
		slog.String("company_id", member.CompanyID),
		slog.String("user_id", member.UserID),
	)

	return nil
}

/*
RemoveMember removes an affiliation between a user and a company.

Description: The COMPANYADMIN platform role is intentionally NOT revoked
here; the user may still administer other companies.

Parameters:
  - context: context.Context
  - companyID: string (UUID)
  - userID: string (UUID)
  - actor: Actor

Returns:
  - error: Authorization or storage failures
*/
func (service *Service) RemoveMember(context context.Context, companyID, userID string, actor Actor) error {
	if err := service.AuthorizeAdmin(context, companyID, actor); err != nil {
		return err
	}

	return service.repo.RemoveMember(context, companyID, userID)
}
