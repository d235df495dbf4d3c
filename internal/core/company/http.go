// Copyright (c) 2026 QuickShift. All rights reserved.

package company

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickshift/quickshift/internal/platform/middleware"
	requestutil "github.com/quickshift/quickshift/internal/platform/request"
	"github.com/quickshift/quickshift/internal/platform/respond"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/internal/platform/validate"
	"github.com/quickshift/quickshift/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for company operations.
type Handler struct {
	service *Service
	guard   *middleware.Guard
}

// NewHandler constructs a new company [Handler].
func NewHandler(service *Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with company-related endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery
	router.Get("/", handler.listCompanies)
	router.Get("/{identifier}", handler.getCompany)
	router.Get("/{id}/members", handler.listMembers)

	// ## Company Creation (Employer or Admin)
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.RequireAnyRole(sec.RoleEmployer, sec.RoleAdmin))
		r.Post("/", handler.createCompany)
	})

	// ## Administrative (Company admins; ownership verified in the service)
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.RequireAnyRole(sec.RoleCompanyAdmin, sec.RoleAdmin))
		r.Patch("/{id}", handler.updateCompany)
		r.Delete("/{id}", handler.deleteCompany)
		r.Post("/{id}/members", handler.addMember)
		r.Delete("/{id}/members/{userID}", handler.removeMember)
	})

	return router
}

// actor derives the acting user from the authenticated request.
func actor(request *http.Request) (Actor, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Actor{}, err
	}
	return Actor{
		UserID:  claims.UserID,
		IsAdmin: claims.RoleSet().Has(sec.RoleAdmin),
	}, nil
}

// # Company Endpoints

/*
GET /api/v1/companies.

Description: Retrieves a paginated list of companies.
Supports searching by name.

Request:
  - q: string (Name search)
  - limit: int
  - page: int

Response:
  - 200: []Company: Paginated list
*/
func (handler *Handler) listCompanies(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}

	companies, total, err := handler.service.ListCompanies(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, companies, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/companies/{identifier}.

Description: Retrieves full details of a company using its UUID or unique slug.

Request:
  - identifier: string (UUID or Slug)

Response:
  - 200: Company: Success
  - 404: 404: ErrNotFound: Company not found
*/
func (handler *Handler) getCompany(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	company, err := handler.service.GetCompany(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, company)
}

/*
POST /api/v1/companies.

Description: Registers a new company. The creator becomes its first member
and is promoted to COMPANYADMIN. Slugs are auto-generated from the name.

Request (Body):
  - Company JSON object

Response:
  - 201: Company: Created object
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: Employer or Admin role required
*/
func (handler *Handler) createCompany(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Company
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateCompany(request.Context(), &input, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
PATCH /api/v1/companies/{id}.

Description: Updates mutable company metadata like description or website.

Request:
  - id: string (Target UUID)
  - body: Company Partial (JSON)

Response:
  - 200: Company: Updated entity
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: Not a member of this company
  - 404: 404: ErrNotFound: Company not found
*/
func (handler *Handler) updateCompany(writer http.ResponseWriter, request *http.Request) {
	companyID := requestutil.ID(request, "id")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Company
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ID = companyID

	if err := handler.service.UpdateCompany(request.Context(), &input, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
DELETE /api/v1/companies/{id}.

Description: Soft-deletes a company. Its historical shifts remain intact.

Request:
  - id: string (Target UUID)

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: Not a member of this company
  - 404: 404: ErrNotFound: Company not found
*/
func (handler *Handler) deleteCompany(writer http.ResponseWriter, request *http.Request) {
	companyID := requestutil.ID(request, "id")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCompany(request.Context(), companyID, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Membership Endpoints

/*
GET /api/v1/companies/{id}/members.

Description: Lists all users on the company roster.

Request:
  - id: string (Company UUID)

Response:
  - 200: []Member: Success
  - 404: 404: ErrNotFound: Company not found
*/
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	companyID := requestutil.ID(request, "id")

	members, err := handler.service.ListMembers(request.Context(), companyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, members)
}

/*
POST /api/v1/companies/{id}/members.

Description: Adds a user to the company roster and promotes them to
COMPANYADMIN.

Request (Body):
  - { "user_id": "string" }

Response:
  - 201: Member: Created affiliation
  - 400: 400: ErrInvalidJSON: Invalid payload
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: Not a member of this company
  - 409: 409: ErrConflict: User is already a member
*/
func (handler *Handler) addMember(writer http.ResponseWriter, request *http.Request) {
	companyID := requestutil.ID(request, "id")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Member
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CompanyID = companyID

	v := &validate.Validator{}
	v.Required(FieldUserID, input.UserID).UUID(FieldUserID, input.UserID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddMember(request.Context(), &input, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
DELETE /api/v1/companies/{id}/members/{userID}.

Description: Removes a member's affiliation with the company.

Request:
  - id: string (Company UUID)
  - userID: string (User UUID)

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: Not a member of this company
*/
func (handler *Handler) removeMember(writer http.ResponseWriter, request *http.Request) {
	companyID := requestutil.ID(request, "id")
	userID := requestutil.ID(request, "userID")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveMember(request.Context(), companyID, userID, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
