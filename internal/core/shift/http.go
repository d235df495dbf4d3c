// Copyright (c) 2026 QuickShift. All rights reserved.

package shift

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickshift/quickshift/internal/platform/constants"
	"github.com/quickshift/quickshift/internal/platform/middleware"
	requestutil "github.com/quickshift/quickshift/internal/platform/request"
	"github.com/quickshift/quickshift/internal/platform/respond"
	"github.com/quickshift/quickshift/internal/platform/sec"
	"github.com/quickshift/quickshift/pkg/convert"
	"github.com/quickshift/quickshift/pkg/pagination"
	"github.com/quickshift/quickshift/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for shift operations.
type Handler struct {
	service *Service
	guard   *middleware.Guard
}

// NewHandler constructs a new shift [Handler].
func NewHandler(service *Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with shift-related endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery
	router.Get("/", handler.browseShifts)
	router.Get("/{id}", handler.getShift)

	// ## Worker Actions
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.RequireRole(sec.RoleWorker))
		r.Post("/{id}/apply", handler.apply)
	})

	// ## Company Administration (ownership verified in the service)
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.RequireAnyRole(sec.RoleCompanyAdmin, sec.RoleAdmin))
		r.Post("/", handler.postShift)
		r.Post("/{id}/cancel", handler.cancelShift)
		r.Post("/{id}/complete", handler.completeShift)
		r.Get("/{id}/applications", handler.listApplications)
		r.Post("/{id}/applications/{applicationID}/accept", handler.acceptApplication)
		r.Post("/{id}/applications/{applicationID}/deny", handler.denyApplication)
		r.Post("/{id}/applications/{applicationID}/rate", handler.rateWorker)
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

// # Shift Endpoints

/*
GET /api/v1/shifts.

Description: Browses OPEN shift postings, soonest first. Closed postings are
never listed here regardless of query parameters.

Request:
  - skills: string (Comma-separated; only shifts requiring all of them)
  - company: string (Only shifts from this company)
  - min_wage: float (Only shifts at or above this hourly rate)
  - limit: int
  - page: int

Response:
  - 200: []Shift: Paginated list of open shifts
*/
func (handler *Handler) browseShifts(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Skills:    query.StringSlice(queryParams.Get("skills")),
		CompanyID: queryParams.Get("company"),
		MinWage:   convert.ToFloat64(queryParams.Get("min_wage")),
	}

	shifts, total, err := handler.service.BrowseShifts(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, shifts, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/shifts/{id}.

Description: Retrieves full details of a single shift posting.

Request:
  - id: string (Shift UUID)

Response:
  - 200: Shift: Success
  - 404: 404: ErrNotFound: Shift not found
*/
func (handler *Handler) getShift(writer http.ResponseWriter, request *http.Request) {
	shiftID := requestutil.ID(request, "id")

	shift, err := handler.service.GetShift(request.Context(), shiftID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, shift)
}

/*
POST /api/v1/shifts.

Description: Publishes a new shift for one of the caller's companies.

Request (Body):
  - Shift JSON object (company_id, title, location, start_time, end_time,
    hourly_wage, required_skills)

Response:
  - 201: Shift: Created posting with status OPEN
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: Not a member of the target company
*/
func (handler *Handler) postShift(writer http.ResponseWriter, request *http.Request) {
	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Shift
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.PostShift(request.Context(), &input, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
POST /api/v1/shifts/{id}/cancel.

Description: Withdraws an OPEN or FILLED posting.

Response:
  - 200: Message: Shift cancelled
  - 403: 403: ErrForbidden: Not a member of the owning company
  - 404: 404: ErrNotFound: Shift not found
  - 422: 422: ErrUnprocessable: Shift already completed or cancelled
*/
func (handler *Handler) cancelShift(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.service.CancelShift, "Shift cancelled")
}

/*
POST /api/v1/shifts/{id}/complete.

Description: Marks a FILLED shift as worked, unlocking worker rating.

Response:
  - 200: Message: Shift completed
  - 403: 403: ErrForbidden: Not a member of the owning company
  - 404: 404: ErrNotFound: Shift not found
  - 422: 422: ErrUnprocessable: Shift is not FILLED
*/
func (handler *Handler) completeShift(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.service.CompleteShift, "Shift completed")
}

// transition runs a status-changing service call shared by cancel/complete.
func (handler *Handler) transition(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx context.Context, shiftID string, actor Actor) error,
	message string,
) {
	shiftID := requestutil.ID(request, "id")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := operation(request.Context(), shiftID, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: message})
}

// # Application Endpoints

/*
POST /api/v1/shifts/{id}/apply.

Description: Submits the caller's application for an open shift.

Response:
  - 201: Application: Created application with status PENDING
  - 401: 401: ErrUnauthorized: Authentication required
  - 403: 403: ErrForbidden: WORKER role required
  - 409: 409: ErrConflict: Already applied to this shift
  - 422: 422: ErrUnprocessable: Shift is not open
*/
func (handler *Handler) apply(writer http.ResponseWriter, request *http.Request) {
	shiftID := requestutil.ID(request, "id")

	workerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	application, err := handler.service.Apply(request.Context(), shiftID, workerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, application)
}

/*
GET /api/v1/shifts/{id}/applications.

Description: Lists the applications for a shift, for company review.

Response:
  - 200: []Application: Applications in submission order
  - 403: 403: ErrForbidden: Not a member of the owning company
  - 404: 404: ErrNotFound: Shift not found
*/
func (handler *Handler) listApplications(writer http.ResponseWriter, request *http.Request) {
	shiftID := requestutil.ID(request, "id")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	applications, err := handler.service.ListApplications(request.Context(), shiftID, callingActor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, applications)
}

/*
POST /api/v1/shifts/{id}/applications/{applicationID}/accept.

Description: Accepts a pending application; the shift becomes FILLED.

Response:
  - 200: Message: Application accepted
  - 403: 403: ErrForbidden: Not a member of the owning company
  - 404: 404: ErrNotFound: Shift or application not found
  - 409: 409: ErrConflict: Application already reviewed
*/
func (handler *Handler) acceptApplication(writer http.ResponseWriter, request *http.Request) {
	handler.review(writer, request, handler.service.AcceptApplication, "Application accepted")
}

/*
POST /api/v1/shifts/{id}/applications/{applicationID}/deny.

Description: Denies a pending application.

Response:
  - 200: Message: Application denied
  - 403: 403: ErrForbidden: Not a member of the owning company
  - 404: 404: ErrNotFound: Shift or application not found
  - 409: 409: ErrConflict: Application already reviewed
*/
func (handler *Handler) denyApplication(writer http.ResponseWriter, request *http.Request) {
	handler.review(writer, request, handler.service.DenyApplication, "Application denied")
}

// review runs an application-review service call shared by accept/deny.
func (handler *Handler) review(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx context.Context, shiftID, applicationID string, actor Actor) error,
	message string,
) {
	shiftID := requestutil.ID(request, "id")
	applicationID := requestutil.ID(request, "applicationID")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := operation(request.Context(), shiftID, applicationID, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: message})
}

type rateRequest struct {
	Rating int `json:"rating"`
}

/*
POST /api/v1/shifts/{id}/applications/{applicationID}/rate.

Description: Rates the accepted worker of a completed shift from 1 to 5.

Request (Body):
  - { "rating": 1-5 }

Response:
  - 200: Message: Worker rated
  - 400: 400: ErrInvalidJSON/Validation: Rating outside 1-5
  - 403: 403: ErrForbidden: Not a member of the owning company
  - 404: 404: ErrNotFound: Shift or application not found
  - 422: 422: ErrUnprocessable: Shift not completed or application not accepted
*/
func (handler *Handler) rateWorker(writer http.ResponseWriter, request *http.Request) {
	shiftID := requestutil.ID(request, "id")
	applicationID := requestutil.ID(request, "applicationID")

	callingActor, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RateWorker(request.Context(), shiftID, applicationID, input.Rating, callingActor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "Worker rated"})
}
