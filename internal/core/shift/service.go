// Copyright (c) 2026 QuickShift. All rights reserved.

package shift

import (
	"context"
	"log/slog"
	"time"

	"github.com/quickshift/quickshift/internal/platform/apperr"
	"github.com/quickshift/quickshift/internal/platform/validate"
	"github.com/quickshift/quickshift/pkg/uuid"
)

// # Service Layer

// MembershipChecker answers whether a user administers a company.
//
// Implemented by the company service; defined here so the shift domain does
// not depend on the company package directly.
type MembershipChecker interface {
	IsCompanyAdmin(ctx context.Context, companyID, userID string) (bool, error)
}

// Actor identifies the user performing a guarded operation.
type Actor struct {
	UserID string

	// IsAdmin short-circuits the company-membership check for platform admins.
	IsAdmin bool
}

// Service orchestrates business rules for shift postings and applications.
type Service struct {
	repo       Repository
	membership MembershipChecker
	logger     *slog.Logger
}

// NewService constructs a new shift [Service].
func NewService(repo Repository, membership MembershipChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		membership: membership,
		logger:     logger,
	}
}

// authorizeCompany verifies that the actor administers the shift's company.
func (service *Service) authorizeCompany(context context.Context, companyID string, actor Actor) error {
	if actor.IsAdmin {
		return nil
	}

	member, err := service.membership.IsCompanyAdmin(context, companyID, actor.UserID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Forbidden("Insufficient permissions")
	}

	return nil
}

// # Shift Lifecycle

/*
PostShift validates and publishes a new shift for the actor's company.

Parameters:
  - context: context.Context
  - shift: *Shift
  - actor: Actor

Returns:
  - error: Authorization, validation, or persistence failures
*/
func (service *Service) PostShift(context context.Context, shift *Shift, actor Actor) error {
	if err := service.authorizeCompany(context, shift.CompanyID, actor); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, shift.Title).MaxLen(FieldTitle, shift.Title, 200).
		Required(FieldLocation, shift.Location).MaxLen(FieldLocation, shift.Location, 300).
		Custom(FieldHourlyWage, shift.HourlyWage <= 0, "Must be greater than zero").
		Custom(FieldStartTime, shift.StartTime.IsZero(), "This field is required").
		Custom(FieldEndTime, !shift.EndTime.After(shift.StartTime), "Must be after start_time")

	if err := validator.Err(); err != nil {
		return err
	}

	shift.ID = uuid.New()
	shift.Status = StatusOpen

	if err := service.repo.Create(context, shift); err != nil {
		return err
	}

	service.logger.Info("shift_posted",
		slog.String("shift_id", shift.ID),
		slog.String("company_id", shift.CompanyID),
	)

	return nil
}

/*
BrowseShifts retrieves a paginated list of OPEN shifts.

Description: The public browse view never exposes filled, completed, or
cancelled postings; an optional skill filter narrows the result.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Shift: List of open shifts
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) BrowseShifts(context context.Context, filter Filter, limit, offset int) ([]*Shift, int, error) {
	filter.Status = StatusOpen
	return service.repo.List(context, filter, limit, offset)
}

/*
GetShift retrieves a single shift by UUID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Shift: Hydrated entity
  - error: ErrNotFound if missing
*/
func (service *Service) GetShift(context context.Context, id string) (*Shift, error) {
	return service.repo.FindByID(context, id)
}

/*
CancelShift withdraws a posting before the work happens.

Description: Only OPEN and FILLED shifts can be cancelled; completed work is
immutable history.

Parameters:
  - context: context.Context
  - shiftID: string
  - actor: Actor

Returns:
  - error: Authorization failures, apperr.Unprocessable for terminal shifts
*/
func (service *Service) CancelShift(context context.Context, shiftID string, actor Actor) error {
	shift, err := service.repo.FindByID(context, shiftID)
	if err != nil {
		return err
	}

	if err := service.authorizeCompany(context, shift.CompanyID, actor); err != nil {
		return err
	}

	if shift.Status != StatusOpen && shift.Status != StatusFilled {
		return apperr.Unprocessable("Shift can no longer be cancelled")
	}

	if err := service.repo.UpdateStatus(context, shiftID, StatusCancelled); err != nil {
		return err
	}

	service.logger.Info("shift_cancelled", slog.String("shift_id", shiftID))

	return nil
}

/*
CompleteShift marks a filled shift as worked.

Parameters:
  - context: context.Context
  - shiftID: string
  - actor: Actor

Returns:
  - error: Authorization failures, apperr.Unprocessable unless the shift is FILLED
*/
func (service *Service) CompleteShift(context context.Context, shiftID string, actor Actor) error {
	shift, err := service.repo.FindByID(context, shiftID)
	if err != nil {
		return err
	}

	if err := service.authorizeCompany(context, shift.CompanyID, actor); err != nil {
		return err
	}

	if shift.Status != StatusFilled {
		return apperr.Unprocessable("Only a filled shift can be completed")
	}

	if err := service.repo.UpdateStatus(context, shiftID, StatusCompleted); err != nil {
		return err
	}

	service.logger.Info("shift_completed", slog.String("shift_id", shiftID))

	return nil
}

// # Applications

/*
Apply records a worker's bid for an open shift.

Description: A worker can hold at most one application per shift; the store
reports the duplicate as a Conflict.

Parameters:
  - context: context.Context
  - shiftID: string
  - workerID: string

Returns:
  - *Application: Created application
  - error: apperr.Unprocessable for non-OPEN shifts, apperr.Conflict for duplicates
*/
func (service *Service) Apply(context context.Context, shiftID, workerID string) (*Application, error) {
	shift, err := service.repo.FindByID(context, shiftID)
	if err != nil {
		return nil, err
	}

	if shift.Status != StatusOpen {
		return nil, apperr.Unprocessable("Shift is not open for applications")
	}

	if !shift.Upcoming() {
		return nil, apperr.Unprocessable("Shift has already started")
	}

	application := &Application{
		ID:       uuid.New(),
		ShiftID:  shiftID,
		WorkerID: workerID,
		Status:   ApplicationPending,
	}

	if err := service.repo.CreateApplication(context, application); err != nil {
		return nil, err
	}

	service.logger.Info("shift_application_created",
		slog.String("shift_id", shiftID),
		slog.String("worker_id", workerID),
	)

	return application, nil
}

/*
ListApplications returns the applications for a shift, for company review.

Parameters:
  - context: context.Context
  - shiftID: string
  - actor: Actor

Returns:
  - []*Application: Applications in submission order
  - error: Authorization or retrieval failures
*/
func (service *Service) ListApplications(context context.Context, shiftID string, actor Actor) ([]*Application, error) {
	shift, err := service.repo.FindByID(context, shiftID)
	if err != nil {
		return nil, err
	}

	if err := service.authorizeCompany(context, shift.CompanyID, actor); err != nil {
		return nil, err
	}

	return service.repo.ListApplications(context, shiftID)
}

/*
AcceptApplication approves a pending application and fills the shift.

Parameters:
  - context: context.Context
  - shiftID: string
  - applicationID: string
  - actor: Actor

Returns:
  - error: apperr.Conflict unless the application is PENDING
*/
func (service *Service) AcceptApplication(context context.Context, shiftID, applicationID string, actor Actor) error {
	shift, application, err := service.loadForReview(context, shiftID, applicationID, actor)
	if err != nil {
		return err
	}

	if application.Status != ApplicationPending {
		return apperr.Conflict("Application has already been reviewed")
	}

	if shift.Status != StatusOpen {
		return apperr.Unprocessable("Shift is not open")
	}

	if err := service.repo.UpdateApplicationStatus(context, applicationID, ApplicationAccepted); err != nil {
		return err
	}

	if err := service.repo.UpdateStatus(context, shiftID, StatusFilled); err != nil {
		return err
	}

	service.logger.Info("shift_application_accepted",
		slog.String("shift_id", shiftID),
		slog.String("application_id", applicationID),
	)

	return nil
}

/*
DenyApplication rejects a pending application.

Parameters:
  - context: context.Context
  - shiftID: string
  - applicationID: string
  - actor: Actor

Returns:
  - error: apperr.Conflict unless the application is PENDING
*/
func (service *Service) DenyApplication(context context.Context, shiftID, applicationID string, actor Actor) error {
	_, application, err := service.loadForReview(context, shiftID, applicationID, actor)
	if err != nil {
		return err
	}

	if application.Status != ApplicationPending {
		return apperr.Conflict("Application has already been reviewed")
	}

	if err := service.repo.UpdateApplicationStatus(context, applicationID, ApplicationDenied); err != nil {
		return err
	}

	service.logger.Info("shift_application_denied",
		slog.String("shift_id", shiftID),
		slog.String("application_id", applicationID),
	)

	return nil
}

/*
RateWorker records a 1-5 rating for the accepted worker of a completed shift.

Parameters:
  - context: context.Context
  - shiftID: string
  - applicationID: string
  - rating: int
  - actor: Actor

Returns:
  - error: apperr.Unprocessable before completion or for non-accepted applications
*/
func (service *Service) RateWorker(context context.Context, shiftID, applicationID string, rating int, actor Actor) error {
	validator := &validate.Validator{}
	validator.Range(FieldRating, rating, 1, 5)
	if err := validator.Err(); err != nil {
		return err
	}

	shift, application, err := service.loadForReview(context, shiftID, applicationID, actor)
	if err != nil {
		return err
	}

	if shift.Status != StatusCompleted {
		return apperr.Unprocessable("Shift has not been completed yet")
	}

	if application.Status != ApplicationAccepted {
		return apperr.Unprocessable("Only the accepted worker can be rated")
	}

	if err := service.repo.SetRating(context, applicationID, rating); err != nil {
		return err
	}

	service.logger.Info("shift_worker_rated",
		slog.String("shift_id", shiftID),
		slog.String("application_id", applicationID),
		slog.Int("rating", rating),
	)

	return nil
}

// loadForReview fetches a shift and one of its applications, verifying the
// actor's company standing and that the application belongs to the shift.
func (service *Service) loadForReview(context context.Context, shiftID, applicationID string, actor Actor) (*Shift, *Application, error) {
	shift, err := service.repo.FindByID(context, shiftID)
	if err != nil {
		return nil, nil, err
	}

	if err := service.authorizeCompany(context, shift.CompanyID, actor); err != nil {
		return nil, nil, err
	}

	application, err := service.repo.FindApplication(context, applicationID)
	if err != nil {
		return nil, nil, err
	}

	if application.ShiftID != shift.ID {
		return nil, nil, apperr.NotFound("Application")
	}

	return shift, application, nil
}

// Upcoming reports whether the shift starts in the future.
func (shift *Shift) Upcoming() bool {
	return shift.StartTime.After(time.Now())
}
