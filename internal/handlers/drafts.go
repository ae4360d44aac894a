package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/visitor-intake-api/internal/auth"
	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"github.com/gdg-garage/visitor-intake-api/internal/notifier"
	"github.com/gdg-garage/visitor-intake-api/internal/observability/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Submitter persists an accepted draft.
type Submitter interface {
	Submit(ctx context.Context, employeeID uint, draft intake.VisitDraft) (*models.Visit, error)
}

type DraftHandler struct {
	store       *intake.Store
	validator   *intake.Validator
	submitter   Submitter
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
	metrics     *metrics.IntakeMetrics
	logger      logrus.FieldLogger
	now         func() time.Time
}

func NewDraftHandler(
	store *intake.Store,
	validator *intake.Validator,
	submitter Submitter,
	db *gorm.DB,
	notifier notifier.Notifier,
	authHandler *auth.AuthHandler,
	metrics *metrics.IntakeMetrics,
	logger logrus.FieldLogger,
) *DraftHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DraftHandler{
		store:       store,
		validator:   validator,
		submitter:   submitter,
		db:          db,
		notifier:    notifier,
		authHandler: authHandler,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// DraftView is the client-facing state of a form.
type DraftView struct {
	ID                  string               `json:"id"`
	Steps               []string             `json:"steps"`
	ActiveStep          intake.Step          `json:"activeStep"`
	Values              intake.VisitDraft    `json:"values"`
	Errors              intake.FieldErrors   `json:"errors"`
	PendingConfirmation *intake.Confirmation `json:"pendingConfirmation,omitempty"`
	Submitting          bool                 `json:"submitting"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

func newDraftView(f *intake.Form) DraftView {
	return DraftView{
		ID:                  f.ID.String(),
		Steps:               intake.Steps,
		ActiveStep:          f.Step,
		Values:              f.Draft,
		Errors:              f.Errors,
		PendingConfirmation: f.Pending,
		Submitting:          f.Submitting,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
}

type DraftOutput struct {
	Body DraftView
}

// draftError maps intake errors to API errors. Field validation results are
// not errors and never pass through here.
func draftError(err error) error {
	switch {
	case errors.Is(err, intake.ErrDraftNotFound):
		return huma.Error404NotFound("Draft not found")
	case errors.Is(err, intake.ErrNoPendingConfirmation),
		errors.Is(err, intake.ErrSubmissionInProgress):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, intake.ErrDateRequired),
		errors.Is(err, intake.ErrEntryRequired),
		errors.Is(err, intake.ErrInvalidDate),
		errors.Is(err, intake.ErrInvalidClock),
		errors.Is(err, intake.ErrVisitorIndex),
		errors.Is(err, intake.ErrInvalidStatus):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("Failed to update draft")
	}
}

// update authorizes the caller and runs fn against their form.
func (h *DraftHandler) update(ctx context.Context, in auth.AuthInput, rawID string, fn func(*intake.Form) error) (*intake.Form, error) {
	employeeID, err := h.authHandler.Authorize(ctx, in)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, draftError(intake.ErrDraftNotFound)
	}
	f, err := h.store.Update(id, employeeID, h.now(), fn)
	if err != nil {
		return nil, draftError(err)
	}
	return f, nil
}

type DraftIDInput struct {
	auth.AuthInput
	ID string `path:"id" doc:"Draft ID"`
}

type CreateDraftInput struct {
	auth.AuthInput
}

func (h *DraftHandler) HandleCreate(ctx context.Context, input *CreateDraftInput) (*DraftOutput, error) {
	employeeID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	f := h.store.Create(employeeID, h.now())
	h.metrics.ObserveDraftCreated()
	h.logger.WithFields(logrus.Fields{"draft_id": f.ID, "employee_id": employeeID}).Debug("Draft created")

	return &DraftOutput{Body: newDraftView(f)}, nil
}

func (h *DraftHandler) HandleGet(ctx context.Context, input *DraftIDInput) (*DraftOutput, error) {
	employeeID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, draftError(intake.ErrDraftNotFound)
	}
	f, err := h.store.Get(id, employeeID)
	if err != nil {
		return nil, draftError(err)
	}
	return &DraftOutput{Body: newDraftView(f)}, nil
}

func (h *DraftHandler) HandleDelete(ctx context.Context, input *DraftIDInput) (*struct{}, error) {
	employeeID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, draftError(intake.ErrDraftNotFound)
	}
	if err := h.store.Delete(id, employeeID); err != nil {
		return nil, draftError(err)
	}
	return nil, nil
}

type UpdateVisitInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		CompanyName    *string `json:"companyName,omitempty" doc:"Visiting company, optional"`
		WhoTheyMeet    *string `json:"whoTheyMeet,omitempty" doc:"Person the visitors meet"`
		PurposeOfVisit *string `json:"purposeOfVisit,omitempty" doc:"Purpose of the visit"`
	}
}

func (h *DraftHandler) HandleUpdateVisit(ctx context.Context, input *UpdateVisitInput) (*DraftOutput, error) {
	change := intake.SetVisitInfo{
		CompanyName:    input.Body.CompanyName,
		WhoTheyMeet:    input.Body.WhoTheyMeet,
		PurposeOfVisit: input.Body.PurposeOfVisit,
	}
	return h.apply(ctx, input.AuthInput, input.ID, change)
}

type SetFloorsInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		AccessibleFloors []intake.FloorRoom `json:"accessibleFloors" doc:"Selected floor/room pairs"`
	}
}

func (h *DraftHandler) HandleSetFloors(ctx context.Context, input *SetFloorsInput) (*DraftOutput, error) {
	return h.apply(ctx, input.AuthInput, input.ID, intake.SetAccessibleFloors{Selection: input.Body.AccessibleFloors})
}

type SetDateInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Date string `json:"date" doc:"YYYY-MM-DD, empty to clear"`
	}
}

func (h *DraftHandler) HandleSetDate(ctx context.Context, input *SetDateInput) (*DraftOutput, error) {
	return h.apply(ctx, input.AuthInput, input.ID, intake.SetScheduledDate{Date: input.Body.Date})
}

type SetClockInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Time string `json:"time" doc:"HH:MM or HH:MM:SS on the scheduled date, empty to clear"`
	}
}

func (h *DraftHandler) HandleSetEntry(ctx context.Context, input *SetClockInput) (*DraftOutput, error) {
	return h.apply(ctx, input.AuthInput, input.ID, intake.SetTimeOfEntry{Clock: input.Body.Time})
}

func (h *DraftHandler) HandleSetDeparture(ctx context.Context, input *SetClockInput) (*DraftOutput, error) {
	return h.apply(ctx, input.AuthInput, input.ID, intake.SetTimeOfDeparture{Clock: input.Body.Time})
}

type UpdateVisitorInput struct {
	auth.AuthInput
	ID    string `path:"id"`
	Index int    `path:"index"`
	Body  struct {
		IDPassportNumber *string `json:"idPassportNumber,omitempty"`
		FullName         *string `json:"fullName,omitempty"`
		CountryCode      *string `json:"countryCode,omitempty"`
		ContactNumber    *string `json:"contactNumber,omitempty"`
		EmailAddress     *string `json:"emailAddress,omitempty"`
		PassNumber       *string `json:"passNumber,omitempty"`
		Status           *string `json:"status,omitempty" doc:"Draft or Completed"`
	}
}

func (h *DraftHandler) HandleUpdateVisitor(ctx context.Context, input *UpdateVisitorInput) (*DraftOutput, error) {
	b := input.Body
	patch := intake.VisitorPatch{
		IDPassportNumber: b.IDPassportNumber,
		FullName:         b.FullName,
		CountryCode:      b.CountryCode,
		ContactNumber:    b.ContactNumber,
		EmailAddress:     b.EmailAddress,
		PassNumber:       b.PassNumber,
	}
	if b.Status != nil {
		status := intake.VisitorStatus(*b.Status)
		patch.Status = &status
	}
	return h.apply(ctx, input.AuthInput, input.ID, intake.SetVisitor{Index: input.Index, Patch: patch})
}

func (h *DraftHandler) apply(ctx context.Context, in auth.AuthInput, id string, change intake.Change) (*DraftOutput, error) {
	f, err := h.update(ctx, in, id, func(f *intake.Form) error {
		return f.Apply(change, h.validator, h.now())
	})
	if err != nil {
		return nil, err
	}
	return &DraftOutput{Body: newDraftView(f)}, nil
}

func (h *DraftHandler) HandleAddVisitor(ctx context.Context, input *DraftIDInput) (*DraftOutput, error) {
	f, err := h.update(ctx, input.AuthInput, input.ID, func(f *intake.Form) error {
		return f.AddVisitor(h.validator, h.now())
	})
	if err != nil {
		return nil, err
	}
	return &DraftOutput{Body: newDraftView(f)}, nil
}

type VisitorIndexInput struct {
	auth.AuthInput
	ID    string `path:"id"`
	Index int    `path:"index"`
}

type RemoveVisitorOutput struct {
	Body struct {
		Removed bool      `json:"removed" doc:"False when the entry is the last one, Completed or out of range"`
		Draft   DraftView `json:"draft"`
	}
}

func (h *DraftHandler) HandleRemoveVisitor(ctx context.Context, input *VisitorIndexInput) (*RemoveVisitorOutput, error) {
	var removed bool
	f, err := h.update(ctx, input.AuthInput, input.ID, func(f *intake.Form) error {
		var err error
		removed, err = f.RemoveVisitor(input.Index, h.validator, h.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &RemoveVisitorOutput{}
	out.Body.Removed = removed
	out.Body.Draft = newDraftView(f)
	return out, nil
}

type AdvanceOutput struct {
	Body struct {
		Advanced     bool                 `json:"advanced"`
		ActiveStep   intake.Step          `json:"activeStep"`
		Errors       intake.FieldErrors   `json:"errors"`
		Confirmation *intake.Confirmation `json:"confirmation,omitempty"`
		Draft        DraftView            `json:"draft"`
	}
}

func (h *DraftHandler) HandleNext(ctx context.Context, input *DraftIDInput) (*AdvanceOutput, error) {
	var res intake.AdvanceResult
	var from intake.Step
	f, err := h.update(ctx, input.AuthInput, input.ID, func(f *intake.Form) error {
		if f.Submitting {
			return intake.ErrSubmissionInProgress
		}
		from = f.Step
		res = f.Advance(h.validator, h.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := "blocked"
	switch {
	case res.Advanced:
		result = "advanced"
	case res.Confirmation != nil:
		result = "confirm"
	}
	h.metrics.ObserveAdvance(from.Label(), result)

	out := &AdvanceOutput{}
	out.Body.Advanced = res.Advanced
	out.Body.ActiveStep = res.Step
	out.Body.Errors = res.Errors
	out.Body.Confirmation = res.Confirmation
	out.Body.Draft = newDraftView(f)
	return out, nil
}

func (h *DraftHandler) HandleBack(ctx context.Context, input *DraftIDInput) (*DraftOutput, error) {
	f, err := h.update(ctx, input.AuthInput, input.ID, func(f *intake.Form) error {
		if f.Submitting {
			return intake.ErrSubmissionInProgress
		}
		f.Retreat()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DraftOutput{Body: newDraftView(f)}, nil
}

type ConfirmInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Accept bool `json:"accept" doc:"true submits the visit, false returns to the form"`
	}
}

type ConfirmOutput struct {
	Body struct {
		Accepted bool       `json:"accepted"`
		Visit    *VisitView `json:"visit,omitempty"`
		Draft    *DraftView `json:"draft,omitempty"`
	}
}

func (h *DraftHandler) HandleConfirm(ctx context.Context, input *ConfirmInput) (*ConfirmOutput, error) {
	if !input.Body.Accept {
		f, err := h.update(ctx, input.AuthInput, input.ID, func(f *intake.Form) error {
			return f.Decline()
		})
		if err != nil {
			return nil, err
		}
		h.metrics.ObserveConfirmation(false)

		view := newDraftView(f)
		out := &ConfirmOutput{}
		out.Body.Draft = &view
		return out, nil
	}

	var draft intake.VisitDraft
	f, err := h.update(ctx, input.AuthInput, input.ID, func(f *intake.Form) error {
		var err error
		draft, err = f.Accept()
		return err
	})
	if err != nil {
		return nil, err
	}
	h.metrics.ObserveConfirmation(true)

	log := h.logger.WithFields(logrus.Fields{"draft_id": f.ID, "employee_id": f.OwnerID})

	visit, err := h.submitter.Submit(ctx, f.OwnerID, draft)
	if err != nil {
		log.WithError(err).Error("Failed to submit visit")
		h.metrics.ObserveSubmission("error")
		if _, restoreErr := h.store.Update(f.ID, f.OwnerID, h.now(), func(f *intake.Form) error {
			f.SubmissionFailed()
			return nil
		}); restoreErr != nil {
			log.WithError(restoreErr).Warn("Failed to restore draft after submission error")
		}
		return nil, huma.Error500InternalServerError("Failed to create visit")
	}
	h.metrics.ObserveSubmission("ok")

	if err := h.store.Delete(f.ID, f.OwnerID); err != nil {
		log.WithError(err).Warn("Failed to drop submitted draft")
	}
	log.WithField("visit_id", visit.ID).Info("Visit created")

	h.notify(ctx, f.OwnerID, *visit, log)

	view := newVisitView(*visit)
	out := &ConfirmOutput{}
	out.Body.Accepted = true
	out.Body.Visit = &view
	return out, nil
}

// notify tells the security desk about a new visit. Failures are logged only.
func (h *DraftHandler) notify(ctx context.Context, employeeID uint, visit models.Visit, log logrus.FieldLogger) {
	if h.notifier == nil {
		return
	}

	var employee models.Employee
	if h.db != nil {
		if err := h.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
			log.WithError(err).Warn("Failed to load host for notification")
		}
	}

	if err := h.notifier.NotifyVisit(employee, visit); err != nil {
		log.WithError(err).Error("Failed to send visit notification")
	}
}
