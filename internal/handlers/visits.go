package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/visitor-intake-api/internal/auth"
	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"github.com/gdg-garage/visitor-intake-api/internal/visits"
)

type VisitHandler struct {
	repo        *visits.Repository
	authHandler *auth.AuthHandler
}

func NewVisitHandler(repo *visits.Repository, authHandler *auth.AuthHandler) *VisitHandler {
	return &VisitHandler{repo: repo, authHandler: authHandler}
}

// VisitView is a stored visit in the same shape the draft uses.
type VisitView struct {
	ID               uint                   `json:"id"`
	CompanyName      string                 `json:"companyName"`
	WhoTheyMeet      string                 `json:"whoTheyMeet"`
	PurposeOfVisit   string                 `json:"purposeOfVisit"`
	AccessibleFloors []intake.FloorRoom     `json:"accessibleFloors"`
	ScheduledDate    string                 `json:"scheduledDate"`
	TimeOfEntry      time.Time              `json:"timeOfEntry"`
	TimeOfDeparture  time.Time              `json:"timeOfDeparture"`
	Visitors         []intake.VisitorDetail `json:"visitors"`
	CreatedAt        time.Time              `json:"createdAt"`
}

func newVisitView(v models.Visit) VisitView {
	view := VisitView{
		ID:               v.ID,
		CompanyName:      v.CompanyName,
		WhoTheyMeet:      v.WhoTheyMeet,
		PurposeOfVisit:   v.PurposeOfVisit,
		AccessibleFloors: make([]intake.FloorRoom, 0, len(v.AccessibleFloors)),
		ScheduledDate:    v.ScheduledDate,
		TimeOfEntry:      v.TimeOfEntry,
		TimeOfDeparture:  v.TimeOfDeparture,
		Visitors:         make([]intake.VisitorDetail, 0, len(v.Visitors)),
		CreatedAt:        v.CreatedAt,
	}
	for _, f := range v.AccessibleFloors {
		view.AccessibleFloors = append(view.AccessibleFloors, intake.FloorRoom{Floor: f.Floor, Room: f.Room})
	}
	for _, vis := range v.Visitors {
		view.Visitors = append(view.Visitors, intake.VisitorDetail{
			IDPassportNumber: vis.IDPassportNumber,
			FullName:         vis.FullName,
			CountryCode:      vis.CountryCode,
			ContactNumber:    vis.ContactNumber,
			EmailAddress:     vis.EmailAddress,
			PassNumber:       vis.PassNumber,
			Status:           intake.VisitorStatus(vis.Status),
		})
	}
	return view
}

type ListVisitsInput struct {
	auth.AuthInput
}

type ListVisitsOutput struct {
	Body []VisitView
}

func (h *VisitHandler) HandleList(ctx context.Context, input *ListVisitsInput) (*ListVisitsOutput, error) {
	employeeID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	list, err := h.repo.List(ctx, employeeID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list visits")
	}

	response := make([]VisitView, 0, len(list))
	for _, v := range list {
		response = append(response, newVisitView(v))
	}
	return &ListVisitsOutput{Body: response}, nil
}

type GetVisitInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type GetVisitOutput struct {
	Body VisitView
}

func (h *VisitHandler) HandleGet(ctx context.Context, input *GetVisitInput) (*GetVisitOutput, error) {
	employeeID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	visit, err := h.repo.Get(ctx, employeeID, input.ID)
	if errors.Is(err, visits.ErrNotFound) {
		return nil, huma.Error404NotFound("Visit not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load visit")
	}
	return &GetVisitOutput{Body: newVisitView(*visit)}, nil
}
