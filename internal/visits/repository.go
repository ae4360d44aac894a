// Package visits stores confirmed visit drafts.
package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("visit not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Submit stores draft as a visit hosted by employeeID, together with its
// floor/room grants and visitors. Visitors are stored as Completed.
func (r *Repository) Submit(ctx context.Context, employeeID uint, draft intake.VisitDraft) (*models.Visit, error) {
	entry, err := time.Parse(time.RFC3339, draft.TimeOfEntry)
	if err != nil {
		return nil, fmt.Errorf("parsing time of entry: %w", err)
	}
	departure, err := time.Parse(time.RFC3339, draft.TimeOfDeparture)
	if err != nil {
		return nil, fmt.Errorf("parsing time of departure: %w", err)
	}

	visit := models.Visit{
		EmployeeID:      employeeID,
		CompanyName:     draft.CompanyName,
		WhoTheyMeet:     draft.WhoTheyMeet,
		PurposeOfVisit:  draft.PurposeOfVisit,
		ScheduledDate:   draft.ScheduledDate,
		TimeOfEntry:     entry,
		TimeOfDeparture: departure,
	}
	for _, fr := range draft.AccessibleFloors {
		visit.AccessibleFloors = append(visit.AccessibleFloors, models.AccessibleFloor{
			Floor: fr.Floor,
			Room:  fr.Room,
		})
	}
	for _, v := range draft.Visitors {
		visit.Visitors = append(visit.Visitors, models.Visitor{
			IDPassportNumber: v.IDPassportNumber,
			FullName:         v.FullName,
			CountryCode:      v.CountryCode,
			ContactNumber:    v.ContactNumber,
			EmailAddress:     v.EmailAddress,
			PassNumber:       v.PassNumber,
			Status:           string(intake.StatusCompleted),
		})
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&visit).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating visit: %w", err)
	}

	return &visit, nil
}

// List returns the visits hosted by employeeID, newest first.
func (r *Repository) List(ctx context.Context, employeeID uint) ([]models.Visit, error) {
	var visits []models.Visit
	err := r.withAssociations(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	return visits, nil
}

// Get returns one visit of employeeID.
func (r *Repository) Get(ctx context.Context, employeeID, id uint) (*models.Visit, error) {
	var visit models.Visit
	err := r.withAssociations(ctx).
		Where("id = ? AND employee_id = ?", id, employeeID).
		First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting visit: %w", err)
	}
	return &visit, nil
}

func (r *Repository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("AccessibleFloors").Preload("Visitors")
}
