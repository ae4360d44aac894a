package visits

import (
	"context"
	"testing"
	"time"

	"github.com/gdg-garage/visitor-intake-api/internal/database"
	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testSetup(t *testing.T) (*Repository, *gorm.DB, models.Employee) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)

	employee := models.Employee{Subject: "emp-1", Name: "Jane Perera"}
	require.NoError(t, db.Create(&employee).Error)

	return NewRepository(db), db, employee
}

func sampleDraft() intake.VisitDraft {
	return intake.VisitDraft{
		CompanyName:    "Acme",
		WhoTheyMeet:    "Jane Perera",
		PurposeOfVisit: "Vendor demo",
		AccessibleFloors: []intake.FloorRoom{
			{Floor: "Ground Floor", Room: "Lobby"},
			{Floor: "1st Floor", Room: "Meeting Room A"},
		},
		ScheduledDate:   "2030-01-01",
		TimeOfEntry:     "2030-01-01T09:00:00+05:30",
		TimeOfDeparture: "2030-01-01T11:00:00+05:30",
		Visitors: []intake.VisitorDetail{
			{
				IDPassportNumber: "N1234567",
				FullName:         "Nimal Silva",
				CountryCode:      "+94",
				ContactNumber:    "+94771234567",
				EmailAddress:     "nimal@example.com",
				PassNumber:       "P-001",
				Status:           intake.StatusDraft,
			},
		},
	}
}

func TestSubmit(t *testing.T) {
	repo, db, employee := testSetup(t)

	visit, err := repo.Submit(context.Background(), employee.ID, sampleDraft())
	require.NoError(t, err)
	require.NotZero(t, visit.ID)

	entry := time.Date(2030, 1, 1, 3, 30, 0, 0, time.UTC)
	assert.True(t, visit.TimeOfEntry.Equal(entry), "entry = %v", visit.TimeOfEntry)

	var floors int64
	db.Model(&models.AccessibleFloor{}).Where("visit_id = ?", visit.ID).Count(&floors)
	assert.EqualValues(t, 2, floors)

	var visitor models.Visitor
	require.NoError(t, db.Where("visit_id = ?", visit.ID).First(&visitor).Error)
	assert.Equal(t, "Nimal Silva", visitor.FullName)
	assert.Equal(t, string(intake.StatusCompleted), visitor.Status)
}

func TestSubmitRejectsUnparsableTimes(t *testing.T) {
	repo, db, employee := testSetup(t)

	d := sampleDraft()
	d.TimeOfEntry = ""
	_, err := repo.Submit(context.Background(), employee.ID, d)
	assert.Error(t, err)

	var count int64
	db.Model(&models.Visit{}).Count(&count)
	assert.Zero(t, count)
}

func TestListAndGet(t *testing.T) {
	repo, db, employee := testSetup(t)
	ctx := context.Background()

	other := models.Employee{Subject: "emp-2"}
	require.NoError(t, db.Create(&other).Error)

	first, err := repo.Submit(ctx, employee.ID, sampleDraft())
	require.NoError(t, err)
	second, err := repo.Submit(ctx, employee.ID, sampleDraft())
	require.NoError(t, err)
	_, err = repo.Submit(ctx, other.ID, sampleDraft())
	require.NoError(t, err)

	list, err := repo.List(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Len(t, list[0].Visitors, 1)
	assert.Len(t, list[0].AccessibleFloors, 2)

	got, err := repo.Get(ctx, employee.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vendor demo", got.PurposeOfVisit)

	_, err = repo.Get(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
