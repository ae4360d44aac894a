package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colombo = time.FixedZone("LKT", 5*3600+1800)

func TestComposeTimestamp(t *testing.T) {
	tests := []struct {
		date  string
		clock string
		loc   *time.Location
		want  string
	}{
		{"2030-01-01", "09:00", time.UTC, "2030-01-01T09:00:00+00:00"},
		{"2030-01-01", "09:00:30", time.UTC, "2030-01-01T09:00:30+00:00"},
		{"2030-01-01", "17:45", colombo, "2030-01-01T17:45:00+05:30"},
		{"2030-01-01", "08:15", nil, "2030-01-01T08:15:00+00:00"},
	}
	for _, tt := range tests {
		got, err := ComposeTimestamp(tt.date, tt.clock, tt.loc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestComposeTimestampErrors(t *testing.T) {
	_, err := ComposeTimestamp("2030-13-01", "09:00", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ComposeTimestamp("2030-01-01", "9am", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidClock)

	_, err = ComposeTimestamp("2030-01-01", "25:00", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestSetScheduledDateClearsTimes(t *testing.T) {
	for _, date := range []string{"2030-01-01", "2030-01-02", "2031-06-30", ""} {
		d := validDraft()
		next, err := Apply(d, SetScheduledDate{Date: date}, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, date, next.ScheduledDate)
		assert.Empty(t, next.TimeOfEntry, "date %q", date)
		assert.Empty(t, next.TimeOfDeparture, "date %q", date)
	}
}

func TestSetScheduledDateRejectsBadFormat(t *testing.T) {
	d := validDraft()
	next, err := Apply(d, SetScheduledDate{Date: "01/01/2030"}, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, d, next)
}

func TestSetTimeOfEntryClearsDeparture(t *testing.T) {
	d := validDraft()
	next, err := Apply(d, SetTimeOfEntry{Clock: "10:30"}, colombo)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T10:30:00+05:30", next.TimeOfEntry)
	assert.Empty(t, next.TimeOfDeparture)
	assert.Equal(t, d.ScheduledDate, next.ScheduledDate)
}

func TestSetTimeOfEntryNeedsDate(t *testing.T) {
	d := NewDraft()
	next, err := Apply(d, SetTimeOfEntry{Clock: "10:30"}, time.UTC)
	assert.ErrorIs(t, err, ErrDateRequired)
	assert.Equal(t, d, next)
}

func TestSetTimeOfEntryEmptyClears(t *testing.T) {
	next, err := Apply(validDraft(), SetTimeOfEntry{}, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, next.TimeOfEntry)
	assert.Empty(t, next.TimeOfDeparture)
}

func TestSetTimeOfDeparture(t *testing.T) {
	d := validDraft()
	next, err := Apply(d, SetTimeOfDeparture{Clock: "18:00"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T18:00:00+00:00", next.TimeOfDeparture)
	assert.Equal(t, d.TimeOfEntry, next.TimeOfEntry)

	d.TimeOfEntry = ""
	_, err = Apply(d, SetTimeOfDeparture{Clock: "18:00"}, time.UTC)
	assert.ErrorIs(t, err, ErrEntryRequired)
}

func TestScheduleChainThenValidate(t *testing.T) {
	d := NewDraft()
	d.WhoTheyMeet = "Jane"
	d.PurposeOfVisit = "Audit"
	d.AccessibleFloors = []FloorRoom{{Floor: "1st Floor", Room: "Pantry"}}

	var err error
	for _, c := range []Change{
		SetScheduledDate{Date: "2030-01-01"},
		SetTimeOfEntry{Clock: "09:00"},
		SetTimeOfDeparture{Clock: "08:00"},
	} {
		d, err = Apply(d, c, time.UTC)
		require.NoError(t, err)
	}

	errs := NewValidator(time.UTC).ValidateStep(StepVisitInformation, d, testNow)
	assert.Equal(t, FieldErrors{"timeOfDeparture": "Time of departure should be after Time of entry"}, errs)
}

func TestSetAccessibleFloorsDeduplicates(t *testing.T) {
	lobby := FloorRoom{Floor: "Ground Floor", Room: "Lobby"}
	lab := FloorRoom{Floor: "3rd Floor", Room: "Testing Lab"}

	next, err := Apply(NewDraft(), SetAccessibleFloors{Selection: []FloorRoom{lobby, lab, lobby}}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []FloorRoom{lobby, lab}, next.AccessibleFloors)
}

func TestSetVisitInfoPartial(t *testing.T) {
	who := "Kamal"
	next, err := Apply(validDraft(), SetVisitInfo{WhoTheyMeet: &who}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Kamal", next.WhoTheyMeet)
	assert.Equal(t, "Interview", next.PurposeOfVisit)
	assert.Equal(t, "Acme", next.CompanyName)
}

func TestSetVisitor(t *testing.T) {
	d := validDraft()
	email := "new@example.com"
	completed := StatusCompleted

	next, err := Apply(d, SetVisitor{Index: 0, Patch: VisitorPatch{EmailAddress: &email, Status: &completed}}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", next.Visitors[0].EmailAddress)
	assert.Equal(t, StatusCompleted, next.Visitors[0].Status)
	assert.Equal(t, "nimal@example.com", d.Visitors[0].EmailAddress, "original draft must not change")

	_, err = Apply(d, SetVisitor{Index: 3}, time.UTC)
	assert.ErrorIs(t, err, ErrVisitorIndex)

	bogus := VisitorStatus("Archived")
	_, err = Apply(d, SetVisitor{Index: 0, Patch: VisitorPatch{Status: &bogus}}, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
