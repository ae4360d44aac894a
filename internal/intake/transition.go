package intake

import (
	"fmt"
	"time"
)

// Change is one user edit of the draft. Apply is the only way edits reach a
// draft, which keeps the schedule reset chain (date -> entry -> departure) in
// a single place.
type Change interface {
	apply(d *VisitDraft, loc *time.Location) error
}

// Apply returns a copy of d with c applied. On error d is returned unchanged.
func Apply(d VisitDraft, c Change, loc *time.Location) (VisitDraft, error) {
	if loc == nil {
		loc = time.UTC
	}
	next := d.Clone()
	if err := c.apply(&next, loc); err != nil {
		return d, err
	}
	return next, nil
}

// SetVisitInfo updates the free-text visit fields. Nil fields are left alone.
type SetVisitInfo struct {
	CompanyName    *string
	WhoTheyMeet    *string
	PurposeOfVisit *string
}

func (c SetVisitInfo) apply(d *VisitDraft, _ *time.Location) error {
	if c.CompanyName != nil {
		d.CompanyName = *c.CompanyName
	}
	if c.WhoTheyMeet != nil {
		d.WhoTheyMeet = *c.WhoTheyMeet
	}
	if c.PurposeOfVisit != nil {
		d.PurposeOfVisit = *c.PurposeOfVisit
	}
	return nil
}

// SetAccessibleFloors replaces the floor/room selection. Duplicate pairs
// collapse, keeping the first occurrence.
type SetAccessibleFloors struct {
	Selection []FloorRoom
}

func (c SetAccessibleFloors) apply(d *VisitDraft, _ *time.Location) error {
	seen := make(map[FloorRoom]struct{}, len(c.Selection))
	floors := make([]FloorRoom, 0, len(c.Selection))
	for _, fr := range c.Selection {
		if _, dup := seen[fr]; dup {
			continue
		}
		seen[fr] = struct{}{}
		floors = append(floors, fr)
	}
	d.AccessibleFloors = floors
	return nil
}

// SetScheduledDate picks (or clears, when empty) the visit date. Both times
// are always cleared.
type SetScheduledDate struct {
	Date string
}

func (c SetScheduledDate) apply(d *VisitDraft, loc *time.Location) error {
	if c.Date != "" {
		if _, err := time.ParseInLocation(dateLayout, c.Date, loc); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, c.Date)
		}
	}
	d.ScheduledDate = c.Date
	d.TimeOfEntry = ""
	d.TimeOfDeparture = ""
	return nil
}

// SetTimeOfEntry picks the entry time of day. The departure time is always
// cleared.
type SetTimeOfEntry struct {
	Clock string
}

func (c SetTimeOfEntry) apply(d *VisitDraft, loc *time.Location) error {
	if c.Clock == "" {
		d.TimeOfEntry = ""
		d.TimeOfDeparture = ""
		return nil
	}
	if d.ScheduledDate == "" {
		return ErrDateRequired
	}
	ts, err := ComposeTimestamp(d.ScheduledDate, c.Clock, loc)
	if err != nil {
		return err
	}
	d.TimeOfEntry = ts
	d.TimeOfDeparture = ""
	return nil
}

// SetTimeOfDeparture picks the departure time of day on the scheduled date.
type SetTimeOfDeparture struct {
	Clock string
}

func (c SetTimeOfDeparture) apply(d *VisitDraft, loc *time.Location) error {
	if c.Clock == "" {
		d.TimeOfDeparture = ""
		return nil
	}
	if d.TimeOfEntry == "" {
		return ErrEntryRequired
	}
	ts, err := ComposeTimestamp(d.ScheduledDate, c.Clock, loc)
	if err != nil {
		return err
	}
	d.TimeOfDeparture = ts
	return nil
}

// VisitorPatch carries the visitor fields to overwrite. Nil fields are left
// alone.
type VisitorPatch struct {
	IDPassportNumber *string
	FullName         *string
	CountryCode      *string
	ContactNumber    *string
	EmailAddress     *string
	PassNumber       *string
	Status           *VisitorStatus
}

// SetVisitor edits the visitor at Index.
type SetVisitor struct {
	Index int
	Patch VisitorPatch
}

func (c SetVisitor) apply(d *VisitDraft, _ *time.Location) error {
	if c.Index < 0 || c.Index >= len(d.Visitors) {
		return fmt.Errorf("%w: %d", ErrVisitorIndex, c.Index)
	}
	p := c.Patch
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}

	v := &d.Visitors[c.Index]
	setString(&v.IDPassportNumber, p.IDPassportNumber)
	setString(&v.FullName, p.FullName)
	setString(&v.CountryCode, p.CountryCode)
	setString(&v.ContactNumber, p.ContactNumber)
	setString(&v.EmailAddress, p.EmailAddress)
	setString(&v.PassNumber, p.PassNumber)
	if p.Status != nil {
		v.Status = *p.Status
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ComposeTimestamp joins a YYYY-MM-DD date and an HH:MM[:SS] clock into an
// RFC 3339 timestamp carrying the offset loc has on that date.
func ComposeTimestamp(date, clock string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := time.ParseInLocation(dateLayout, date, loc); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var (
		t   time.Time
		err error
	)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err = time.ParseInLocation(dateLayout+" "+layout, date+" "+clock, loc)
		if err == nil {
			return t.Format(timestampLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
}
