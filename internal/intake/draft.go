// Package intake holds the "Create Visit" intake flow: the visit draft, its
// per-step validation rules, the schedule reset chain, the visitor list rules
// and the two-step controller that ends in a confirmation prompt.
//
// Nothing in this package performs I/O. Persistence of a confirmed draft is
// the job of the submission collaborator (see package visits).
package intake

import (
	"encoding/json"
	"errors"
	"slices"
)

var (
	ErrDraftNotFound         = errors.New("draft not found")
	ErrNoPendingConfirmation = errors.New("no confirmation pending")
	ErrSubmissionInProgress  = errors.New("draft submission already in progress")
	ErrDateRequired          = errors.New("scheduled date must be set before picking a time of entry")
	ErrEntryRequired         = errors.New("time of entry must be set before picking a time of departure")
	ErrInvalidDate           = errors.New("date must use the YYYY-MM-DD format")
	ErrInvalidClock          = errors.New("time must use the HH:MM or HH:MM:SS format")
	ErrVisitorIndex          = errors.New("visitor index out of range")
	ErrInvalidStatus         = errors.New("visitor status must be Draft or Completed")
)

// VisitorStatus controls whether a visitor entry may still be removed.
type VisitorStatus string

const (
	StatusDraft     VisitorStatus = "Draft"
	StatusCompleted VisitorStatus = "Completed"
)

// IsValid reports whether s is a known status.
func (s VisitorStatus) IsValid() bool {
	return s == StatusDraft || s == StatusCompleted
}

// FloorRoom is one accessible floor and room pair.
type FloorRoom struct {
	Floor string `json:"floor"`
	Room  string `json:"room"`
}

type VisitorDetail struct {
	IDPassportNumber string        `json:"idPassportNumber" validate:"required"`
	FullName         string        `json:"fullName" validate:"required"`
	CountryCode      string        `json:"countryCode" validate:"countrycode"`
	ContactNumber    string        `json:"contactNumber" validate:"required,contactnumber"`
	EmailAddress     string        `json:"emailAddress" validate:"required,email"`
	PassNumber       string        `json:"passNumber" validate:"required"`
	Status           VisitorStatus `json:"status"`
}

// UnmarshalJSON starts from DefaultVisitor, so fields missing from the input
// keep their defaults.
func (v *VisitorDetail) UnmarshalJSON(data []byte) error {
	type plain VisitorDetail
	out := plain(DefaultVisitor())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*v = VisitorDetail(out)
	return nil
}

// VisitDraft is the whole intake form. Dates and times are kept as text so
// that "not picked yet" stays distinguishable from a zero time:
// ScheduledDate is YYYY-MM-DD, the two times are RFC 3339 with offset.
type VisitDraft struct {
	CompanyName      string          `json:"companyName"`
	WhoTheyMeet      string          `json:"whoTheyMeet" validate:"required"`
	PurposeOfVisit   string          `json:"purposeOfVisit" validate:"required"`
	AccessibleFloors []FloorRoom     `json:"accessibleFloors" validate:"min=1"`
	ScheduledDate    string          `json:"scheduledDate" validate:"required"`
	TimeOfEntry      string          `json:"timeOfEntry" validate:"required"`
	TimeOfDeparture  string          `json:"timeOfDeparture" validate:"required"`
	Visitors         []VisitorDetail `json:"visitors" validate:"-"`
}

// DefaultVisitor is the blank entry appended by AddVisitor.
func DefaultVisitor() VisitorDetail {
	return VisitorDetail{
		CountryCode: DefaultCountryCode,
		Status:      StatusDraft,
	}
}

// NewDraft returns an empty draft with a single default visitor.
func NewDraft() VisitDraft {
	return VisitDraft{
		AccessibleFloors: []FloorRoom{},
		Visitors:         []VisitorDetail{DefaultVisitor()},
	}
}

// Clone returns a deep copy of d.
func (d VisitDraft) Clone() VisitDraft {
	out := d
	out.AccessibleFloors = slices.Clone(d.AccessibleFloors)
	out.Visitors = slices.Clone(d.Visitors)
	return out
}
