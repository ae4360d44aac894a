package intake

import (
	"time"

	"github.com/google/uuid"
)

type Step int

const (
	StepVisitInformation Step = iota
	StepVisitorInformation
)

// Steps lists the step labels in order.
var Steps = []string{"Visit Information", "Visitor Information"}

const lastStep = StepVisitorInformation

func (s Step) Label() string {
	if s < 0 || s > lastStep {
		return ""
	}
	return Steps[s]
}

func (s Step) IsLast() bool {
	return s == lastStep
}

type ConfirmationKind string

const ConfirmationAccept ConfirmationKind = "accept"

// Confirmation is the prompt shown before a draft is submitted. The draft is
// only forwarded once the employee accepts it.
type Confirmation struct {
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Kind         ConfirmationKind `json:"kind"`
	AcceptLabel  string           `json:"acceptLabel"`
	DeclineLabel string           `json:"declineLabel"`
}

func submitConfirmation() *Confirmation {
	return &Confirmation{
		Title:        "Confirm Visit Creation",
		Message:      "Are you sure you want to create this visit?",
		Kind:         ConfirmationAccept,
		AcceptLabel:  "Yes",
		DeclineLabel: "Cancel",
	}
}

// Form is one employee's intake in progress: the draft values plus the
// active step, the errors of the last check and a pending confirmation.
type Form struct {
	ID         uuid.UUID     `json:"id"`
	OwnerID    uint          `json:"-"`
	Step       Step          `json:"activeStep"`
	Draft      VisitDraft    `json:"values"`
	Errors     FieldErrors   `json:"errors"`
	Pending    *Confirmation `json:"pendingConfirmation,omitempty"`
	Submitting bool          `json:"submitting"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func NewForm(ownerID uint, now time.Time) *Form {
	return &Form{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Step:      StepVisitInformation,
		Draft:     NewDraft(),
		Errors:    FieldErrors{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of f.
func (f *Form) Clone() *Form {
	out := *f
	out.Draft = f.Draft.Clone()
	out.Errors = make(FieldErrors, len(f.Errors))
	for k, v := range f.Errors {
		out.Errors[k] = v
	}
	if f.Pending != nil {
		p := *f.Pending
		out.Pending = &p
	}
	return &out
}

// AdvanceResult reports what a forward navigation did.
type AdvanceResult struct {
	Advanced     bool          `json:"advanced"`
	Step         Step          `json:"activeStep"`
	Errors       FieldErrors   `json:"errors"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// Advance checks the active step. With errors the step stays put. On the
// last step a valid draft raises the submit confirmation instead of moving.
func (f *Form) Advance(v *Validator, now time.Time) AdvanceResult {
	f.Errors = v.ValidateStep(f.Step, f.Draft, now)
	if len(f.Errors) > 0 {
		return AdvanceResult{Step: f.Step, Errors: f.Errors}
	}

	if f.Step.IsLast() {
		f.Pending = submitConfirmation()
		return AdvanceResult{Step: f.Step, Errors: f.Errors, Confirmation: f.Pending}
	}

	f.Step++
	f.Pending = nil
	return AdvanceResult{Advanced: true, Step: f.Step, Errors: f.Errors}
}

// Retreat moves one step back without any check. It is a no-op on the first
// step.
func (f *Form) Retreat() {
	if f.Step > StepVisitInformation {
		f.Step--
	}
	f.Errors = FieldErrors{}
	f.Pending = nil
}

// Decline dismisses the pending confirmation and leaves everything else as
// it was.
func (f *Form) Decline() error {
	if f.Pending == nil {
		return ErrNoPendingConfirmation
	}
	f.Pending = nil
	return nil
}

// Accept consumes the pending confirmation and marks the form as being
// submitted. The returned draft is what gets forwarded for submission.
func (f *Form) Accept() (VisitDraft, error) {
	if f.Submitting {
		return VisitDraft{}, ErrSubmissionInProgress
	}
	if f.Pending == nil {
		return VisitDraft{}, ErrNoPendingConfirmation
	}
	f.Pending = nil
	f.Submitting = true
	return f.Draft.Clone(), nil
}

// SubmissionFailed restores the confirmation so the employee can retry.
func (f *Form) SubmissionFailed() {
	f.Submitting = false
	f.Pending = submitConfirmation()
}

// Apply edits the draft through the transition function.
func (f *Form) Apply(c Change, v *Validator, now time.Time) error {
	if f.Submitting {
		return ErrSubmissionInProgress
	}
	next, err := Apply(f.Draft, c, v.Location())
	if err != nil {
		return err
	}
	f.Draft = next
	f.changed(v, now)
	return nil
}

// AddVisitor appends a blank Draft visitor.
func (f *Form) AddVisitor(v *Validator, now time.Time) error {
	if f.Submitting {
		return ErrSubmissionInProgress
	}
	f.Draft.Visitors = append(f.Draft.Visitors, DefaultVisitor())
	f.changed(v, now)
	return nil
}

// RemoveVisitor drops the visitor at i. It only does so while more than one
// visitor is listed and the target is still a Draft; otherwise it reports
// false and changes nothing.
func (f *Form) RemoveVisitor(i int, v *Validator, now time.Time) (bool, error) {
	if f.Submitting {
		return false, ErrSubmissionInProgress
	}
	visitors := f.Draft.Visitors
	if len(visitors) <= 1 || i < 0 || i >= len(visitors) || visitors[i].Status != StatusDraft {
		return false, nil
	}
	f.Draft.Visitors = append(visitors[:i:i], visitors[i+1:]...)
	f.changed(v, now)
	return true, nil
}

// changed runs after every edit. Errors are addressed by index, so once any
// are shown they are recomputed rather than left pointing at moved entries.
func (f *Form) changed(v *Validator, now time.Time) {
	f.Pending = nil
	if len(f.Errors) > 0 {
		f.Errors = v.ValidateStep(f.Step, f.Draft, now)
	}
}
