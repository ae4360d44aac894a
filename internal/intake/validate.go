package intake

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05-07:00"
)

var contactNumberPattern = regexp.MustCompile(`^\+?\d{10,15}$`)

// FieldErrors maps a field path such as "whoTheyMeet" or
// "visitors[1].emailAddress" to the message shown next to that field.
type FieldErrors map[string]string

// messages is keyed by "<json field>.<validator tag>".
var messages = map[string]string{
	"whoTheyMeet.required":        "Who they meet is required",
	"purposeOfVisit.required":     "Purpose of visit is required",
	"accessibleFloors.min":        "At least one accessible floor is required",
	"scheduledDate.required":      "Scheduled date is required",
	"timeOfEntry.required":        "Time of entry is required",
	"timeOfDeparture.required":    "Time of departure is required",
	"idPassportNumber.required":   "ID/Passport number is required",
	"fullName.required":           "Full name is required",
	"countryCode.countrycode":     "Invalid country code",
	"contactNumber.required":      "Contact number is required",
	"contactNumber.contactnumber": "Invalid contact number",
	"emailAddress.required":       "Email address is required",
	"emailAddress.email":          "Invalid email address",
	"passNumber.required":         "Pass number is required",
}

// Validator evaluates the rule set of one step against a draft. Calendar
// comparisons use loc, the timezone visits are scheduled in.
type Validator struct {
	validate *validator.Validate
	loc      *time.Location
}

func NewValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "contactnumber", func(fl validator.FieldLevel) bool {
		return contactNumberPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "countrycode", func(fl validator.FieldLevel) bool {
		return IsKnownCountryCode(fl.Field().String())
	})

	return &Validator{validate: v, loc: loc}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// Location is the timezone used for date comparisons and time composition.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// ValidateStep applies only the rules of step. An empty result means the step
// may be left forward. now is the wall-clock instant the check happens at.
func (v *Validator) ValidateStep(step Step, d VisitDraft, now time.Time) FieldErrors {
	errs := FieldErrors{}
	switch step {
	case StepVisitInformation:
		v.collect(errs, "", d)
		v.checkFloors(errs, d.AccessibleFloors)
		v.checkSchedule(errs, d, now)
	case StepVisitorInformation:
		if len(d.Visitors) == 0 {
			errs["visitors"] = "At least one visitor is required"
		}
		for i, visitor := range d.Visitors {
			v.collect(errs, fmt.Sprintf("visitors[%d].", i), visitor)
		}
	}
	return errs
}

func (v *Validator) collect(errs FieldErrors, prefix string, s any) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[strings.TrimSuffix(prefix, ".")] = err.Error()
		return
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		errs[prefix+fe.Field()] = msg
	}
}

func (v *Validator) checkFloors(errs FieldErrors, floors []FloorRoom) {
	for i, fr := range floors {
		if !IsKnownRoom(fr.Floor, fr.Room) {
			errs[fmt.Sprintf("accessibleFloors[%d]", i)] = "Unknown floor or room"
		}
	}
}

func (v *Validator) checkSchedule(errs FieldErrors, d VisitDraft, now time.Time) {
	if _, missing := errs["scheduledDate"]; !missing {
		date, err := time.ParseInLocation(dateLayout, d.ScheduledDate, v.loc)
		switch {
		case err != nil:
			errs["scheduledDate"] = "Scheduled date is invalid"
		case date.Before(startOfDay(now, v.loc)):
			errs["scheduledDate"] = "Scheduled date cannot be in the past"
		}
	}

	var entry time.Time
	entryOK := false
	if _, missing := errs["timeOfEntry"]; !missing {
		t, err := time.Parse(time.RFC3339, d.TimeOfEntry)
		switch {
		case err != nil:
			errs["timeOfEntry"] = "Time of entry is invalid"
		case t.Before(now):
			errs["timeOfEntry"] = "Time of entry cannot be passed"
		case d.ScheduledDate != "" && !strings.HasPrefix(d.TimeOfEntry, d.ScheduledDate+"T"):
			errs["timeOfEntry"] = "Time of entry must be on the scheduled date"
		}
		if err == nil {
			entry, entryOK = t, true
		}
	}

	if _, missing := errs["timeOfDeparture"]; !missing {
		t, err := time.Parse(time.RFC3339, d.TimeOfDeparture)
		switch {
		case err != nil:
			errs["timeOfDeparture"] = "Time of departure is invalid"
		case entryOK && !t.After(entry):
			errs["timeOfDeparture"] = "Time of departure should be after Time of entry"
		}
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
