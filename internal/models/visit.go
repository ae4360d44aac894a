package models

import (
	"time"

	"gorm.io/gorm"
)

type Visit struct {
	gorm.Model
	EmployeeID       uint              `json:"employee_id" gorm:"index"`
	Employee         Employee          `json:"-"`
	CompanyName      string            `json:"company_name"`
	WhoTheyMeet      string            `json:"who_they_meet"`
	PurposeOfVisit   string            `json:"purpose_of_visit"`
	ScheduledDate    string            `json:"scheduled_date"`
	TimeOfEntry      time.Time         `json:"time_of_entry"`
	TimeOfDeparture  time.Time         `json:"time_of_departure"`
	AccessibleFloors []AccessibleFloor `json:"accessible_floors"`
	Visitors         []Visitor         `json:"visitors"`
}

type AccessibleFloor struct {
	gorm.Model
	VisitID uint   `json:"visit_id" gorm:"index"`
	Floor   string `json:"floor"`
	Room    string `json:"room"`
}

type Visitor struct {
	gorm.Model
	VisitID          uint   `json:"visit_id" gorm:"index"`
	IDPassportNumber string `json:"id_passport_number"`
	FullName         string `json:"full_name"`
	CountryCode      string `json:"country_code"`
	ContactNumber    string `json:"contact_number"`
	EmailAddress     string `json:"email_address"`
	PassNumber       string `json:"pass_number"`
	Status           string `json:"status"`
}
