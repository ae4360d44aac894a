package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey lets a reception kiosk or integration act on behalf of an employee.
type APIKey struct {
	gorm.Model
	EmployeeID uint       `json:"employee_id"`
	Employee   Employee   `json:"-"`
	Key        string     `json:"key" gorm:"uniqueIndex"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
