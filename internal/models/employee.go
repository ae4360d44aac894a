package models

import (
	"gorm.io/gorm"
)

// Employee is a staff member who hosts visits. Subject is the identifier the
// identity provider assigns.
type Employee struct {
	gorm.Model
	Subject string `gorm:"uniqueIndex"`
	Name    string
	Email   string
	Picture string
}
