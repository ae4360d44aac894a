package database

import (
	"github.com/gdg-garage/visitor-intake-api/internal/config"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DatabasePath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	return db
}

// Open connects to the sqlite database at path and migrates the schema.
// Tests pass ":memory:".
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// Every new connection would otherwise see its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.APIKey{},
		&models.Visit{},
		&models.AccessibleFloor{},
		&models.Visitor{},
	)
}
