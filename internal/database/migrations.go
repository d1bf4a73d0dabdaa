package database

import (
	"gorm.io/gorm"

	"github.com/ajglobal/staffverify/internal/models"
)

// AutoMigrate creates or updates the employee, drivers and documents tables.
// Parents migrate first so the child foreign keys can be declared.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.DriverAddendum{},
		&models.DocumentChecklist{},
	)
}
