package database

import (
	"fmt"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
)

// Models lists every table owned by the portal, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Employee{},
		&models.Task{},
		&models.Attendance{},
		&models.CustomerIDConfig{},
		&models.Customer{},
		&models.SupportTicket{},
		&models.Vehicle{},
		&models.PetrolBill{},
		&models.InventoryItem{},
		&models.InventoryLoan{},
	}
}

// Migrate runs AutoMigrate and verifies the indexes the services rely on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to AutoMigrate: %w", err)
	}

	// upserts on attendance depend on this index
	checks := []struct {
		model interface{}
		index string
	}{
		{&models.Attendance{}, "idx_attendance_employee_date"},
		{&models.CustomerIDConfig{}, "Prefix"},
		{&models.Employee{}, "EmployeeCode"},
	}
	for _, chk := range checks {
		if !db.Migrator().HasIndex(chk.model, chk.index) {
			if err := db.Migrator().CreateIndex(chk.model, chk.index); err != nil {
				return fmt.Errorf("failed to create index %s: %w", chk.index, err)
			}
			utils.InfoLogger.Printf("Created missing index %s", chk.index)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
