package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/internal/models"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

// Migrate creates the schema on the given connection. Split out from
// MigrateDatabase so tests can run it against their own database.
func Migrate(database *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Timesheet{},
		&models.TaskStatusHistory{},
	}

	for _, table := range tables {
		if err := database.AutoMigrate(table); err != nil {
			return err
		}
	}

	// One running session per employee, enforced by the storage engine so
	// concurrent starts cannot slip past an application-level check.
	return database.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_running_timesheet_per_employee
		 ON timesheets (employee_id) WHERE is_running`,
	).Error
}
