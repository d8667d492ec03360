package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Catalog
		&types.Course{},
		&types.Roadmap{},
		&types.Step{},
		&types.Content{},

		// Learner state
		&types.Enrollment{},
		&types.Progress{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
