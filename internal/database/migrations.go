package database

import (
	"fmt"
	"log"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"gorm.io/gorm"
)

// AddIndexes makes sure the query-critical indexes exist. AutoMigrate creates
// them on fresh tables; this covers tables created before the index was declared.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		// Listing: WHERE user_id = ? ORDER BY updated_at DESC
		{&models.Job{}, "idx_jobs_user_updated"},
		// Stats: GROUP BY status
		{&models.Job{}, "idx_jobs_status"},
		{&models.User{}, "idx_users_email"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s", idx.name)
	}

	return nil
}
