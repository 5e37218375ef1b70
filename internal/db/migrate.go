package db

import (
	"fmt"

	"github.com/zulandar/tasktrail/internal/config"
	"github.com/zulandar/tasktrail/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Status{},
		&models.Label{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.TaskStatus{},
		&models.TaskLabel{},
		&models.Comment{},
		&models.ActivityLog{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedCounts reports how many rows of each kind Seed upserted.
type SeedCounts struct {
	Users    int
	Statuses int
	Labels   int
}

// Seed upserts the reference users, statuses and labels from configuration.
func Seed(db *gorm.DB, seed config.SeedConfig) (SeedCounts, error) {
	var counts SeedCounts
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, su := range seed.Users {
			u := models.User{ID: su.ID, Name: su.Name, Email: su.Email}
			if err := upsert(tx, &u, "name", "email"); err != nil {
				return fmt.Errorf("db: seed user %q: %w", su.ID, err)
			}
			counts.Users++
		}
		for _, ss := range seed.Statuses {
			s := models.Status{ID: ss.ID, Title: ss.Title}
			if ss.Description != "" {
				s.Description = &ss.Description
			}
			if err := upsert(tx, &s, "title", "description"); err != nil {
				return fmt.Errorf("db: seed status %q: %w", ss.ID, err)
			}
			counts.Statuses++
		}
		for _, sl := range seed.Labels {
			l := models.Label{ID: sl.ID, Title: sl.Title, Color: sl.Color}
			if err := upsert(tx, &l, "title", "color"); err != nil {
				return fmt.Errorf("db: seed label %q: %w", sl.ID, err)
			}
			counts.Labels++
		}
		return nil
	})
	return counts, err
}

func upsert(tx *gorm.DB, row interface{}, columns ...string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
}
