// Package database owns the schema migration.
package database

import (
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, including the foreign keys that cascade deletes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
