package database

import (
	"fmt"

	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate all models
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every model. Shared with
// the test harness so tests always migrate the same set of tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.InstallerProfile{},
		&models.Client{},
		&models.Montage{},
		&models.MontageStatusHistory{},
		&models.Measurement{},
		&models.Installation{},
		&models.MontageExtraService{},
		&models.MontageMaterial{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Settlement{},
		&models.Advance{},
		&models.Service{},
		&models.UserServiceRate{},
		&models.SystemEvent{},
	)
}
