package database

import (
	"fmt"
	"log"

	"internship-platform/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Partial unique index: at most one pending-or-paid order per student+program.
// AutoMigrate cannot express partial indexes, so this runs as raw SQL. Both
// Postgres and SQLite accept the syntax.
const activeOrderIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_active_per_enrollment
ON orders (student_id, program_id) WHERE status IN ('pending', 'paid')`

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs migrations against the given database handle
func Migrate(db *gorm.DB) error {
	allModels := []interface{}{
		&models.User{},
		&models.Program{},
		&models.Order{},
		&models.Payment{},
		&models.Referral{},
		&models.Affiliate{},
		&models.AffiliateEarning{},
	}

	for _, model := range allModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	if err := db.Exec(activeOrderIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create active-order index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
