package database

import (
	"log"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Property{},
		&models.RoomType{},
		&models.Room{},
		&models.AddonService{},
		&models.PricingRule{},
		&models.BookingGroup{},
		&models.Booking{},
		&models.RoomAssignment{},
		&models.Participant{},
		&models.Folio{},
		&models.FolioItem{},
		&models.Payment{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique indexes: at most one primary room assignment and one
	// primary participant per booking.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_primary
		ON room_assignments (booking_id)
		WHERE is_primary
	`)
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_participant_primary
		ON participants (booking_id)
		WHERE is_primary
	`)

	return db
}
