//go:build integration

package integration

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

var allTables = []string{
	"payments",
	"folio_items",
	"folios",
	"participants",
	"room_assignments",
	"bookings",
	"booking_groups",
	"pricing_rules",
	"addon_services",
	"rooms",
	"room_types",
	"properties",
}

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "reservation_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	// Drop and recreate tables for clean state
	dropTables()

	if err := testDB.AutoMigrate(
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
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}

	testDB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_primary
		ON room_assignments (booking_id)
		WHERE is_primary
	`)
	testDB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_participant_primary
		ON participants (booking_id)
		WHERE is_primary
	`)

	code := m.Run()

	dropTables()

	os.Exit(code)
}

func dropTables() {
	for _, table := range allTables {
		testDB.Exec("DROP TABLE IF EXISTS " + table)
	}
}

func cleanTables() {
	for _, table := range allTables {
		testDB.Exec("DELETE FROM " + table)
	}
	testDB.Exec("ALTER SEQUENCE IF EXISTS properties_id_seq RESTART WITH 1")
	testDB.Exec("ALTER SEQUENCE IF EXISTS room_types_id_seq RESTART WITH 1")
	testDB.Exec("ALTER SEQUENCE IF EXISTS rooms_id_seq RESTART WITH 1")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
