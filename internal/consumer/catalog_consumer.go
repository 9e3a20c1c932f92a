package consumer

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogConsumer keeps the local catalog read models in sync with the
// catalog service. Routing keys: catalog.property, catalog.room_type,
// catalog.room, catalog.addon_service.
type CatalogConsumer struct {
	db *gorm.DB
}

func NewCatalogConsumer(db *gorm.DB) *CatalogConsumer {
	return &CatalogConsumer{db: db}
}

func (cc *CatalogConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[CatalogConsumer] channel closed, stopping consumer")
	}()
}

func (cc *CatalogConsumer) handleMessage(msg amqp.Delivery) {
	var err error
	switch msg.RoutingKey {
	case "catalog.property":
		err = upsert[models.Property](cc.db, msg.Body,
			[]string{"name", "timezone", "updated_at"})
	case "catalog.room_type":
		err = upsert[models.RoomType](cc.db, msg.Body,
			[]string{"property_id", "name", "base_price", "max_guests", "updated_at"})
	case "catalog.room":
		err = upsert[models.Room](cc.db, msg.Body,
			[]string{"property_id", "room_type_id", "number", "housekeeping_status", "updated_at"})
	case "catalog.addon_service":
		err = upsert[models.AddonService](cc.db, msg.Body,
			[]string{"property_id", "name", "unit_price", "updated_at"})
	default:
		log.Printf("[CatalogConsumer] ignoring routing key %s", msg.RoutingKey)
		msg.Ack(false)
		return
	}

	if err != nil {
		log.Printf("[CatalogConsumer] failed to sync %s: %v", msg.RoutingKey, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[CatalogConsumer] synced %s", msg.RoutingKey)
	msg.Ack(false)
}

// upsert inserts or updates a catalog row keyed by the publisher's id.
func upsert[T any](db *gorm.DB, body []byte, columns []string) error {
	var row T
	if err := json.Unmarshal(body, &row); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error
}
