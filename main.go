package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/stayops/reservation-core/config"
	"github.com/stayops/reservation-core/internal/consumer"
	"github.com/stayops/reservation-core/internal/handler"
	"github.com/stayops/reservation-core/internal/middleware"
	"github.com/stayops/reservation-core/internal/repository"
	"github.com/stayops/reservation-core/internal/service"
	"github.com/stayops/reservation-core/pkg/cache"
	"github.com/stayops/reservation-core/pkg/database"
	"github.com/stayops/reservation-core/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ consumer: sync the property/room/service catalog
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	catalogConsumer := consumer.NewCatalogConsumer(db)
	catalogConsumer.Start(msgs)

	// RabbitMQ publisher: booking lifecycle and folio events
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	quoteCache := cache.NewQuoteCache(cfg.RedisAddr)
	defer quoteCache.Close()

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	pricingRepo := repository.NewPricingRuleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	folioRepo := repository.NewFolioRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// Services
	rateSvc := service.NewRateService(catalogRepo, pricingRepo, quoteCache)
	bookingSvc := service.NewBookingService(bookingRepo, folioRepo, rateSvc, publisher)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, bookingRepo, catalogRepo)
	participantSvc := service.NewParticipantService(participantRepo, bookingRepo)
	folioSvc := service.NewFolioService(folioRepo, bookingRepo, publisher)
	lifecycleSvc := service.NewLifecycleService(bookingRepo, assignmentRepo, participantRepo, folioRepo, publisher)
	groupSvc := service.NewGroupService(groupRepo, bookingRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-core"})
	})

	handler.NewQuoteHandler(rateSvc).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc, lifecycleSvc).RegisterRoutes(e)
	handler.NewRoomHandler(assignmentSvc).RegisterRoutes(e)
	handler.NewParticipantHandler(participantSvc).RegisterRoutes(e)
	handler.NewFolioHandler(folioSvc).RegisterRoutes(e)
	handler.NewGroupHandler(groupSvc).RegisterRoutes(e)

	log.Printf("Reservation Core starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
