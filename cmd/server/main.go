package main

import (
	availabilityhandler "slotbook/internal/availability/handler"
	availabilityservice "slotbook/internal/availability/service"
	"slotbook/internal/bookings/events"
	bookinghandler "slotbook/internal/bookings/handler"
	bookingrepo "slotbook/internal/bookings/repository"
	bookingservice "slotbook/internal/bookings/service"
	bookingvalidator "slotbook/internal/bookings/validator"
	intervalhandler "slotbook/internal/intervals/handler"
	intervalrepo "slotbook/internal/intervals/repository"
	intervalservice "slotbook/internal/intervals/service"
	intervalvalidator "slotbook/internal/intervals/validator"
	userhandler "slotbook/internal/users/handler"
	userrepo "slotbook/internal/users/repository"
	userservice "slotbook/internal/users/service"
	uservalidator "slotbook/internal/users/validator"
	"slotbook/pkg/app"
	"slotbook/pkg/config"
	"slotbook/pkg/contracts"
	"slotbook/pkg/kafka"
	kafkaconfig "slotbook/pkg/kafka/config"
	"slotbook/pkg/session"
)

const ServiceName = "slotbook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize session manager", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	producer := initProducer(cfg, serverApp)
	serverApp.SetApp(initHandlers(cfg, sessions, producer)...)
	serverApp.Run()
}

func initProducer(cfg *config.Config, serverApp *app.Application) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(cfg.KafkaBrokers), cfg.KafkaBookingTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	serverApp.SetProducer(producer)
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingTopic)
	return producer
}

func initHandlers(cfg *config.Config, sessions *session.Manager, producer *kafka.Producer) []contracts.Handler {
	users := userrepo.NewMongoUserRepository(cfg)
	intervals := intervalrepo.NewMongoIntervalRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	bookingLocks := bookingrepo.NewBookingLockRepository(cfg)

	var publisher events.Publisher = events.NewNoopPublisher()
	if producer != nil {
		publisher = events.NewKafkaPublisher(producer, cfg.Log)
	}

	userSvc := userservice.NewUserService(users, uservalidator.NewUserValidator(cfg.Log), cfg)
	intervalSvc := intervalservice.NewIntervalService(intervals, intervalvalidator.NewIntervalValidator(cfg.Log), cfg)
	availabilitySvc := availabilityservice.NewAvailabilityService(users, intervals, bookings, cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookings,
		bookingLocks,
		users,
		intervals,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		userhandler.NewUserHandler(userSvc, sessions, cfg.Log),
		intervalhandler.NewIntervalHandler(intervalSvc, sessions, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	}
}
