package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/periodic-tables/api"
	"github.com/Domenick1991/periodic-tables/config"
	"github.com/Domenick1991/periodic-tables/internal/bootstrap"
	"github.com/Domenick1991/periodic-tables/internal/cache"
	"github.com/Domenick1991/periodic-tables/internal/kafka"
	"github.com/Domenick1991/periodic-tables/internal/logger"
	"github.com/Domenick1991/periodic-tables/internal/service/reservations"
	"github.com/Domenick1991/periodic-tables/internal/service/seating"
	"github.com/Domenick1991/periodic-tables/internal/service/tables"
	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New("periodic-tables", cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rules, err := cfg.Restaurant.ValidationRules()
	if err != nil {
		log.Fatalf("restaurant rules: %v", err)
	}
	validator, err := validation.NewValidator(rules)
	if err != nil {
		log.Fatalf("restaurant rules: %v", err)
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	reservationOpts := []reservations.ReservationServiceOption{reservations.WithLogger(log)}
	tableOpts := []tables.TableServiceOption{tables.WithLogger(log)}
	seatingOpts := []seating.ManagerOption{seating.WithLogger(log)}

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis)
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unreachable, table list will be read from the database")
		}
		tableOpts = append(tableOpts, tables.WithCache(redisCache))
		seatingOpts = append(seatingOpts, seating.WithCache(redisCache))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unreachable, reservation events may be lost")
		}
		events := kafka.NewEventPublisher(producer, cfg.Kafka.ReservationEventsTopic, cfg.Kafka.NotificationsTopic)
		reservationOpts = append(reservationOpts, reservations.WithEvents(events))
		seatingOpts = append(seatingOpts, seating.WithEvents(events))
	}

	reservationService := reservations.NewReservationService(store, validator, reservationOpts...)
	tableService := tables.NewTableService(store, validator, tableOpts...)
	seatingManager := seating.NewManager(store, validator, seatingOpts...)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{AllowedOrigin: cfg.HTTP.AllowedOrigin}, log,
		api.NewReservationHandler(reservationService, seatingManager),
		api.NewTableHandler(tableService, seatingManager),
	)

	if err := bootstrap.Run(ctx, cfg, router, log); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
