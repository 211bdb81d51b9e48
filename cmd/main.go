package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ugogo-app/ugogo-api/config"
	"github.com/ugogo-app/ugogo-api/internal/container"
	"github.com/ugogo-app/ugogo-api/internal/fixtures"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/collections"
	"github.com/ugogo-app/ugogo-api/internal/interface/middleware"
	"github.com/ugogo-app/ugogo-api/internal/router"
	"github.com/ugogo-app/ugogo-api/pkg/genai"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
	"github.com/ugogo-app/ugogo-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Redis backs sessions, rate limits, payment sessions and the default
	// collection store.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Collection store backend
	var store blobstore.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := blobstore.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		store = blobstore.NewPostgresStore(pool)
	case "memory":
		store = blobstore.NewMemoryStore()
	default:
		store = blobstore.NewRedisStore(rdb)
	}

	// GCS is optional; without it avatar uploads are disabled
	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.WithError(err).Warn("GCS unavailable, uploads disabled")
	} else {
		container.SetGCS(gcsClient)
		defer func() { _ = gcsClient.Close() }()
	}

	// Elasticsearch is optional; without it /events/search returns 503
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		esClient, esErr := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if esErr != nil {
			logger.WithError(esErr).Warn("elasticsearch unavailable, search disabled")
		} else {
			container.SetES(esClient)
		}
	}

	// RabbitMQ is optional; without it join reminders are skipped
	rabbitPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQReminderQueue)
	if err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable, reminders disabled")
	} else {
		container.SetRabbitPub(rabbitPub)
		defer rabbitPub.Close()
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetStore(store)
	container.SetJWT(jwtManager)
	container.SetGenAI(genai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout))

	if err := seedIfEmpty(ctx, store, logger); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// seedIfEmpty writes the demo users and events only when the collections
// are absent, so restarts never clobber live data.
func seedIfEmpty(ctx context.Context, store blobstore.Store, logger *logrus.Logger) error {
	users, err := fixtures.Users()
	if err != nil {
		return err
	}
	seededUsers, err := collections.NewUserCollection(store).Seed(ctx, users)
	if err != nil {
		return err
	}
	seededEvents, err := collections.NewEventCollection(store).Seed(ctx, fixtures.Events(users))
	if err != nil {
		return err
	}
	if seededUsers || seededEvents {
		logger.WithFields(logrus.Fields{"users": seededUsers, "events": seededEvents}).Info("seeded demo data")
	}
	return nil
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
