package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/ugogo-app/ugogo-api/config"
	"github.com/ugogo-app/ugogo-api/internal/fixtures"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/collections"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// Force-reseeds the demo users and events, overwriting whatever the
// collections currently hold. The server only seeds when they are absent.

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	var store blobstore.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := blobstore.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()
		store = blobstore.NewPostgresStore(pool)
	case "memory":
		log.Fatal("memory backend has nothing to seed")
	default:
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		store = blobstore.NewRedisStore(rdb)
	}

	users, err := fixtures.Users()
	if err != nil {
		log.Fatalf("build fixtures: %v", err)
	}
	if err := collections.NewUserCollection(store).Save(ctx, users); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := collections.NewEventCollection(store).Save(ctx, fixtures.Events(users)); err != nil {
		log.Fatalf("seed events: %v", err)
	}
	log.Printf("seeded %d users and %d events", len(users), len(fixtures.Events(users)))
}
