package main

import (
	"context"
	"log/slog"

	"github.com/pellesoderberg/product-review-crew/api"
	"github.com/pellesoderberg/product-review-crew/cache"
	"github.com/pellesoderberg/product-review-crew/config"
	"github.com/pellesoderberg/product-review-crew/resolver"
	"github.com/pellesoderberg/product-review-crew/search"
	"github.com/pellesoderberg/product-review-crew/store"
)

func main() {
	ctx := context.Background()

	// Getting the config
	cfg := config.New()

	// Database initialization
	st, err := store.New(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		slog.Error("Database initialization failed", "error", err)
		panic(err)
	}
	defer st.Close(ctx)

	logger := slog.Default()

	// Running the server
	a, err := api.New(api.Deps{
		Resolver:  resolver.New(st, logger),
		Suggester: search.New(st, logger),
		Store:     st,
		Cache:     cache.NewMemory(cfg.CacheTTL, cfg.CacheSize),
		Logger:    logger,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})
	if err != nil {
		slog.Error("Api initialization failed", "error", err)
		panic(err)
	}
	a.Run(cfg.ServerPort())
}
