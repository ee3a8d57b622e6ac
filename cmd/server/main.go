package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
	"github.com/Nixie-Tech-LLC/venues/internal/config"
	"github.com/Nixie-Tech-LLC/venues/internal/db"
	"github.com/Nixie-Tech-LLC/venues/internal/imaging"
	"github.com/Nixie-Tech-LLC/venues/internal/logger"
	"github.com/Nixie-Tech-LLC/venues/internal/notify"
	"github.com/Nixie-Tech-LLC/venues/internal/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.IsDevelopment(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	assetStorage := InitStorage(cfg)

	var store db.Store
	if cfg.DatabaseURL != "" {
		if err := db.Init(cfg.DatabaseURL); err != nil {
			return err
		}
		defer db.DB.Close()

		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			return err
		}
		store = db.NewStore(db.DB)
	}

	var cache imaging.Cache = imaging.NopCache{}
	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		defer redis.Rdb.Close()

		if err := redis.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis unreachable, image cache will miss until it recovers")
		}
		cache = redis.NewImageCache(redis.Rdb)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.MQTTBrokerURL != "" {
		n, err := notify.NewMQTTNotifier(cfg.MQTTBrokerURL, cfg.MQTTTopic)
		if err != nil {
			return err
		}
		notifier = n
	}
	defer notifier.Close()

	loader := catalog.NewLoader(InitCatalogSource(cfg, assetStorage, store))
	loader.Subscribe(notify.Subscriber(notifier))
	if cfg.CatalogMirror {
		loader.Subscribe(catalog.Mirror(store))
	}

	assetFetcher := imaging.NewStorageFetcher(assetStorage)
	images := imaging.NewLoader(
		imaging.SchemeFetcher{
			Remote: imaging.NewHTTPFetcher(cfg.ImageFetchTimeout),
			Local:  assetFetcher,
		},
		assetFetcher,
		cfg.PlaceholderImage,
		cache,
		cfg.ImageCacheTTL,
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, cfg, Dependencies{
		Loader:   loader,
		Images:   images,
		Storage:  assetStorage,
		Store:    store,
		Location: time.Local,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loader.Start(gctx)
		<-gctx.Done()
		loader.Stop()
		return nil
	})

	if cfg.CatalogWatch {
		watcher := catalog.NewWatcher(cfg.AssetsDir, cfg.CatalogName, loader.Reload)
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
