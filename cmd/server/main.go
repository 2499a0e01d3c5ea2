package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/meneric/internal/auth"
	"github.com/Skotchmaster/meneric/internal/config"
	"github.com/Skotchmaster/meneric/internal/describe"
	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/httpserver"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/repo"
	"github.com/Skotchmaster/meneric/internal/search"
	"github.com/Skotchmaster/meneric/internal/seed"
	"github.com/Skotchmaster/meneric/internal/service"
	"github.com/Skotchmaster/meneric/internal/store"
	pkgconfig "github.com/Skotchmaster/meneric/pkg/config"
	"github.com/Skotchmaster/meneric/pkg/db"
	"github.com/Skotchmaster/meneric/pkg/logging"
	"github.com/Skotchmaster/meneric/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/meneric/pkg/middleware/logging"
)

// loadState returns the persisted tree, or the seeded demo tree on first run.
func loadState(ctx context.Context, r *repo.GormRepo, p store.Persister, key string) (models.AppState, error) {
	st, err := r.LoadState(ctx, key)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, repo.ErrSnapshotNotFound) {
		return models.AppState{}, err
	}

	st, err = seed.State(time.Now())
	if err != nil {
		return models.AppState{}, fmt.Errorf("seed state: %w", err)
	}
	if err := p.Persist(ctx, st); err != nil {
		return models.AppState{}, fmt.Errorf("persist seed: %w", err)
	}
	return st, nil
}

func main() {
	cfg := config.Load()
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	pkgconfig.MustNonEmpty(cfg.StorageKey, "STORAGE_KEY")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	gdb, err := db.Open(startCtx, cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	stateRepo := &repo.GormRepo{DB: gdb}
	if err := stateRepo.Migrate(startCtx); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	persister := &repo.StatePersister{Repo: stateRepo, Key: cfg.StorageKey}

	initial, err := loadState(startCtx, stateRepo, persister, cfg.StorageKey)
	if err != nil {
		log.Fatalf("load state: %v", err)
	}
	st := store.New(initial, store.WithPersister(persister))

	hub := events.NewHub()
	publishers := events.Multi{hub}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err = events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		publishers = append(publishers, kafkaPub)
	}

	var idx search.Index = search.NewMemory()
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		idx = search.NewESIndex(es, cfg.ESIndex)
	}

	gen := describe.NewClient(cfg.GeminiURL, cfg.GeminiModel, cfg.GeminiAPIKey, cfg.GeminiTimeout)

	shop := service.NewShopService(st, publishers, idx, gen)
	if err := shop.Reindex(startCtx); err != nil {
		logger.Warn("reindex_error", "error", err)
	}
	authSvc := auth.NewService(st, cfg.JWTSecret, publishers)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:       cfg.CookieSecure,
			SkipPrefixes: []string{"/health", "/ws"},
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		ShopHandler:   &httpserver.ShopHTTP{Svc: shop},
		AuthHandler:   &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: cfg.CookieSecure},
		Hub:           hub,
		JWTSecret:     cfg.JWTSecret,
		SecureCookies: cfg.CookieSecure,
		Ready: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_start", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	hub.Close()

	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	if err := db.Close(gdb); err != nil {
		log.Printf("db close error: %v", err)
	}

	log.Println("shutdown complete")
}
