package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/backend/rest"
	"github.com/Skotchmaster/inventory_dashboard/internal/backend/sqlstore"
	"github.com/Skotchmaster/inventory_dashboard/internal/config"
	"github.com/Skotchmaster/inventory_dashboard/internal/dashboard"
	"github.com/Skotchmaster/inventory_dashboard/internal/db"
	"github.com/Skotchmaster/inventory_dashboard/internal/events"
	"github.com/Skotchmaster/inventory_dashboard/internal/handlers"
	"github.com/Skotchmaster/inventory_dashboard/internal/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/inventory_dashboard/internal/middleware/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
	httpserver "github.com/Skotchmaster/inventory_dashboard/internal/transport/http"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var (
		client backend.Client
		ready  pinger
		gormDB *gorm.DB
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		gormDB = conn
		store := sqlstore.New(conn)
		client, ready = store, store
	default:
		c := rest.NewClient(cfg.BackendURL, cfg.BackendKey, cfg.HTTPTimeout)
		client, ready = c, c
	}

	var sessions session.Store = session.NewMemoryStore()
	var redisStore *session.RedisStore
	if cfg.SessionBackend == config.SessionRedis {
		rs, err := session.NewRedisStore(context.Background(), session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		redisStore = rs
		sessions = rs
	}

	var publisher events.Publisher
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		producer = p
		publisher = p
	}

	opts := dashboard.Options{
		Errors:    dashboard.ParseErrorMode(cfg.DashboardErrors),
		Publisher: publisher,
	}
	registry := dashboard.NewRegistry(func() *dashboard.Controller {
		return dashboard.New(sessions, client, opts)
	})

	renderer, err := handlers.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready"}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(session.BrowserMiddleware(cfg.BrowserSecret, cfg.CookieSecure))
	e.Use(csrf.Middleware(csrfCfg))

	httpserver.Register(e, &httpserver.Deps{
		Store:            sessions,
		AuthHandler:      &handlers.AuthHandler{Client: client, Store: sessions, Registry: registry},
		DashboardHandler: &handlers.DashboardHandler{Registry: registry},
		Ready: func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			return ready.Ping(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "backend", cfg.Backend, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if gormDB != nil {
		if err := db.Close(gormDB); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
