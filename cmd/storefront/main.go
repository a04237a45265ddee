package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("session db: %v", err)
	}
	defer pool.Close()

	// Session store: Postgres, optionally fronted by Redis
	var repo session.Repository = session.NewPostgresRepository(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Printf("redis unavailable, sessions served from postgres only: %v", err)
		} else {
			repo = session.NewCachedRepository(repo, session.NewRedisCache(rdb))
			logger.Printf("session cache: redis %s", cfg.RedisAddr)
		}
		cancel()
	}

	// Activity events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatalf("rabbitmq dial: %v", err)
		}
		defer conn.Close()

		rp, err := events.NewRabbitPublisher(conn)
		if err != nil {
			logger.Fatalf("rabbitmq publisher: %v", err)
		}
		defer rp.Close()
		publisher = rp
	}

	sessions := session.NewManager(repo, session.Options{
		CookieName: cfg.CookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
	})
	go session.RunJanitor(ctx, repo, cfg.JanitorInterval, logger)

	render, err := view.NewRenderer(sessions, cfg.StoreName, logger)
	if err != nil {
		logger.Fatalf("templates: %v", err)
	}

	// Base HTTP client (shared)
	sharedHTTP := &http.Client{
		Timeout: cfg.APITimeout,
	}
	api := clients.NewClient("api", cfg.APIBaseURL, sharedHTTP)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       logger,
		Cfg:          cfg,
		Render:       render,
		Sessions:     sessions,
		Events:       publisher,
		Auth:         clients.NewAuthController(api),
		Products:     clients.NewProductController(api),
		Cart:         clients.NewCartController(api),
		Orders:       clients.NewOrdersController(api),
		Users:        clients.NewUserController(api),
		Admin:        clients.NewAdminController(api),
		HealthProbes: []clients.HealthProbe{{Name: "api", Client: api, Path: "/health"}},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
	logger.Printf("shutdown complete")
}
