package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpline-crm/internal/auth"
	"helpline-crm/internal/calls"
	"helpline-crm/internal/config"
	"helpline-crm/internal/contacts"
	"helpline-crm/internal/pbx"
	"helpline-crm/internal/users"
	"helpline-crm/pkg/logger"
	"helpline-crm/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	client, db, err := utils.OpenMongo(rootCtx, utils.MongoConfig{
		URL:    cfg.Mongo.URL,
		DBName: cfg.Mongo.DBName,
	})
	if err != nil {
		log.Error("mongo init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// Redis only backs the login rate limiter; it stays optional.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	userRepo := users.NewMongoRepo(db)
	contactRepo := contacts.NewMongoRepo(db)
	callRepo := calls.NewMongoRepo(db)
	eventRepo := pbx.NewMongoRepo(db)

	pbxSvc := pbx.NewService(eventRepo, contactRepo, userRepo, cfg.FreePBX.WebhookSecret)

	deps := appDeps{
		AuthMW:       auth.RequireUser(tokens, userRepo),
		LoginLimiter: auth.LoginRateLimit(rdb, cfg.Redis.LoginLimit, cfg.Redis.LoginWindow),
		Auth:         auth.Handlers{Svc: auth.NewService(userRepo, tokens)},
		Users:        users.Handlers{Svc: users.NewService(userRepo, contactRepo, callRepo)},
		Contacts:     contacts.Handlers{Svc: contacts.NewService(contactRepo)},
		Calls:        calls.Handlers{Svc: calls.NewService(callRepo, contactRepo, pbxSvc)},
		PBX:          pbx.Handlers{Svc: pbxSvc},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
