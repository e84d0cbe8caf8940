package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"clubhub/docs"
	"clubhub/internal/auth"
	"clubhub/internal/cache"
	"clubhub/internal/config"
	"clubhub/internal/db"
	"clubhub/internal/handler"
	"clubhub/internal/logger"
	"clubhub/internal/metrics"
	"clubhub/internal/repository"
	"clubhub/internal/router"
	"clubhub/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Club Hub API
// @version 1.0
// @description University club and event management API with JWT authentication.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, continuing without cache", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	clubRepo := repository.NewClubRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	memberRepo := repository.NewMemberRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	var tokenStore auth.Denylist
	if cfg.TokenRevocation {
		tokenStore = auth.NewTokenStore(cacheClient)
		log.Info("token revocation enabled")
	}
	authenticator := auth.NewAuthenticator(jwtService, tokenStore, log.Named("auth"))

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceDeps{
		Users:         userRepo,
		Hasher:        hasher,
		JWT:           jwtService,
		Authenticator: authenticator,
		TokenStore:    tokenStore,
		Metrics:       collector,
		Logger:        log.Named("auth"),
	})
	userService := service.NewUserService(userRepo, hasher, log.Named("users"))
	clubService := service.NewClubService(clubRepo, cacheClient, log.Named("clubs"))
	eventService := service.NewEventService(eventRepo, clubRepo, cacheClient, log.Named("events"))
	memberService := service.NewMemberService(memberRepo, clubRepo, userRepo, log.Named("members"))

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Users:  handler.NewUserHandler(userService),
		Clubs:  handler.NewClubHandler(clubService),
		Events: handler.NewEventHandler(eventService),
		Member: handler.NewMemberHandler(memberService),
	}, router.Deps{
		Authenticator: authenticator,
		Metrics:       collector,
		Gatherer:      reg,
		Logger:        log.Named("http"),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
