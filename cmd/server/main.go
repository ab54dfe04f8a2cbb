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

	"internhub/docs"
	"internhub/internal/auth"
	"internhub/internal/cache"
	"internhub/internal/config"
	"internhub/internal/db"
	"internhub/internal/handler"
	"internhub/internal/logging"
	"internhub/internal/repository"
	"internhub/internal/router"
	"internhub/internal/service"
)

// @title InternHub API
// @version 1.0
// @description Internship marketplace API: companies publish offers, interns apply, companies decide.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.WithError(err).Warn("redis unreachable, serving without cache")
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(store, cacheClient)
	authService := service.NewAuthService(store, userService, jwtService, tokenStore)
	offerService := service.NewOfferService(store, cacheClient)
	applicationService := service.NewApplicationService(store, cacheClient)

	reconciler := service.NewReconciler(store, log)
	if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
		log.WithError(err).Fatal("reconcile schedule")
	}
	defer reconciler.Stop()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Deps{
		Log:                log,
		JWTService:         jwtService,
		AuthService:        authService,
		AuthHandler:        handler.NewAuthHandler(authService),
		UserHandler:        handler.NewUserHandler(userService),
		OfferHandler:       handler.NewOfferHandler(offerService),
		ApplicationHandler: handler.NewApplicationHandler(applicationService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
}
