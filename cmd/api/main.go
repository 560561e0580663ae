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
	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/audit"
	"github.com/tahoak/park-collective/internal/config"
	dbpkg "github.com/tahoak/park-collective/internal/db"
	"github.com/tahoak/park-collective/internal/geocode"
	"github.com/tahoak/park-collective/internal/logging"
	"github.com/tahoak/park-collective/internal/mail"
	"github.com/tahoak/park-collective/internal/routes"
	"github.com/tahoak/park-collective/internal/storage"
	"github.com/tahoak/park-collective/internal/verification"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Getenv("APP_DEBUG") == "true")
	defer logger.Sync() //nolint:errcheck

	db, err := dbpkg.NewDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := verification.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	dispatcher := audit.NewDispatcher(audit.New(db), logger.Named("audit"))
	defer dispatcher.Close()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Audit:    dispatcher,
		Tokens:   verification.NewTokens(verification.NewRedisStore(rdb), cfg.App.TokenTTL),
		Store:    storage.NewS3(cfg.Storage, logger.Named("s3")),
		Geocoder: geocode.NewClient(cfg.Geocoding, logger.Named("geocode")),
		Mailer:   mail.New(cfg.Email, logger.Named("mail")),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
