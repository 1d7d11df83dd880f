package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/cardwise/cardwise-api/api/swagger"
	"github.com/cardwise/cardwise-api/internal/handler"
	"github.com/cardwise/cardwise-api/internal/repository"
	"github.com/cardwise/cardwise-api/internal/service"
	"github.com/cardwise/cardwise-api/internal/session"
	"github.com/cardwise/cardwise-api/pkg/cache"
	"github.com/cardwise/cardwise-api/pkg/config"
	"github.com/cardwise/cardwise-api/pkg/database"
	"github.com/cardwise/cardwise-api/pkg/logger"
	"github.com/cardwise/cardwise-api/pkg/storage"
)

// @title CardWise API
// @version 1.0.0
// @description Backend for the CardWise flashcard quiz application
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Sessions fall back to signature-only validation and the game
		// feed reads straight from the database.
		logr.Sugar().Warnw("redis unavailable, continuing degraded", "error", err)
		redisClient = nil
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		logr.Sugar().Fatalw("failed to hash admin password", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.Expiry)
	denylist := session.NewDenylist(redisClient, logr)
	store := session.NewStore(codec, denylist, logr, session.StoreConfig{
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
	})
	resolver := session.NewResolver(userRepo)
	policy := session.NewPolicy(handler.Realms(cfg.APIPrefix)...)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	auditSvc := service.NewAuditService(auditRepo, logr, service.AuditConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
	})

	settingsSvc := service.NewSettingsService(settingsRepo, auditSvc, logr)
	authSvc := service.NewAuthService(userRepo, settingsSvc, auditSvc, validate, logr, service.AuthConfig{
		AdminEmail:        cfg.Admin.Email,
		AdminPasswordHash: adminHash,
	})
	userSvc := service.NewUserService(userRepo, questionRepo, auditSvc, validate, logr)
	questionSvc := service.NewQuestionService(questionRepo, cacheRepo, metricsSvc, auditSvc, validate, logr, cfg.Game.CacheTTL)

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(questionRepo, exportStorage, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
	}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed, err := exportSvc.Cleanup(); err != nil {
					logr.Sugar().Warnw("export cleanup failed", "error", err)
				} else if len(removed) > 0 {
					logr.Sugar().Infow("expired exports removed", "count", len(removed))
				}
			}
		}
	}()

	router := handler.NewRouter(handler.RouterDeps{
		Config:    cfg,
		Logger:    logr,
		Store:     store,
		Policy:    policy,
		Resolver:  resolver,
		Metrics:   metricsSvc,
		Settings:  settingsSvc,
		Auth:      handler.NewAuthHandler(authSvc, store),
		Users:     handler.NewUserHandler(userSvc),
		Questions: handler.NewQuestionHandler(questionSvc),
		Setting:   handler.NewSettingsHandler(settingsSvc),
		Exports:   handler.NewExportHandler(exportSvc),
		Observe:   handler.NewMetricsHandler(metricsSvc, db, redisClient),
	})

	if cfg.Env != config.EnvProduction {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
