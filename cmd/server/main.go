package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/viktorgrom84/trading-notes/internal/aicost"
	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/config"
	cronrunner "github.com/viktorgrom84/trading-notes/internal/cron"
	"github.com/viktorgrom84/trading-notes/internal/db"
	"github.com/viktorgrom84/trading-notes/internal/handler"
	"github.com/viktorgrom84/trading-notes/internal/logger"
	gormrepository "github.com/viktorgrom84/trading-notes/internal/repository/gorm"
	"github.com/viktorgrom84/trading-notes/internal/service"
	"github.com/viktorgrom84/trading-notes/internal/textgen"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("TN_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if raw := os.Getenv("TN_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret is required")
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	meter := &aicost.Meter{Repo: store}
	analysisSvc := &service.AnalysisService{
		Repo:  store,
		Meter: meter,
		Gen:   textgen.NewClient(cfg.TextGen),
		Log:   logger,
	}

	jwt := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}
	authed := auth.Middleware(jwt)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	authHandler := &handler.AuthHandler{Repo: store, JWT: jwt, Log: logger}
	authHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Repo: store, Log: logger}
	tradeHandler.Register(engine, authed)
	statsHandler := &handler.StatisticsHandler{Repo: store}
	statsHandler.Register(engine, authed)
	calendarHandler := &handler.CalendarHandler{Repo: store}
	calendarHandler.Register(engine, authed)
	aiHandler := &handler.AIHandler{
		Svc:           analysisSvc,
		Meter:         meter,
		Repo:          store,
		Log:           logger,
		AdminUsername: cfg.Admin.Username,
	}
	aiHandler.Register(engine, authed)
	adminHandler := &handler.AdminHandler{
		Repo:          store,
		Log:           logger,
		AdminUsername: cfg.Admin.Username,
	}
	adminHandler.Register(engine, authed)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Retention.Enabled {
		sweeper := &service.RetentionSweeper{
			Repo:   store,
			Log:    logger,
			MaxAge: cfg.Retention.AnalysisResultsAge,
		}
		if _, err := cronRunner.Add(cfg.Retention.Sweep, sweeper.Sweep); err != nil {
			logger.Warn("cron register retention sweep failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
