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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradedesk/internal/config"
	"tradedesk/internal/coupon"
	cronrunner "tradedesk/internal/cron"
	"tradedesk/internal/db"
	"tradedesk/internal/handler"
	"tradedesk/internal/logger"
	"tradedesk/internal/regime"
	gormrepository "tradedesk/internal/repository/gorm"
	"tradedesk/internal/service"

	_ "tradedesk/docs"
)

func main() {
	cfgPath := os.Getenv("TD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
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
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	seeder := &service.CatalogSeedService{Repo: store, Logger: logger}
	if cfg.Catalog.SeedDefaults && settingsSvc.IsEnabled(context.Background(), service.FeatureCatalogSeed, true) {
		if err := seeder.EnsureDefaultCatalog(context.Background()); err != nil {
			logger.Warn("catalog seed failed", zap.Error(err))
		}
	}

	couponEngine := &coupon.Engine{Repo: store, Logger: logger}
	regimeEngine := regime.New(logger, cfg.Regime.RandomSeed)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	couponHandler := &handler.CouponHandler{
		Engine:   couponEngine,
		Repo:     store,
		Settings: settingsSvc,
		Logger:   logger,
	}
	couponHandler.Register(engine)
	dealHandler := &handler.DealHandler{
		Engine: couponEngine,
		Repo:   store,
		Logger: logger,
	}
	dealHandler.Register(engine)
	regimeHandler := &handler.RegimeHandler{
		Engine: regimeEngine,
		Logger: logger,
	}
	regimeHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.ExpirySweep, func(ctx context.Context) {
			now := time.Now().UTC()
			if settingsSvc.IsEnabled(ctx, service.FeatureCouponExpirySweep, true) {
				n, err := store.DeactivateExpiredCoupons(ctx, now)
				if err != nil {
					logger.Warn("coupon expiry sweep failed", zap.Error(err))
				} else if n > 0 {
					logger.Info("deactivated expired coupons", zap.Int64("count", n))
				}
			}
			if settingsSvc.IsEnabled(ctx, service.FeatureDealExpirySweep, true) {
				n, err := store.DeactivateExpiredDeals(ctx, now)
				if err != nil {
					logger.Warn("deal expiry sweep failed", zap.Error(err))
				} else if n > 0 {
					logger.Info("deactivated expired deals", zap.Int64("count", n))
				}
			}
		})
		if err != nil {
			logger.Warn("cron register expiry sweep failed", zap.Error(err))
		}

		retentionDays := cfg.Retention.RedemptionDays
		_, err = cronRunner.Add(cfg.Cron.Retention, func(ctx context.Context) {
			if retentionDays <= 0 {
				return
			}
			if !settingsSvc.IsEnabled(ctx, service.FeatureRedemptionCleanup, true) {
				return
			}
			before := time.Now().UTC().AddDate(0, 0, -retentionDays)
			n, err := store.DeleteRedemptionsBefore(ctx, before)
			if err != nil {
				logger.Warn("redemption cleanup failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Info("deleted old redemptions", zap.Int64("count", n))
			}
		})
		if err != nil {
			logger.Warn("cron register redemption cleanup failed", zap.Error(err))
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

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
