package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/config"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/imaging"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/middleware"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/handler"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/shared/aiassist"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting aatn-qms service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.InspectionRecord{},
		&entity.NCR{},
		&entity.ChecklistTemplateItem{},
		&entity.DefectLibraryItem{},
		&entity.PlanItem{},
		&entity.ActivityLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate QMS tables warning", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb)

	if cfg.AIAssist.BaseURL != "" {
		services.SetAIClient(aiassist.NewClient(cfg.AIAssist.BaseURL, cfg.AIAssist.APIKey))
	}

	normalizer := imaging.NewNormalizer(cfg.Upload.MaxDimension)
	handlers := handler.NewHandlers(services, normalizer, cfg.Upload.Dir)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// normalized image uploads
	r.Static("/uploads", "./uploads")

	api := r.Group("/api/v1/qms")
	api.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		inspections := api.Group("/inspections")
		{
			inspections.GET("", h.Inspection.ListInspections)
			inspections.POST("", h.Inspection.CreateInspection)
			inspections.GET("/history", h.Inspection.ListHistory)
			inspections.GET("/:id", h.Inspection.GetInspection)
			inspections.PATCH("/:id", h.Inspection.UpdateInspection)
			inspections.PUT("/:id/quantities", h.Inspection.SetQuantity)
			inspections.PUT("/:id/stage", h.Inspection.ChangeStage)
			inspections.POST("/:id/items", h.Inspection.AddItem)
			inspections.PUT("/:id/items/:itemId", h.Inspection.SetItemField)
			inspections.PUT("/:id/items/:itemId/ncr", h.NCR.SaveNCR)
			inspections.POST("/:id/submit", h.Inspection.SubmitInspection)
			inspections.POST("/:id/approve", middleware.RequireRole("qc_manager"), h.Inspection.ApproveInspection)
		}

		ncrs := api.Group("/ncrs")
		{
			ncrs.GET("", h.NCR.ListNCRs)
			ncrs.GET("/prefill", h.NCR.ApplyLibraryEntry)
			ncrs.POST("/suggest", h.NCR.SuggestNCR)
			ncrs.GET("/:id", h.NCR.GetNCR)
			ncrs.PUT("/:id/status", h.NCR.UpdateNCRStatus)
			ncrs.POST("/:id/evidence", h.NCR.AddEvidence)
			ncrs.DELETE("/:id/evidence", h.NCR.RemoveEvidence)
		}

		templates := api.Group("/templates")
		{
			templates.GET("/:moduleType", h.Template.GetTemplate)
			templates.PUT("/:moduleType", middleware.RequireRole("qc_manager"), h.Template.ReplaceTemplate)
		}

		defects := api.Group("/defects")
		{
			defects.GET("", h.Defect.SearchDefects)
			defects.GET("/:id", h.Defect.GetDefect)
			defects.POST("", middleware.RequireRole("qc_manager"), h.Defect.CreateDefect)
		}

		api.GET("/plans/lookup", h.Plan.LookupUnit)
		api.POST("/uploads", h.Upload.UploadImages)
	}
}
