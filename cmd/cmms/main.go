package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/handler"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/bitfantasy/nimo-cmms/internal/config"
	"github.com/bitfantasy/nimo-cmms/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
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
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting nimo-cmms service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Asset{},
		&entity.WorkOrder{},
		&entity.Vendor{},
		&entity.Client{},
		&entity.PurchaseOrder{},
		&entity.POItem{},
		&entity.Procedure{},
		&entity.ProcedureField{},
		&entity.ProcedureExecution{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 仓库、服务、处理器
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg)
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
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
		Logger: logger.Default.LogMode(logger.Warn),
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
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1（全部需要认证，JWT里必须带租户）
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 资产
		assets := v1.Group("/assets")
		{
			assets.GET("", h.Asset.ListAssets)
			assets.POST("", h.Asset.CreateAsset)
			assets.POST("/import", h.Asset.ImportAssets)
			assets.GET("/:id", h.Asset.GetAsset)
			assets.PUT("/:id", h.Asset.UpdateAsset)
			assets.DELETE("/:id", h.Asset.DeleteAsset)
		}

		// 工单
		workOrders := v1.Group("/work-orders")
		{
			workOrders.GET("", h.WorkOrder.ListWorkOrders)
			workOrders.POST("", h.WorkOrder.CreateWorkOrder)
			workOrders.GET("/:id", h.WorkOrder.GetWorkOrder)
			workOrders.PUT("/:id", h.WorkOrder.UpdateWorkOrder)
			workOrders.POST("/:id/transition", h.WorkOrder.TransitionWorkOrder)
			workOrders.DELETE("/:id", h.WorkOrder.DeleteWorkOrder)
		}

		// 供应商
		vendors := v1.Group("/vendors")
		{
			vendors.GET("", h.Vendor.ListVendors)
			vendors.POST("", h.Vendor.CreateVendor)
			vendors.GET("/:id", h.Vendor.GetVendor)
			vendors.PUT("/:id", h.Vendor.UpdateVendor)
			vendors.DELETE("/:id", h.Vendor.DeleteVendor)
		}

		// 客户
		clients := v1.Group("/clients")
		{
			clients.GET("", h.Client.ListClients)
			clients.POST("", h.Client.CreateClient)
			clients.GET("/:id", h.Client.GetClient)
			clients.PUT("/:id", h.Client.UpdateClient)
			clients.DELETE("/:id", h.Client.DeleteClient)
		}

		// 采购订单
		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", h.PO.ListPOs)
			pos.POST("", h.PO.CreatePO)
			pos.GET("/:id", h.PO.GetPO)
			pos.PUT("/:id", h.PO.UpdatePO)
			pos.POST("/:id/order", h.PO.OrderPO)
			pos.POST("/:id/cancel", h.PO.CancelPO)
			pos.POST("/:id/items/:item_id/receive", h.PO.ReceivePOItem)
			pos.DELETE("/:id", h.PO.DeletePO)
		}

		// 作业程序
		procedures := v1.Group("/procedures")
		{
			procedures.GET("", h.Procedure.ListProcedures)
			procedures.POST("", h.Procedure.CreateProcedure)
			procedures.GET("/field-types", h.Procedure.ListFieldTypes)
			procedures.GET("/:id", h.Procedure.GetProcedure)
			procedures.PUT("/:id", h.Procedure.UpdateProcedure)
			procedures.DELETE("/:id", h.Procedure.DeleteProcedure)
			procedures.POST("/:id/duplicate", h.Procedure.DuplicateProcedure)
			procedures.POST("/:id/reorder", h.Procedure.ReorderProcedureFields)
			procedures.POST("/:id/render", h.Procedure.RenderProcedureForm)
			procedures.POST("/:id/validate", h.Procedure.ValidateProcedureAnswers)
			procedures.GET("/:id/executions/export", h.Execution.ExportExecutions)
		}

		// 执行记录
		executions := v1.Group("/executions")
		{
			executions.GET("", h.Execution.ListExecutions)
			executions.POST("", h.Execution.StartExecution)
			executions.GET("/:id", h.Execution.GetExecution)
			executions.PUT("/:id/answers", h.Execution.SaveExecutionAnswers)
			executions.POST("/:id/submit", h.Execution.SubmitExecution)
			executions.POST("/:id/cancel", h.Execution.CancelExecution)
		}

		// 附件
		attachments := v1.Group("/attachments")
		{
			attachments.POST("", h.Attachment.UploadAttachment)
			attachments.GET("/download", h.Attachment.DownloadAttachment)
			attachments.GET("/url", h.Attachment.GetAttachmentURL)
		}
	}
}
