package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Hariharavelan7/Chat-Application/internal/config"
	"github.com/Hariharavelan7/Chat-Application/internal/connection"
	"github.com/Hariharavelan7/Chat-Application/internal/handler"
	"github.com/Hariharavelan7/Chat-Application/internal/health"
	"github.com/Hariharavelan7/Chat-Application/internal/jwt"
	"github.com/Hariharavelan7/Chat-Application/internal/protocol"
	"github.com/Hariharavelan7/Chat-Application/internal/repository"
	"github.com/Hariharavelan7/Chat-Application/internal/router"
	"github.com/Hariharavelan7/Chat-Application/internal/server"
	"github.com/Hariharavelan7/Chat-Application/internal/service"
	"github.com/Hariharavelan7/Chat-Application/internal/workerpool"
)

func main() {
	// 加载配置
	cfg, err := config.Load(configPath())
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接数据库
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)

	// 初始化表结构
	if err := repository.InitSchema(ctx, db); err != nil {
		logger.Error("Failed to init schema", "error", err)
		os.Exit(1)
	}

	// 连接 Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)

	// 初始化 JWT 服务
	jwtService := jwt.NewService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpire,
		cfg.JWT.RefreshExpire,
	)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, tokenRepo, jwtService)
	userService := service.NewUserService(userRepo)
	readStateService := service.NewReadStateService(messageRepo)

	// 初始化长连接通道
	connMgr := connection.NewManager()
	pool := workerpool.New(cfg.Gateway.WorkerCount, cfg.Gateway.WorkerQueueSize, logger)
	dispatcher := protocol.NewDispatcher(connMgr, messageRepo, readStateService, tokenRepo, pool, logger)
	wtServer := server.New(cfg, dispatcher, logger)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	chatHandler := handler.NewChatHandler(readStateService)
	healthHandler := health.NewHandler(db, redisClient, connMgr)

	// 设置路由
	r := router.SetupRouter(cfg, jwtService, tokenRepo, authHandler, userHandler, chatHandler, healthHandler)

	// 启动 HTTP 服务
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	go func() {
		logger.Info("Web server started", "addr", addr, "mode", cfg.App.Mode)
		if err := r.Run(addr); err != nil {
			logger.Error("Web server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 启动 WebTransport 服务
	go func() {
		if err := wtServer.Start(ctx); err != nil {
			logger.Error("WebTransport server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()
	wtServer.Shutdown()
	pool.Shutdown()
	logger.Info("Server stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// newLogger 按配置创建 slog Logger
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// connectDatabase 连接 PostgreSQL
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
