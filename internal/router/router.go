package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Hariharavelan7/Chat-Application/internal/config"
	"github.com/Hariharavelan7/Chat-Application/internal/handler"
	"github.com/Hariharavelan7/Chat-Application/internal/health"
	"github.com/Hariharavelan7/Chat-Application/internal/jwt"
	"github.com/Hariharavelan7/Chat-Application/internal/middleware"
	"github.com/Hariharavelan7/Chat-Application/internal/repository"
)

// SetupRouter 设置路由
func SetupRouter(
	cfg *config.Config,
	jwtService *jwt.Service,
	tokenRepo *repository.TokenRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	healthHandler *health.Handler,
) *gin.Engine {
	// 设置 Gin 模式
	gin.SetMode(cfg.App.Mode)

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowCredentials,
	))

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证接口（无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 需要认证的接口
		authenticated := v1.Group("")
		authenticated.Use(middleware.TokenAuth(jwtService, tokenRepo))
		{
			// 登出
			authenticated.POST("/auth/logout", authHandler.Logout)

			// 用户接口
			authenticated.GET("/users", userHandler.List)

			// 消息查询接口
			messages := authenticated.Group("/messages")
			{
				messages.GET("/unread", chatHandler.UnreadCounts)
				messages.POST("/read", chatHandler.MarkRead)
			}
		}
	}

	return r
}
