package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Status 健康状态
type Status struct {
	Service     string `json:"service"`
	Database    string `json:"database"`
	Redis       string `json:"redis"`
	Connections int    `json:"connections"`
	Online      int    `json:"online"`
}

// ConnectionCounter 连接计数器接口
type ConnectionCounter interface {
	Count() int
	OnlineCount() int
}

// Handler 健康检查处理器
type Handler struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	connCounter ConnectionCounter
}

// NewHandler 创建健康检查处理器
func NewHandler(db *pgxpool.Pool, redisClient *redis.Client, connCounter ConnectionCounter) *Handler {
	return &Handler{
		db:          db,
		redisClient: redisClient,
		connCounter: connCounter,
	}
}

// check 执行健康检查
func (h *Handler) check(ctx context.Context) *Status {
	status := &Status{
		Service: "chat",
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// 检查 PostgreSQL
	if h.db != nil && h.db.Ping(checkCtx) == nil {
		status.Database = "connected"
	} else {
		status.Database = "disconnected"
	}

	// 检查 Redis
	if h.redisClient != nil && h.redisClient.Ping(checkCtx).Err() == nil {
		status.Redis = "connected"
	} else {
		status.Redis = "disconnected"
	}

	// 连接数
	if h.connCounter != nil {
		status.Connections = h.connCounter.Count()
		status.Online = h.connCounter.OnlineCount()
	}

	return status
}

// Health 存活检查，服务进程在即返回 200
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.check(c.Request.Context()))
}

// Ready 就绪检查，依赖全部可用才返回 200
func (h *Handler) Ready(c *gin.Context) {
	status := h.check(c.Request.Context())

	code := http.StatusOK
	if status.Database != "connected" || status.Redis != "connected" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
