package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hariharavelan7/Chat-Application/internal/jwt"
	"github.com/Hariharavelan7/Chat-Application/internal/repository"
	"github.com/Hariharavelan7/Chat-Application/pkg/response"
)

// TokenAuth Token 认证中间件
// 先验证 JWT 签名，再确认该 Token 仍是 Redis 中该用户的当前 Token
func TokenAuth(jwtService *jwt.Service, tokenRepo *repository.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Error(c, response.CodeTokenExpired)
			} else {
				response.Error(c, response.CodeTokenInvalid)
			}
			c.Abort()
			return
		}

		// 被新登录顶掉的 Token 立即失效
		isCurrent, err := tokenRepo.IsTokenCurrent(c.Request.Context(), claims.UserID, token)
		if err != nil {
			response.Error(c, response.CodeServerError)
			c.Abort()
			return
		}
		if !isCurrent {
			response.Error(c, response.CodeTokenExpired)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("access_token", token)
		c.Next()
	}
}

// extractToken 从 Authorization header 提取 token
func extractToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}

// GetUserID 从 context 获取 user_id
func GetUserID(c *gin.Context) int64 {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	return userID.(int64)
}

// GetAccessToken 从 context 获取当前请求的 access token
func GetAccessToken(c *gin.Context) string {
	token, exists := c.Get("access_token")
	if !exists {
		return ""
	}
	return token.(string)
}
