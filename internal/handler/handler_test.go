package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hariharavelan7/Chat-Application/pkg/response"
)

// setupTestRouter 创建测试用的 gin 路由
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// APIResponse 用于解析响应体
type APIResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestAuthHandler_Register_InvalidParams(t *testing.T) {
	// 参数校验失败在进入 service 之前就返回
	h := NewAuthHandler(nil)
	router := setupTestRouter()
	router.POST("/api/v1/auth/register", h.Register)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"缺少email", map[string]any{"password": "password123", "name": "Alice"}},
		{"非法email", map[string]any{"email": "not-an-email", "password": "password123", "name": "Alice"}},
		{"密码过短", map[string]any{"email": "a@test.com", "password": "123", "name": "Alice"}},
		{"缺少name", map[string]any{"email": "a@test.com", "password": "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, response.CodeInvalidParams, resp.Code)
		})
	}
}

func TestAuthHandler_Login_InvalidParams(t *testing.T) {
	h := NewAuthHandler(nil)
	router := setupTestRouter()
	router.POST("/api/v1/auth/login", h.Login)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "a@test.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeInvalidParams, resp.Code)
}

func TestChatHandler_MarkRead_InvalidParams(t *testing.T) {
	h := NewChatHandler(nil)
	router := setupTestRouter()
	router.POST("/api/v1/messages/read", h.MarkRead)

	// senderId 缺失
	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/messages/read", map[string]any{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeInvalidParams, resp.Code)
}
