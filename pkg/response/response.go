package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Hariharavelan7/Chat-Application/internal/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 错误码常量（使用 internal/errors 包的定义）
const (
	CodeSuccess = apperrors.CodeSuccess

	// 认证相关 10000-10999
	CodeEmailExists        = apperrors.CodeEmailExists
	CodeInvalidCredentials = apperrors.CodeInvalidCredentials
	CodeTokenInvalid       = apperrors.CodeTokenInvalid
	CodeTokenExpired       = apperrors.CodeTokenExpired

	// 用户相关 11000-11999
	CodeUserNotFound  = apperrors.CodeUserNotFound
	CodeInvalidParams = apperrors.CodeInvalidParams

	// 消息相关 12000-12999
	CodeEmptyContent = apperrors.CodeEmptyContent

	// 系统错误 50000-50999
	CodeServerError = apperrors.CodeServerError
	CodeDBError     = apperrors.CodeDBError
)

var codeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeEmailExists:        "邮箱已被注册",
	CodeInvalidCredentials: "邮箱或密码错误",
	CodeTokenInvalid:       "Token 无效",
	CodeTokenExpired:       "Token 已过期",
	CodeUserNotFound:       "用户不存在",
	CodeInvalidParams:      "参数校验失败",
	CodeEmptyContent:       "消息内容不能为空",
	CodeServerError:        "服务器内部错误",
	CodeDBError:            "数据库错误",
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int) {
	message := codeMessages[code]
	if message == "" {
		message = "unknown error"
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ErrorWithMsg 自定义错误消息
func ErrorWithMsg(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Unauthorized 未认证
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:    CodeTokenInvalid,
		Message: codeMessages[CodeTokenInvalid],
		Data:    nil,
	})
}
