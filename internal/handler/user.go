package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hariharavelan7/Chat-Application/internal/model"
	"github.com/Hariharavelan7/Chat-Application/internal/service"
	"github.com/Hariharavelan7/Chat-Application/pkg/response"
)

// UserHandler 用户处理器
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List 获取全部用户
// @Summary      用户列表
// @Description  返回全部注册用户，用于选择聊天对象
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.User}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.Error(c, response.CodeDBError)
		return
	}

	if users == nil {
		users = []*model.User{}
	}
	response.Success(c, users)
}
