package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hariharavelan7/Chat-Application/internal/middleware"
	"github.com/Hariharavelan7/Chat-Application/internal/service"
	"github.com/Hariharavelan7/Chat-Application/pkg/response"
)

// MarkReadRequest 标记已读请求
type MarkReadRequest struct {
	SenderID int64 `json:"senderId" binding:"required"`
}

// ChatHandler 会话查询处理器
type ChatHandler struct {
	readStateService *service.ReadStateService
}

// NewChatHandler 创建会话查询处理器
func NewChatHandler(readStateService *service.ReadStateService) *ChatHandler {
	return &ChatHandler{readStateService: readStateService}
}

// UnreadCounts 获取未读统计
// @Summary      未读统计
// @Description  按发送者聚合当前用户的未读消息数
// @Tags         消息
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=map[string]int64}
// @Router       /messages/unread [get]
func (h *ChatHandler) UnreadCounts(c *gin.Context) {
	userID := middleware.GetUserID(c)

	counts, err := h.readStateService.ComputeUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, response.CodeDBError)
		return
	}

	response.Success(c, counts)
}

// MarkRead 标记某个发送者的消息已读
// @Summary      标记已读
// @Description  将指定发送者发给当前用户的全部消息标记为已读
// @Tags         消息
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body MarkReadRequest true "发送者"
// @Success      200  {object}  response.Response{data=object{success=bool}}
// @Router       /messages/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, err.Error())
		return
	}

	// 读者是当前登录用户
	readerID := middleware.GetUserID(c)
	if _, err := h.readStateService.MarkConversationRead(c.Request.Context(), readerID, req.SenderID); err != nil {
		response.Error(c, response.CodeDBError)
		return
	}

	response.Success(c, gin.H{"success": true})
}
