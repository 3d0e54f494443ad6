package service

import (
	"context"
	"log/slog"

	"github.com/Hariharavelan7/Chat-Application/internal/repository"
)

// ReadStateService 已读状态服务
// 已读状态直接落在消息行上，不单独维护游标
type ReadStateService struct {
	messageRepo *repository.MessageRepository
	logger      *slog.Logger
}

// NewReadStateService 创建已读状态服务
func NewReadStateService(messageRepo *repository.MessageRepository) *ReadStateService {
	return &ReadStateService{
		messageRepo: messageRepo,
		logger:      slog.Default(),
	}
}

// MarkConversationRead 将 authorID 发给 readerID 的全部消息置为已读
// 幂等，返回本次实际变更的消息数
func (s *ReadStateService) MarkConversationRead(ctx context.Context, readerID, authorID int64) (int64, error) {
	affected, err := s.messageRepo.MarkRead(ctx, authorID, readerID)
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		s.logger.Debug("Marked conversation read",
			"readerId", readerID,
			"authorId", authorID,
			"count", affected)
	}
	return affected, nil
}

// ComputeUnread 按发送者聚合 userID 的未读消息数
// 未读数为 0 的发送者不会出现在结果里
func (s *ReadStateService) ComputeUnread(ctx context.Context, userID int64) (map[int64]int64, error) {
	return s.messageRepo.UnreadCounts(ctx, userID)
}
