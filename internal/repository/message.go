package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hariharavelan7/Chat-Application/internal/model"
)

var ErrEmptyContent = errors.New("message content is empty")

// MessageRepository 消息存储
// 每个方法对应存储层一条原子 SQL，不做内存缓存
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository 创建消息存储
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append 追加一条消息，id 和 created_at 由数据库分配
func (r *MessageRepository) Append(ctx context.Context, content string, senderID, receiverID int64) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	query := `
		INSERT INTO messages (content, sender_id, receiver_id, is_read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at
	`

	msg := &model.Message{
		Content:    content,
		SenderID:   senderID,
		ReceiverID: receiverID,
		IsRead:     false,
	}
	err := r.db.QueryRow(ctx, query, content, senderID, receiverID).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// FetchConversation 获取两个用户之间的全部消息
// 按 created_at 升序排列，相同时间按 id 升序
func (r *MessageRepository) FetchConversation(ctx context.Context, userA, userB int64) ([]*model.Message, error) {
	query := `
		SELECT id, content, sender_id, receiver_id, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		msg := &model.Message{}
		err := rows.Scan(
			&msg.ID,
			&msg.Content,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.IsRead,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkRead 将 senderID 发给 receiverID 的全部未读消息置为已读
// 幂等：重复调用影响 0 行。返回受影响的行数
func (r *MessageRepository) MarkRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`

	tag, err := r.db.Exec(ctx, query, senderID, receiverID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UnreadCounts 按发送者聚合 receiverID 的未读消息数
// 未读数为 0 的发送者不会出现在结果里
func (r *MessageRepository) UnreadCounts(ctx context.Context, receiverID int64) (map[int64]int64, error) {
	query := `
		SELECT sender_id, COUNT(*)
		FROM messages
		WHERE receiver_id = $1 AND is_read = FALSE
		GROUP BY sender_id
	`

	rows, err := r.db.Query(ctx, query, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var senderID, count int64
		if err := rows.Scan(&senderID, &count); err != nil {
			return nil, err
		}
		counts[senderID] = count
	}
	return counts, rows.Err()
}
