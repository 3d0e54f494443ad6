package model

import "time"

// Message 私信消息模型
// id 由存储层在持久化时分配，单调递增
// isRead 只会从 false 变为 true，其余字段持久化后不可变
type Message struct {
	ID         int64     `json:"id" db:"id"`
	Content    string    `json:"content" db:"content"`
	SenderID   int64     `json:"senderId" db:"sender_id"`
	ReceiverID int64     `json:"receiverId" db:"receiver_id"`
	IsRead     bool      `json:"-" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
