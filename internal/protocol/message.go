package protocol

import "encoding/json"

// 客户端事件名
const (
	EventSendMessage = "sendMessage"
	EventGetMessages = "getMessages"
	EventMarkAsRead  = "markAsRead"
)

// 服务端事件名
const (
	EventMessageSent  = "messageSent"
	EventNewMessage   = "newMessage"
	EventMessages     = "messages"
	EventMessagesRead = "messagesRead"
	EventError        = "error"
)

// JoinRequest 加入请求，连接上的首个业务帧
type JoinRequest struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

// JoinAck 加入响应
type JoinAck struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	UserID int64  `json:"userId,omitempty"`
}

// Command 客户端指令信封，Data 按 Event 再解析
type Command struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event 服务端事件信封
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SendMessageData sendMessage 指令的载荷
type SendMessageData struct {
	Content    string `json:"content"`
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
}

// GetMessagesData getMessages 指令的载荷
type GetMessagesData struct {
	UserID1 int64 `json:"userId1"`
	UserID2 int64 `json:"userId2"`
}

// MarkAsReadData markAsRead 指令的载荷
type MarkAsReadData struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

// MessagesReadData messagesRead 事件的载荷
type MessagesReadData struct {
	ReceiverID   int64           `json:"receiverId"`
	UnreadCounts map[int64]int64 `json:"unreadCounts"`
}

// ErrorData error 事件的载荷
type ErrorData struct {
	Message string `json:"message"`
}
