package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/quic-go/webtransport-go"

	"github.com/Hariharavelan7/Chat-Application/internal/connection"
	apperrors "github.com/Hariharavelan7/Chat-Application/internal/errors"
	"github.com/Hariharavelan7/Chat-Application/internal/model"
	"github.com/Hariharavelan7/Chat-Application/internal/repository"
	"github.com/Hariharavelan7/Chat-Application/internal/workerpool"
)

// MessageStore 消息存储依赖
type MessageStore interface {
	Append(ctx context.Context, content string, senderID, receiverID int64) (*model.Message, error)
	FetchConversation(ctx context.Context, userA, userB int64) ([]*model.Message, error)
}

// ReadStateTracker 已读状态依赖
type ReadStateTracker interface {
	MarkConversationRead(ctx context.Context, readerID, authorID int64) (int64, error)
	ComputeUnread(ctx context.Context, userID int64) (map[int64]int64, error)
}

// TokenVerifier join 时的 Token 校验依赖
type TokenVerifier interface {
	GetUserInfoByToken(ctx context.Context, accessToken string) (*repository.UserTokenInfo, error)
	IsTokenCurrent(ctx context.Context, userID int64, token string) (bool, error)
}

// Dispatcher 会话分发器
// 负责连接生命周期、join 鉴权以及会话指令的处理和事件推送
type Dispatcher struct {
	connMgr    *connection.Manager
	messages   MessageStore
	readState  ReadStateTracker
	tokens     TokenVerifier
	workerPool *workerpool.Pool
	logger     *slog.Logger
}

// NewDispatcher 创建会话分发器
func NewDispatcher(connMgr *connection.Manager, messages MessageStore, readState ReadStateTracker, tokens TokenVerifier, workerPool *workerpool.Pool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		connMgr:    connMgr,
		messages:   messages,
		readState:  readState,
		tokens:     tokens,
		workerPool: workerPool,
		logger:     logger,
	}
}

// HandleSession 处理一个 WebTransport 会话，直到连接断开
func (d *Dispatcher) HandleSession(ctx context.Context, session *webtransport.Session) {
	conn := connection.NewFromWebTransport(session, d.logger)
	d.connMgr.Add(conn)

	defer func() {
		d.connMgr.Unbind(conn)
		d.connMgr.Remove(conn.ID())
		conn.Close()
		d.logger.Info("Connection closed",
			"conn_id", conn.ID(),
			"user_id", conn.UserID())
	}()

	stream, err := session.AcceptStream(ctx)
	if err != nil {
		d.logger.Warn("Failed to accept stream", "conn_id", conn.ID(), "error", err)
		return
	}

	// 所有下行帧统一走这条流
	conn.SetStream(stream)

	d.logger.Info("Connection established", "conn_id", conn.ID())
	d.readLoop(ctx, conn, stream)
}

// readLoop 读取并分发上行帧
func (d *Dispatcher) readLoop(ctx context.Context, conn *connection.Connection, stream *webtransport.Stream) {
	for {
		frameType, body, err := ReadFrame(stream)
		if err != nil {
			if err != io.EOF {
				d.logger.Debug("Read frame failed", "conn_id", conn.ID(), "error", err)
			}
			return
		}

		conn.UpdateActive()

		switch frameType {
		case FrameTypeJoin:
			if err := d.handleJoin(ctx, conn, body); err != nil {
				d.logger.Warn("Join rejected", "conn_id", conn.ID(), "error", err)
				return
			}
		case FrameTypeCommand:
			submitted := d.workerPool.Submit(func() {
				d.handleCommand(ctx, conn, body)
			})
			if !submitted {
				d.logger.Warn("Worker pool is shutting down, command dropped", "conn_id", conn.ID())
			}
		default:
			d.logger.Warn("Unknown frame type", "conn_id", conn.ID(), "frameType", frameType)
		}
	}
}

// joinable join 成功后可以绑定用户身份的连接
type joinable interface {
	connection.Handle
	BindUser(userID int64)
}

// handleJoin 处理 join 请求，校验失败返回 error，调用方应关闭连接
func (d *Dispatcher) handleJoin(ctx context.Context, conn joinable, body []byte) error {
	var req JoinRequest
	if err := json.Unmarshal(body, &req); err != nil {
		d.sendJoinAck(conn, apperrors.CodeInvalidParams, "malformed join request", 0)
		return fmt.Errorf("malformed join request: %w", err)
	}

	// 从 Redis 获取 token 对应的用户信息
	userInfo, err := d.tokens.GetUserInfoByToken(ctx, req.Token)
	if err != nil {
		d.sendJoinAck(conn, apperrors.CodeServerError, "internal error", 0)
		return fmt.Errorf("redis error: %w", err)
	}
	if userInfo == nil {
		d.sendJoinAck(conn, apperrors.CodeTokenInvalid, "invalid token", 0)
		return errors.New("token not found")
	}

	// token 必须属于声称的用户
	if userInfo.UserID != req.UserID {
		d.sendJoinAck(conn, apperrors.CodeTokenInvalid, "token does not match user", 0)
		return fmt.Errorf("user mismatch: token belongs to %d, claimed %d", userInfo.UserID, req.UserID)
	}

	// 被顶掉的旧 token 不能再 join
	isCurrent, err := d.tokens.IsTokenCurrent(ctx, userInfo.UserID, req.Token)
	if err != nil {
		d.sendJoinAck(conn, apperrors.CodeServerError, "internal error", 0)
		return fmt.Errorf("redis error: %w", err)
	}
	if !isCurrent {
		d.sendJoinAck(conn, apperrors.CodeTokenExpired, "token expired or replaced", 0)
		return errors.New("token is not current")
	}

	conn.BindUser(userInfo.UserID)

	// 同一用户的新连接覆盖旧绑定，旧连接不通知不关闭
	old := d.connMgr.Bind(userInfo.UserID, conn)
	if old != nil {
		d.logger.Info("Replaced existing binding",
			"user_id", userInfo.UserID,
			"old_conn_id", old.ID(),
			"new_conn_id", conn.ID())
	}

	d.logger.Info("User joined chat", "user_id", userInfo.UserID, "conn_id", conn.ID())
	d.sendJoinAck(conn, apperrors.CodeSuccess, "ok", userInfo.UserID)
	return nil
}

// handleCommand 解析并分发会话指令
func (d *Dispatcher) handleCommand(ctx context.Context, conn connection.Handle, body []byte) {
	// 未 join 的连接不能发指令，连接保持打开等待 join
	if conn.UserID() == 0 {
		d.sendError(conn, "join required")
		return
	}

	var cmd Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		d.logger.Warn("Malformed command", "conn_id", conn.ID(), "error", err)
		d.sendError(conn, "malformed command")
		return
	}

	switch cmd.Event {
	case EventSendMessage:
		d.handleSendMessage(ctx, conn, cmd.Data)
	case EventGetMessages:
		d.handleGetMessages(ctx, conn, cmd.Data)
	case EventMarkAsRead:
		d.handleMarkAsRead(ctx, conn, cmd.Data)
	default:
		d.logger.Warn("Unknown event", "conn_id", conn.ID(), "event", cmd.Event)
		d.sendError(conn, "unknown event: "+cmd.Event)
	}
}

// handleSendMessage 保存消息并推送给接收者
// 接收者不在线时消息只落库，不产生任何在线投递
func (d *Dispatcher) handleSendMessage(ctx context.Context, conn connection.Handle, data json.RawMessage) {
	var req SendMessageData
	if err := json.Unmarshal(data, &req); err != nil {
		d.sendError(conn, "malformed sendMessage data")
		return
	}

	msg, err := d.messages.Append(ctx, req.Content, req.SenderID, req.ReceiverID)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyContent) {
			d.sendError(conn, "message content is empty")
			return
		}
		d.logger.Error("Failed to save message",
			"sender_id", req.SenderID,
			"receiver_id", req.ReceiverID,
			"error", err)
		d.sendError(conn, "Failed to send message")
		return
	}

	// 接收者在线则实时推送
	if receiver := d.connMgr.Lookup(req.ReceiverID); receiver != nil {
		d.sendEvent(receiver, EventNewMessage, msg)
	}

	// 总是给发送者回执
	d.sendEvent(conn, EventMessageSent, msg)
}

// handleGetMessages 返回会话全部消息，并将对方发来的消息置为已读
func (d *Dispatcher) handleGetMessages(ctx context.Context, conn connection.Handle, data json.RawMessage) {
	var req GetMessagesData
	if err := json.Unmarshal(data, &req); err != nil {
		d.sendError(conn, "malformed getMessages data")
		return
	}

	msgs, err := d.messages.FetchConversation(ctx, req.UserID1, req.UserID2)
	if err != nil {
		d.logger.Error("Failed to fetch conversation", "error", err)
		d.sendError(conn, "Failed to get messages")
		return
	}

	// 打开会话即视为已读：userId2 是读者，userId1 发来的消息被标记
	if _, err := d.readState.MarkConversationRead(ctx, req.UserID2, req.UserID1); err != nil {
		d.logger.Error("Failed to mark conversation read", "error", err)
		d.sendError(conn, "Failed to get messages")
		return
	}

	if msgs == nil {
		msgs = []*model.Message{}
	}
	d.sendEvent(conn, EventMessages, msgs)
}

// handleMarkAsRead 标记已读并通知消息作者
func (d *Dispatcher) handleMarkAsRead(ctx context.Context, conn connection.Handle, data json.RawMessage) {
	var req MarkAsReadData
	if err := json.Unmarshal(data, &req); err != nil {
		d.sendError(conn, "malformed markAsRead data")
		return
	}

	// senderId 发给 receiverId 的消息被 receiverId 读掉
	if _, err := d.readState.MarkConversationRead(ctx, req.ReceiverID, req.SenderID); err != nil {
		d.logger.Error("Failed to mark messages as read", "error", err)
		d.sendError(conn, "Failed to mark messages as read")
		return
	}

	counts, err := d.readState.ComputeUnread(ctx, req.SenderID)
	if err != nil {
		d.logger.Error("Failed to compute unread counts", "error", err)
		d.sendError(conn, "Failed to mark messages as read")
		return
	}

	// 作者在线则通知其消息已被读
	if sender := d.connMgr.Lookup(req.SenderID); sender != nil {
		d.sendEvent(sender, EventMessagesRead, &MessagesReadData{
			ReceiverID:   req.ReceiverID,
			UnreadCounts: counts,
		})
	}
}

// sendEvent 向连接推送一个事件帧
func (d *Dispatcher) sendEvent(conn connection.Handle, event string, data any) {
	body, err := json.Marshal(&Event{Event: event, Data: data})
	if err != nil {
		d.logger.Error("Failed to marshal event", "event", event, "error", err)
		return
	}
	if err := conn.Send(EncodeFrame(FrameTypeEvent, body)); err != nil {
		d.logger.Debug("Failed to send event",
			"conn_id", conn.ID(),
			"event", event,
			"error", err)
	}
}

// sendError 向连接推送 error 事件，只发给出错指令所在的连接
func (d *Dispatcher) sendError(conn connection.Handle, msg string) {
	d.sendEvent(conn, EventError, &ErrorData{Message: msg})
}

// sendJoinAck 发送 join 响应帧
func (d *Dispatcher) sendJoinAck(conn connection.Handle, code int, msg string, userID int64) {
	body, err := json.Marshal(&JoinAck{Code: code, Msg: msg, UserID: userID})
	if err != nil {
		return
	}
	if err := conn.Send(EncodeFrame(FrameTypeJoinAck, body)); err != nil {
		d.logger.Debug("Failed to send join ack", "conn_id", conn.ID(), "error", err)
	}
}
