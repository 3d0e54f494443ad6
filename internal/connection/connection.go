package connection

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/webtransport-go"
)

var ErrConnectionClosed = errors.New("connection closed")

// Handle 一个活跃客户端连接的抽象
// Registry 和 Dispatcher 只依赖这个接口，便于测试时替换传输层
type Handle interface {
	ID() int64
	UserID() int64
	Send(data []byte) error
	Close()
}

var connIDCounter int64

// Connection 表示一个基于 WebTransport 的客户端连接
type Connection struct {
	id         int64
	userID     atomic.Int64
	session    *webtransport.Session
	stream     *webtransport.Stream
	logger     *slog.Logger
	writeChan  chan []byte
	closeChan  chan struct{}
	closeOnce  sync.Once
	lastActive atomic.Int64
	createTime time.Time
}

func NewFromWebTransport(session *webtransport.Session, logger *slog.Logger) *Connection {
	id := atomic.AddInt64(&connIDCounter, 1)
	c := &Connection{
		id:         id,
		session:    session,
		logger:     logger,
		writeChan:  make(chan []byte, 256),
		closeChan:  make(chan struct{}),
		createTime: time.Now(),
	}
	c.lastActive.Store(time.Now().UnixMilli())
	return c
}

func (c *Connection) ID() int64 {
	return c.id
}

func (c *Connection) UserID() int64 {
	return c.userID.Load()
}

// BindUser 绑定用户身份（join 成功后调用一次）
func (c *Connection) BindUser(userID int64) {
	c.userID.Store(userID)
}

// SetStream 设置客户端双向流并启动写循环
// 所有下行帧统一通过该流按序发送
func (c *Connection) SetStream(stream *webtransport.Stream) {
	c.stream = stream
	go c.writeLoop()
}

// Send 投递一帧下行数据，连接已关闭时返回 ErrConnectionClosed
func (c *Connection) Send(data []byte) error {
	select {
	case c.writeChan <- data:
		return nil
	case <-c.closeChan:
		return ErrConnectionClosed
	}
}

func (c *Connection) writeLoop() {
	for {
		select {
		case data := <-c.writeChan:
			if _, err := c.stream.Write(data); err != nil {
				c.logger.Error("Failed to write to stream", "conn_id", c.id, "error", err)
			}
		case <-c.closeChan:
			return
		}
	}
}

func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.session.CloseWithError(0, "connection closed")
	})
}

// UpdateActive 更新最近活跃时间
func (c *Connection) UpdateActive() {
	c.lastActive.Store(time.Now().UnixMilli())
}

// LastActiveTime 最近活跃时间
func (c *Connection) LastActiveTime() time.Time {
	return time.UnixMilli(c.lastActive.Load())
}

func (c *Connection) CreateTime() time.Time {
	return c.createTime
}
