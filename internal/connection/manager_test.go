package connection

import (
	"testing"
)

// fakeHandle 测试用连接
type fakeHandle struct {
	id     int64
	userID int64
	sent   [][]byte
	closed bool
}

func (f *fakeHandle) ID() int64     { return f.id }
func (f *fakeHandle) UserID() int64 { return f.userID }
func (f *fakeHandle) Send(data []byte) error {
	f.sent = append(f.sent, data)
	return nil
}
func (f *fakeHandle) Close() { f.closed = true }

func TestManager_BindAndLookup(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1, userID: 100}

	m.Add(c1)
	old := m.Bind(100, c1)
	if old != nil {
		t.Errorf("Expected no replaced connection, got %v", old)
	}

	if got := m.Lookup(100); got != Handle(c1) {
		t.Errorf("Expected lookup to return c1, got %v", got)
	}
	if got := m.Lookup(200); got != nil {
		t.Errorf("Expected lookup for unknown user to return nil, got %v", got)
	}
}

func TestManager_BindReplacesOld(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1, userID: 100}
	c2 := &fakeHandle{id: 2, userID: 100}

	m.Bind(100, c1)
	old := m.Bind(100, c2)

	if old != Handle(c1) {
		t.Errorf("Expected replaced connection to be c1, got %v", old)
	}
	if got := m.Lookup(100); got != Handle(c2) {
		t.Errorf("Expected lookup to return c2, got %v", got)
	}
	// 被替换的连接不应被关闭或收到任何通知
	if c1.closed || len(c1.sent) > 0 {
		t.Error("Replaced connection must not be notified")
	}
}

func TestManager_StaleUnbindDoesNotEvictNewerBinding(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1, userID: 100}
	c2 := &fakeHandle{id: 2, userID: 100}

	m.Bind(100, c1)
	m.Bind(100, c2)

	// 旧连接断开，Unbind 不能移除新连接的绑定
	m.Unbind(c1)

	if got := m.Lookup(100); got != Handle(c2) {
		t.Errorf("Expected lookup to still return c2 after stale unbind, got %v", got)
	}
}

func TestManager_UnbindRemovesAllBindingsOfConnection(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1, userID: 200}

	// 同一连接先后以两个身份 join，断开时两个绑定都要清掉
	m.Bind(100, c1)
	m.Bind(200, c1)
	m.Unbind(c1)

	if got := m.Lookup(100); got != nil {
		t.Errorf("Expected no binding for user 100 after unbind, got %v", got)
	}
	if got := m.Lookup(200); got != nil {
		t.Errorf("Expected no binding for user 200 after unbind, got %v", got)
	}
	if m.OnlineCount() != 0 {
		t.Errorf("Expected 0 online users, got %d", m.OnlineCount())
	}
}

func TestManager_Unbind(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1, userID: 100}

	m.Bind(100, c1)
	m.Unbind(c1)

	if got := m.Lookup(100); got != nil {
		t.Errorf("Expected lookup to return nil after unbind, got %v", got)
	}
}

func TestManager_UnbindUnjoined(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1, userID: 0}

	m.Add(c1)
	// 未 join 的连接断开不应 panic 也不应影响绑定表
	m.Unbind(c1)

	if m.OnlineCount() != 0 {
		t.Errorf("Expected 0 online users, got %d", m.OnlineCount())
	}
}

func TestManager_Count(t *testing.T) {
	m := NewManager()
	c1 := &fakeHandle{id: 1}
	c2 := &fakeHandle{id: 2}

	m.Add(c1)
	m.Add(c2)
	if m.Count() != 2 {
		t.Errorf("Expected 2 connections, got %d", m.Count())
	}

	m.Remove(1)
	if m.Count() != 1 {
		t.Errorf("Expected 1 connection, got %d", m.Count())
	}
}
