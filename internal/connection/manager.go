package connection

import (
	"sync"
)

// Manager 管理所有连接以及用户到连接的绑定
// 每个用户同一时刻最多只有一个绑定的连接
type Manager struct {
	connections map[int64]Handle // connID -> Handle
	users       map[int64]Handle // userID -> Handle
	mu          sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		connections: make(map[int64]Handle),
		users:       make(map[int64]Handle),
	}
}

// Add 登记新连接（尚未绑定用户）
func (m *Manager) Add(conn Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID()] = conn
}

// Remove 移除连接登记
func (m *Manager) Remove(connID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, connID)
}

// Bind 绑定用户到连接，覆盖旧绑定
// 返回被替换的旧连接（没有则返回 nil），不会通知旧连接
func (m *Manager) Bind(userID int64, conn Handle) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.users[userID]
	if old == conn {
		return nil
	}
	m.users[userID] = conn
	return old
}

// Unbind 解除连接的用户绑定（断开时调用）
// 扫描绑定表移除所有指向这个连接的条目：
// 同一连接先后以多个身份 join 过时，断开必须全部清掉；
// 同一用户的新连接已经覆盖绑定时，旧连接的 Unbind 必须是 no-op
func (m *Manager) Unbind(conn Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, current := range m.users {
		if current == conn {
			delete(m.users, userID)
		}
	}
}

// Lookup 查找用户当前绑定的连接，不在线返回 nil
func (m *Manager) Lookup(userID int64) Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[userID]
}

// Count 当前连接总数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// OnlineCount 当前已绑定用户数
func (m *Manager) OnlineCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
