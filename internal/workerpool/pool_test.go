package workerpool

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPoolShutdownDrainsQueue 关闭时已入队的任务全部执行完
func TestPoolShutdownDrainsQueue(t *testing.T) {
	p := New(2, 64, newTestLogger())

	var done int64
	for i := 0; i < 50; i++ {
		if !p.Submit(func() { atomic.AddInt64(&done, 1) }) {
			t.Fatal("关闭前的 Submit 不应失败")
		}
	}
	p.Shutdown()

	if n := atomic.LoadInt64(&done); n != 50 {
		t.Errorf("期望 50 个任务全部执行，实际 %d", n)
	}
}

// TestPoolSubmitAfterShutdown 关闭后的 Submit 返回 false 且不 panic
func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := New(1, 8, newTestLogger())
	p.Shutdown()

	if p.Submit(func() {}) {
		t.Error("关闭后的 Submit 应返回 false")
	}
}

// TestPoolRecoversFromPanic 单个任务 panic 不影响后续任务
func TestPoolRecoversFromPanic(t *testing.T) {
	p := New(1, 8, newTestLogger())

	var done int64
	p.Submit(func() { panic("boom") })
	p.Submit(func() { atomic.AddInt64(&done, 1) })
	p.Shutdown()

	if atomic.LoadInt64(&done) != 1 {
		t.Error("panic 之后的任务仍应被执行")
	}
}
