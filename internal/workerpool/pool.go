package workerpool

import (
	"log/slog"
	"sync"
)

// Task 任务函数类型
type Task func()

// Pool 处理入站命令的 Worker Pool
// 单个命令的 panic 不会影响其他命令和连接
type Pool struct {
	workers   int
	taskQueue chan Task
	wg        sync.WaitGroup
	mu        sync.Mutex
	closed    bool
	logger    *slog.Logger
}

// New 创建 Worker Pool
// workers: worker 数量；queueSize: 任务队列大小
func New(workers int, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 8
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	pool := &Pool{
		workers:   workers,
		taskQueue: make(chan Task, queueSize),
		logger:    logger,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	pool.logger.Info("Worker pool started",
		"workers", workers,
		"queue_size", queueSize)

	return pool
}

// worker 工作协程，队列关闭后把剩余任务消费完才退出
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.taskQueue {
		// 执行任务，捕获 panic
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("Task panic recovered",
						"worker_id", id,
						"panic", r)
				}
			}()
			task()
		}()
	}
}

// Submit 提交任务，队列满时阻塞，Pool 已关闭返回 false
func (p *Pool) Submit(task Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.taskQueue <- task
	return true
}

// Shutdown 优雅关闭，等待所有已提交的任务完成
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.taskQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Worker pool shutdown completed")
}
