package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ==================== 延迟任务调度器 ====================

// JobScheduler 延迟任务抽象：投递一个在 delay 之后可执行的任务
// 对账分块只依赖"延迟入队 + 消费"这两个能力，不绑定具体队列实现
type JobScheduler interface {
	Schedule(delay time.Duration, fn func()) string
	Pending() int
	Stop()
}

// TimerScheduler 进程内定时器实现
// 任务一经触发即从表中移除；Stop 取消全部未触发任务并等待运行中的任务结束。
// 进程崩溃时未触发的任务不会重投（无死信/重试，见 DESIGN）
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

// NewTimerScheduler 创建调度器
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*time.Timer)}
}

// Schedule 在 delay 之后执行 fn，返回任务 ID；调度器已停止时返回空串
func (s *TimerScheduler) Schedule(delay time.Duration, fn func()) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ""
	}

	id := uuid.NewString()
	s.wg.Add(1)

	s.timers[id] = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()

		fn()
	})

	return id
}

// Pending 未触发的任务数
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop 取消未触发任务并等待运行中的任务结束
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		// Stop 返回 true 代表定时器还没触发，需要补偿 wg 计数
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
