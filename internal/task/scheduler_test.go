package task

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerScheduler_Executes(t *testing.T) {
	s := NewTimerScheduler()
	defer s.Stop()

	var ran int32
	done := make(chan struct{})
	id := s.Schedule(10*time.Millisecond, func() {
		atomic.AddInt32(&ran, 1)
		close(done)
	})
	if id == "" {
		t.Fatal("Schedule 应返回任务 ID")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("任务未在预期时间内执行")
	}

	if atomic.LoadInt32(&ran) != 1 {
		t.Errorf("执行次数 = %d, want 1", ran)
	}
}

func TestTimerScheduler_StopCancelsPending(t *testing.T) {
	s := NewTimerScheduler()

	var ran int32
	s.Schedule(time.Hour, func() { atomic.AddInt32(&ran, 1) })
	s.Schedule(time.Hour, func() { atomic.AddInt32(&ran, 1) })

	if got := s.Pending(); got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}

	s.Stop()

	if got := atomic.LoadInt32(&ran); got != 0 {
		t.Errorf("已停止的调度器不应执行任务, 执行了 %d 次", got)
	}
	if got := s.Pending(); got != 0 {
		t.Errorf("Stop 后 Pending = %d, want 0", got)
	}

	// 停止后拒绝新任务
	if id := s.Schedule(time.Millisecond, func() { atomic.AddInt32(&ran, 1) }); id != "" {
		t.Error("停止后 Schedule 应返回空 ID")
	}
}
