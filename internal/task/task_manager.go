package task

import (
	"context"
	"log"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台任务
// 管理范围：库存对账、订单对账
type TaskManager struct {
	reconcileTask *ReconcileTask
	orderTask     *OrderReconcileTask
}

// NewTaskManager 创建任务管理器
func NewTaskManager(reconcileTask *ReconcileTask, orderTask *OrderReconcileTask) *TaskManager {
	return &TaskManager{
		reconcileTask: reconcileTask,
		orderTask:     orderTask,
	}
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() {
	log.Println("[TaskManager] 正在启动后台任务...")

	if tm.reconcileTask != nil {
		tm.reconcileTask.Start()
	}
	if tm.orderTask != nil {
		tm.orderTask.Start()
	}

	log.Println("[TaskManager] 后台任务已全部启动")
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	log.Println("[TaskManager] 正在停止后台任务...")

	if tm.reconcileTask != nil {
		tm.reconcileTask.Stop()
	}
	if tm.orderTask != nil {
		tm.orderTask.Stop()
	}

	log.Println("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerReconcile 触发单个合作方的库存对账入队
func (tm *TaskManager) TriggerReconcile(ctx context.Context, partnerID int64) (*EnqueueResult, error) {
	if tm.reconcileTask == nil {
		return nil, ErrTaskDisabled
	}
	return tm.reconcileTask.Enqueue(ctx, partnerID)
}

// TriggerOrderReconcile 触发一轮订单对账
func (tm *TaskManager) TriggerOrderReconcile() {
	if tm.orderTask != nil {
		tm.orderTask.RunNow()
	}
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]interface{} {
	status := map[string]interface{}{
		"reconcile": tm.reconcileTask != nil,
		"order":     tm.orderTask != nil,
	}
	if tm.reconcileTask != nil {
		status["reconcile_stats"] = tm.reconcileTask.Status()
	}
	return status
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
