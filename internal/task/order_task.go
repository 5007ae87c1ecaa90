package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"shopcore_api/internal/service"
)

// ==================== OrderReconcileTask 订单对账任务 ====================

// OrderReconcileTask 订单-支付对账定时任务
// 每 30 分钟轮询一轮未结清订单；逻辑在 OrderReconcileService，这里只管调度
type OrderReconcileTask struct {
	orderService *service.OrderReconcileService
	cron         *cron.Cron
}

// NewOrderReconcileTask 创建订单对账任务
func NewOrderReconcileTask(orderService *service.OrderReconcileService) *OrderReconcileTask {
	return &OrderReconcileTask{
		orderService: orderService,
		cron:         cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *OrderReconcileTask) Start() {
	_, _ = t.cron.AddFunc("0 */30 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
		defer cancel()
		t.orderService.ReconcileOrders(ctx)
	})

	t.cron.Start()
	log.Println("[OrderReconcileTask] 已启动 (每 30 分钟)")
}

// Stop 停止任务
func (t *OrderReconcileTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[OrderReconcileTask] 已停止")
}

// RunNow 立即执行一轮对账
func (t *OrderReconcileTask) RunNow() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
		defer cancel()
		t.orderService.ReconcileOrders(ctx)
	}()
}
