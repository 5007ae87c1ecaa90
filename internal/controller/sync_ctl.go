package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shopcore_api/internal/service"
	"shopcore_api/internal/task"
)

// SyncController 同步与对账控制器
type SyncController struct {
	syncService *service.SyncService
	taskManager *task.TaskManager
}

// NewSyncController 创建同步控制器
func NewSyncController(syncService *service.SyncService, taskManager *task.TaskManager) *SyncController {
	return &SyncController{syncService: syncService, taskManager: taskManager}
}

// ==================== Handler 实现 ====================

// SyncPartner 立即同步单个合作方目录
// @Summary 手动触发合作方全量同步
// @Tags Sync
// @Param id path int true "合作方 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 408 {object} map[string]interface{} "合作方接口超时"
// @Failure 429 {object} map[string]interface{} "合作方接口限流"
// @Router /api/partners/{id}/sync [post]
func (c *SyncController) SyncPartner(ctx *gin.Context) {
	partnerID := parseID(ctx, "id")
	if partnerID == 0 {
		return
	}

	result, err := c.syncService.SyncPartner(ctx.Request.Context(), partnerID)
	if err != nil {
		c.renderSyncError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{"code": 200, "message": result.Message, "data": result})
}

// Reconcile 立即入队单个合作方的库存对账
// @Summary 手动触发合作方库存对账
// @Tags Sync
// @Param id path int true "合作方 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/partners/{id}/reconcile [post]
func (c *SyncController) Reconcile(ctx *gin.Context) {
	partnerID := parseID(ctx, "id")
	if partnerID == 0 {
		return
	}

	result, err := c.taskManager.TriggerReconcile(ctx.Request.Context(), partnerID)
	if err != nil {
		c.renderSyncError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{"code": 200, "message": result.Message, "data": result})
}

// ReconcileOrders 立即触发一轮订单对账
// @Summary 手动触发订单对账
// @Tags Sync
// @Success 200 {object} map[string]interface{}
// @Router /api/sync/orders [post]
func (c *SyncController) ReconcileOrders(ctx *gin.Context) {
	c.taskManager.TriggerOrderReconcile()
	ctx.JSON(200, gin.H{"code": 200, "message": "订单对账已触发"})
}

// Status 后台任务状态
// @Summary 后台任务状态与失败计数
// @Tags Sync
// @Success 200 {object} map[string]interface{}
// @Router /api/sync/status [get]
func (c *SyncController) Status(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"code": 200, "data": c.taskManager.Status()})
}

// ==================== 错误渲染 ====================

// renderSyncError 把同步错误映射为响应状态
// 限流 429 / 超时 408 / 合作方不存在 404 / 其余 502
func (c *SyncController) renderSyncError(ctx *gin.Context, err error) {
	if errors.Is(err, service.ErrPartnerNotFound) {
		ctx.JSON(404, gin.H{"code": 404, "message": "合作方不存在"})
		return
	}

	var syncErr *service.SyncError
	if errors.As(err, &syncErr) {
		ctx.JSON(syncErr.Code, gin.H{
			"code":    syncErr.Code,
			"message": syncErr.Error(),
			"data": gin.H{
				"partner_id":   syncErr.PartnerID,
				"partner_name": syncErr.PartnerName,
			},
		})
		return
	}

	ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
}
