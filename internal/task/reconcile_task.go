package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"shopcore_api/internal/config"
	"shopcore_api/internal/model"
	"shopcore_api/internal/repository"
	"shopcore_api/internal/service"
)

// ==================== ReconcileTask 库存对账任务 ====================

// EnqueueResult 一次入队的摘要
type EnqueueResult struct {
	PartnerID     int64     `json:"partner_id"`
	PartnerName   string    `json:"partner_name"`
	TotalProducts int       `json:"total_products"`
	TotalChunks   int       `json:"total_chunks"`
	EstimatedDone time.Time `json:"estimated_done"`
	Message       string    `json:"message"`
}

// ReconcileTask 合作方库存对账任务
// 生产侧：把合作方全部本地商品切成固定大小的分块，每块按 chunkIndex × 间隔 延迟调度，
// 整个目录在 N 分钟内摊开刷新，这个间隔就是保护合作方限流的背压手段。
// 消费侧：逐块调用 SyncService.ReconcileChunk，块内单品失败不影响其余
type ReconcileTask struct {
	partnerRepo repository.PartnerRepository
	productRepo repository.ProductRepository
	syncService *service.SyncService
	scheduler   JobScheduler
	cron        *cron.Cron

	chunkSize     int
	chunkInterval time.Duration
	chunkTimeout  time.Duration

	// 统计（状态查询接口用）
	mu              sync.Mutex
	chunksScheduled int64
	chunksCompleted int64
	itemsFailed     int64
}

// NewReconcileTask 创建对账任务
func NewReconcileTask(
	partnerRepo repository.PartnerRepository,
	productRepo repository.ProductRepository,
	syncService *service.SyncService,
	scheduler JobScheduler,
	cfg *config.SyncConfig,
) *ReconcileTask {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 30
	}
	interval := cfg.ChunkInterval
	if interval <= 0 {
		interval = time.Minute
	}

	return &ReconcileTask{
		partnerRepo:   partnerRepo,
		productRepo:   productRepo,
		syncService:   syncService,
		scheduler:     scheduler,
		cron:          cron.New(cron.WithSeconds()),
		chunkSize:     chunkSize,
		chunkInterval: interval,
		chunkTimeout:  10 * time.Minute,
	}
}

// ==================== 生命周期 ====================

// Start 启动定时调度：每日凌晨 4 点对全部合作方入队
func (t *ReconcileTask) Start() {
	_, _ = t.cron.AddFunc("0 0 4 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.enqueueAll(ctx)
	})

	t.cron.Start()
	log.Println("[ReconcileTask] 已启动 (每日 4 点全量对账)")
}

// Stop 停止定时器并等待已触发的分块结束
func (t *ReconcileTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.scheduler.Stop()
	log.Println("[ReconcileTask] 已停止")
}

// ==================== 生产侧 ====================

// Enqueue 把一个合作方的全部商品切块入队
func (t *ReconcileTask) Enqueue(ctx context.Context, partnerID int64) (*EnqueueResult, error) {
	partner, err := t.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrPartnerNotFound
		}
		return nil, err
	}

	products, err := t.productRepo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	chunks := chunkProducts(products, t.chunkSize)
	now := time.Now()

	for i := range chunks {
		chunk := chunks[i]
		index := i
		delay := time.Duration(i) * t.chunkInterval
		t.scheduler.Schedule(delay, func() {
			t.runChunk(partner, chunk, index, len(chunks))
		})
	}

	t.mu.Lock()
	t.chunksScheduled += int64(len(chunks))
	t.mu.Unlock()

	result := &EnqueueResult{
		PartnerID:     partner.ID,
		PartnerName:   partner.Name,
		TotalProducts: len(products),
		TotalChunks:   len(chunks),
		EstimatedDone: now.Add(time.Duration(len(chunks)) * t.chunkInterval),
		Message: fmt.Sprintf("合作方 %s: %d 个商品分 %d 块入队，预计 %d 分钟内刷新完成",
			partner.Name, len(products), len(chunks),
			int(time.Duration(len(chunks))*t.chunkInterval/time.Minute)),
	}
	log.Printf("[ReconcileTask] %s", result.Message)
	return result, nil
}

// enqueueAll 对全部合作方入队
func (t *ReconcileTask) enqueueAll(ctx context.Context) {
	partners, err := t.partnerRepo.List(ctx)
	if err != nil {
		log.Printf("[ReconcileTask] 获取合作方列表失败: %v", err)
		return
	}

	for i := range partners {
		if _, err := t.Enqueue(ctx, partners[i].ID); err != nil {
			log.Printf("[ReconcileTask] 合作方 %s 入队失败: %v", partners[i].Name, err)
		}
	}
}

// chunkProducts 固定大小切块
func chunkProducts(products []model.Product, size int) [][]model.Product {
	var chunks [][]model.Product
	for start := 0; start < len(products); start += size {
		end := start + size
		if end > len(products) {
			end = len(products)
		}
		chunks = append(chunks, products[start:end])
	}
	return chunks
}

// ==================== 消费侧 ====================

// runChunk 执行一个分块
func (t *ReconcileTask) runChunk(partner *model.Partner, chunk []model.Product, index, total int) {
	ctx, cancel := context.WithTimeout(context.Background(), t.chunkTimeout)
	defer cancel()

	log.Printf("[ReconcileTask] 合作方 %s 分块 %d/%d 开始 (%d 个商品)",
		partner.Name, index+1, total, len(chunk))

	failed := t.syncService.ReconcileChunk(ctx, partner, chunk)

	t.mu.Lock()
	t.chunksCompleted++
	t.itemsFailed += int64(failed)
	t.mu.Unlock()

	log.Printf("[ReconcileTask] 合作方 %s 分块 %d/%d 完成, 失败 %d",
		partner.Name, index+1, total, failed)
}

// ==================== 状态查询 ====================

// Status 任务运行状态与失败计数
func (t *ReconcileTask) Status() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return map[string]interface{}{
		"chunks_scheduled": t.chunksScheduled,
		"chunks_completed": t.chunksCompleted,
		"chunks_pending":   t.scheduler.Pending(),
		"items_failed":     t.itemsFailed,
	}
}
