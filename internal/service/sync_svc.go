package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"shopcore_api/internal/config"
	"shopcore_api/internal/model"
	"shopcore_api/internal/repository"
	"shopcore_api/pkg/utils"
)

// ==================== 错误定义 ====================

// ErrPartnerNotFound 合作方不存在
var ErrPartnerNotFound = errors.New("合作方不存在")

// SyncError 同步失败，携带 HTTP 风格状态码与合作方标识，便于排障
type SyncError struct {
	Code        int
	PartnerID   int64
	PartnerName string
	Err         error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("合作方 %s(%d) 同步失败 [%d]: %v", e.PartnerName, e.PartnerID, e.Code, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// syncErrCode 失败归类到 HTTP 风格状态码
func syncErrCode(err error) int {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrTimeout):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

// ==================== 同步结果 ====================

// SyncResult 一次全量同步的结果
type SyncResult struct {
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// 单个商品的处理出口
type upsertOutcome int

const (
	outcomeCreated upsertOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

// ==================== SyncService ====================

// SyncService 合作方目录同步服务
// 全量同步（拉取-匹配-落库）与对账分块（刷新库存/可用性）都在这里实现，
// 定时任务层只负责调度
type SyncService struct {
	partnerRepo  repository.PartnerRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	client       *PartnerClient
	cfg          *config.SyncConfig
}

// NewSyncService 创建同步服务
func NewSyncService(
	partnerRepo repository.PartnerRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	client *PartnerClient,
	cfg *config.SyncConfig,
) *SyncService {
	return &SyncService{
		partnerRepo:  partnerRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		client:       client,
		cfg:          cfg,
	}
}

// ==================== 全量同步 ====================

// SyncPartner 对指定合作方执行一次全量同步
// 批量拉取阶段的限流/超时直接中止整轮并上抛；商品逐个串行处理
func (s *SyncService) SyncPartner(ctx context.Context, partnerID int64) (*SyncResult, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}

	cred := Credentials{ApiURL: partner.ApiURL, ApiKey: partner.ApiKey}

	// 1. 分类一次性拉全量（单页覆盖实际分类数）
	categories, _, err := s.client.FetchCategories(ctx, cred, 1, s.cfg.CategoryPageSize)
	if err != nil {
		return nil, &SyncError{Code: syncErrCode(err), PartnerID: partner.ID, PartnerName: partner.Name, Err: err}
	}

	// 2. 商品分页拉到头，先全部积累在内存
	products, err := s.fetchAllProducts(ctx, cred)
	if err != nil {
		return nil, &SyncError{Code: syncErrCode(err), PartnerID: partner.ID, PartnerName: partner.Name, Err: err}
	}

	// 3. 串行逐个落库
	result := &SyncResult{Total: len(products)}
	for i := range products {
		outcome, err := s.upsertProduct(ctx, partner, cred, categories, &products[i])
		if err != nil {
			return nil, &SyncError{Code: syncErrCode(err), PartnerID: partner.ID, PartnerName: partner.Name, Err: err}
		}
		switch outcome {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		case outcomeSkipped:
			result.Skipped++
		}
	}

	result.Message = fmt.Sprintf("合作方 %s 同步完成: 新增 %d, 更新 %d, 跳过 %d, 共 %d",
		partner.Name, result.Created, result.Updated, result.Skipped, result.Total)
	log.Printf("[SyncService] %s", result.Message)
	return result, nil
}

// fetchAllProducts 按剩余计数语义分页拉取全部商品
// 以首页返回的 total 为准，每拉一页扣减一个页长，扣到非正数为止；
// 页间严格串行，不做并发
func (s *SyncService) fetchAllProducts(ctx context.Context, cred Credentials) ([]ExternalProduct, error) {
	var all []ExternalProduct

	page := 1
	remaining := 0
	for {
		items, total, err := s.client.FetchProducts(ctx, cred, page, s.cfg.PageSize)
		if err != nil {
			return nil, err
		}
		if page == 1 {
			remaining = total
		}
		all = append(all, items...)

		remaining -= s.cfg.PageSize
		if remaining <= 0 {
			break
		}
		page++
	}

	return all, nil
}

// ==================== 分类匹配 ====================

// matchCategory 把合作方分类 ID 解析为本地分类
// 外部 ID 不在已拉取的分类列表中、或本地没有同名分类时返回 nil（调用方按跳过处理）
func (s *SyncService) matchCategory(ctx context.Context, extCategoryID int64, categories []ExternalCategory) (*model.Category, error) {
	var ext *ExternalCategory
	for i := range categories {
		if categories[i].ID == extCategoryID {
			ext = &categories[i]
			break
		}
	}
	if ext == nil {
		return nil, nil
	}

	category, err := s.categoryRepo.GetByName(ctx, ext.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

// ==================== 商品落库 ====================

// upsertProduct 把一条合作方商品应用到本地库
func (s *SyncService) upsertProduct(ctx context.Context, partner *model.Partner, cred Credentials, categories []ExternalCategory, ext *ExternalProduct) (upsertOutcome, error) {
	// 1. 已归档或属于排除分类：不触库直接跳过
	if ext.IsArchived || (s.cfg.ExcludedCategoryID > 0 && ext.CategoryID == s.cfg.ExcludedCategoryID) {
		return outcomeSkipped, nil
	}

	// 2. 分类匹配不上按跳过算，属预期情况
	category, err := s.matchCategory(ctx, ext.CategoryID, categories)
	if err != nil {
		return 0, err
	}
	if category == nil {
		return outcomeSkipped, nil
	}

	// 3. 按 (external_id, partner_id) 判断新建还是更新
	existing, err := s.productRepo.GetByExternal(ctx, ext.ID, partner.ID)
	switch {
	case err == nil:
		return s.updateProduct(ctx, existing, ext)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createProduct(ctx, partner, cred, category, ext)
	default:
		return 0, err
	}
}

// updateProduct 更新分支：只改描述/价格/数量/时间/SKU/隐藏标记
// 图片、尺码、别名、分类在更新时一律不动
func (s *SyncService) updateProduct(ctx context.Context, existing *model.Product, ext *ExternalProduct) (upsertOutcome, error) {
	err := s.productRepo.UpdateFields(ctx, existing.ID, map[string]interface{}{
		"description": ext.Description,
		"price":       ext.MaxPrice, // 价格一律取 max_price
		"quantity":    ext.Quantity,
		"updated_at":  parseExternalTime(ext.UpdatedAt),
		"sku":         ext.SKU,
		"hidden":      ext.IsArchived,
	})
	if err != nil {
		return 0, err
	}
	return outcomeUpdated, nil
}

// createProduct 新建分支：拉 offer 建尺码，附带图片与原始负载快照
func (s *SyncService) createProduct(ctx context.Context, partner *model.Partner, cred Credentials, category *model.Category, ext *ExternalProduct) (upsertOutcome, error) {
	// offer 查询超时按"无尺码"降级；限流必须上抛中止整轮
	offers, err := s.client.FetchOffers(ctx, cred, ext.ID)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			log.Printf("[SyncService] 商品 %d offer 查询超时，按无尺码建档", ext.ID)
			offers = nil
		} else {
			return 0, err
		}
	}

	sizes := buildSizes(offers)

	images := make([]model.ProductImage, 0, len(ext.Attachments))
	for i, url := range ext.Attachments {
		images = append(images, model.ProductImage{URL: url, Rank: i})
	}

	raw, _ := json.Marshal(ext)

	product := &model.Product{
		BaseModel: model.BaseModel{
			CreatedAt: parseExternalTime(ext.CreatedAt),
			UpdatedAt: parseExternalTime(ext.UpdatedAt),
		},
		Name:        ext.Name,
		Description: ext.Description,
		Alias:       utils.Translit(ext.Name),
		SKU:         ext.SKU,
		Price:       ext.MaxPrice,
		Quantity:    ext.Quantity,
		Hidden:      ext.IsArchived, // 建档时只看归档标记，零库存不隐藏
		ExternalID:  ext.ID,
		PartnerID:   partner.ID,
		CategoryID:  category.ID,
		ExternalRaw: raw,
		Images:      images,
		Sizes:       sizes,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return 0, err
	}
	return outcomeCreated, nil
}

// buildSizes 过滤无属性的 offer（基础款不建尺码记录）
func buildSizes(offers []ExternalOffer) []model.ProductSize {
	sizes := make([]model.ProductSize, 0, len(offers))
	for i := range offers {
		name := offers[i].SizeName()
		if name == "" {
			continue
		}
		sizes = append(sizes, model.ProductSize{
			Name:        name,
			SKU:         offers[i].SKU,
			Quantity:    offers[i].Quantity,
			IsAvailable: offers[i].IsAvailable,
			ExternalID:  offers[i].ID,
		})
	}
	return sizes
}

// ==================== 对账分块 ====================

// ReconcileChunk 刷新一个分块内商品的库存与可用性
// 单个商品失败只记日志并跳过，不影响同块其余商品；返回失败条数
func (s *SyncService) ReconcileChunk(ctx context.Context, partner *model.Partner, products []model.Product) int {
	cred := Credentials{ApiURL: partner.ApiURL, ApiKey: partner.ApiKey}
	failed := 0

	for i := range products {
		p := &products[i]

		ext, err := s.client.FetchProduct(ctx, cred, p.ExternalID)
		if err != nil {
			log.Printf("[SyncService] 对账: 商品 %d(外部 %d) 拉取失败: %v", p.ID, p.ExternalID, err)
			failed++
			continue
		}

		hidden := ext.Quantity == 0 || ext.IsArchived
		if err := s.productRepo.UpdateFields(ctx, p.ID, map[string]interface{}{
			"quantity": ext.Quantity,
			"hidden":   hidden,
		}); err != nil {
			log.Printf("[SyncService] 对账: 商品 %d 更新失败: %v", p.ID, err)
			failed++
			continue
		}

		// 尺码刷新：此处的超时与限流都降级为跳过，单个商品的变体数据不致命
		offers, err := s.client.FetchOffers(ctx, cred, p.ExternalID)
		if err != nil {
			log.Printf("[SyncService] 对账: 商品 %d offer 查询失败，尺码保持不变: %v", p.ID, err)
			continue
		}

		for j := range offers {
			s.reconcileSize(ctx, p, &offers[j])
		}
	}

	return failed
}

// reconcileSize 按外部 offer id 匹配本地尺码并刷新数量/可用性
func (s *SyncService) reconcileSize(ctx context.Context, p *model.Product, offer *ExternalOffer) {
	var size *model.ProductSize
	for i := range p.Sizes {
		if p.Sizes[i].ExternalID == offer.ID {
			size = &p.Sizes[i]
			break
		}
	}
	if size == nil {
		return
	}

	if err := s.productRepo.UpdateSizeFields(ctx, size.ID, map[string]interface{}{
		"quantity":     offer.Quantity,
		"is_available": s.sizeAvailability(offer),
	}); err != nil {
		log.Printf("[SyncService] 对账: 尺码 %d 更新失败: %v", size.ID, err)
	}
}

// sizeAvailability 尺码可用性公式
// 遗留公式沿用上游行为（零库存反而置可用），业务语义确认前由配置开关保留
func (s *SyncService) sizeAvailability(offer *ExternalOffer) bool {
	if s.cfg.LegacyAvailability {
		return offer.Quantity == 0 || offer.IsAvailable
	}
	return offer.Quantity > 0 && offer.IsAvailable
}

// ==================== 工具函数 ====================

// parseExternalTime 解析合作方时间戳（"2006-01-02 15:04:05" 或 RFC3339），失败回退当前时间
func parseExternalTime(v string) time.Time {
	if v == "" {
		return time.Now()
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Now()
}
