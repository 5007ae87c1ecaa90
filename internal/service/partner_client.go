package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"shopcore_api/internal/config"
)

// ==================== 错误定义 ====================

var (
	// ErrRateLimited 合作方接口限流 (HTTP 429)
	ErrRateLimited = errors.New("合作方接口限流")
	// ErrTimeout 合作方接口超时
	ErrTimeout = errors.New("合作方接口超时")
)

// UpstreamError 合作方接口返回的其他非 2xx 响应
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("合作方接口异常 [%d]: %s", e.StatusCode, e.Body)
}

// ==================== 合作方 API DTO ====================

// Credentials 合作方出站调用凭证，严禁写入日志
type Credentials struct {
	ApiURL string
	ApiKey string
}

// ExternalCategory 合作方分类
type ExternalCategory struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`
}

// ExternalProduct 合作方商品
type ExternalProduct struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	MinPrice    float64  `json:"min_price"`
	MaxPrice    float64  `json:"max_price"`
	IsArchived  bool     `json:"is_archived"`
	CategoryID  int64    `json:"category_id"`
	SKU         string   `json:"sku"`
	Attachments []string `json:"attachments_data"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// OfferProperty offer 属性键值对，首个属性的值作为尺码名
type OfferProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExternalOffer 合作方商品变体 (offer)
type ExternalOffer struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Price       float64         `json:"price"`
	IsAvailable bool            `json:"is_available"`
	Properties  []OfferProperty `json:"properties"`
}

// SizeName 派生尺码名：无属性视为默认/基础款
func (o *ExternalOffer) SizeName() string {
	if len(o.Properties) == 0 {
		return ""
	}
	return o.Properties[0].Value
}

// ExternalOrderStatus CRM 订单状态
type ExternalOrderStatus struct {
	ID       int64  `json:"id"`
	StatusID int64  `json:"status_id"`
	Status   string `json:"status"`
	Ttn      string `json:"tracking_code"`
}

// 分页响应
type categoriesPage struct {
	Data  []ExternalCategory `json:"data"`
	Total int                `json:"total"`
}

type productsPage struct {
	Data  []ExternalProduct `json:"data"`
	Total int               `json:"total"`
}

type offersPage struct {
	Data []ExternalOffer `json:"data"`
}

// ==================== 客户端实现 ====================

// PartnerClient 合作方 REST API 客户端
// 两档超时：批量列表接口 30s，单商品接口 15s
// 请求一律串行并由限速器控制节奏，避免触发合作方限流
type PartnerClient struct {
	bulk    *resty.Client
	item    *resty.Client
	limiter *rate.Limiter
}

// NewPartnerClient 创建合作方客户端
func NewPartnerClient(cfg *config.SyncConfig) *PartnerClient {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 120
	}
	return &PartnerClient{
		bulk:    resty.New().SetTimeout(cfg.BulkTimeout),
		item:    resty.New().SetTimeout(cfg.OfferTimeout),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

// ==================== 公共方法 ====================

// FetchCategories 拉取一页分类，返回 (items, total)
func (c *PartnerClient) FetchCategories(ctx context.Context, cred Credentials, page, limit int) ([]ExternalCategory, int, error) {
	var res categoriesPage
	url := fmt.Sprintf("%s/products/categories?limit=%d&page=%d", cred.ApiURL, limit, page)
	if err := c.doGet(ctx, c.bulk, cred, url, &res); err != nil {
		return nil, 0, err
	}
	return res.Data, res.Total, nil
}

// FetchProducts 拉取一页商品，返回 (items, total)
func (c *PartnerClient) FetchProducts(ctx context.Context, cred Credentials, page, limit int) ([]ExternalProduct, int, error) {
	var res productsPage
	url := fmt.Sprintf("%s/products?limit=%d&page=%d", cred.ApiURL, limit, page)
	if err := c.doGet(ctx, c.bulk, cred, url, &res); err != nil {
		return nil, 0, err
	}
	return res.Data, res.Total, nil
}

// FetchOffers 拉取单个商品的全部 offer
func (c *PartnerClient) FetchOffers(ctx context.Context, cred Credentials, productID int64) ([]ExternalOffer, error) {
	var res offersPage
	url := fmt.Sprintf("%s/offers?filter[product_id]=%d", cred.ApiURL, productID)
	if err := c.doGet(ctx, c.item, cred, url, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// FetchProduct 按外部 ID 拉取单个商品的实时数据
func (c *PartnerClient) FetchProduct(ctx context.Context, cred Credentials, externalID int64) (*ExternalProduct, error) {
	var res ExternalProduct
	url := fmt.Sprintf("%s/products/%d", cred.ApiURL, externalID)
	if err := c.doGet(ctx, c.item, cred, url, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FetchOrderStatus 拉取 CRM 订单的当前状态（订单对账用）
func (c *PartnerClient) FetchOrderStatus(ctx context.Context, cred Credentials, crmOrderID int64) (*ExternalOrderStatus, error) {
	var res ExternalOrderStatus
	url := fmt.Sprintf("%s/order/%d", cred.ApiURL, crmOrderID)
	if err := c.doGet(ctx, c.item, cred, url, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ==================== 内部方法 ====================

// doGet 发起带鉴权的 GET 并归类失败
func (c *PartnerClient) doGet(ctx context.Context, client *resty.Client, cred Credentials, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+cred.ApiKey).
		SetHeader("Accept", "application/json").
		SetResult(out).
		Get(url)

	if err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return fmt.Errorf("合作方请求失败: %v", err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return ErrRateLimited
	case !resp.IsSuccess():
		return &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return nil
}

// isTimeout 判断传输层错误是否为超时
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
