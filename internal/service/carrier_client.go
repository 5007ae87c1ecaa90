package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"shopcore_api/internal/config"
)

// ==================== 物流查询客户端 ====================

// TrackingInfo 运单查询结果
type TrackingInfo struct {
	Ttn        string `json:"ttn"`
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	City       string `json:"city"`
}

// Delivered 运单是否已签收
func (t *TrackingInfo) Delivered() bool {
	// 承运商状态码 9 为已签收
	return t.StatusCode == 9
}

// CarrierClient 承运商运单查询客户端
type CarrierClient struct {
	cfg    *config.CarrierConfig
	client *resty.Client
}

// NewCarrierClient 创建物流查询客户端
func NewCarrierClient(cfg *config.CarrierConfig) *CarrierClient {
	return &CarrierClient{
		cfg:    cfg,
		client: resty.New(),
	}
}

// TrackShipment 按运单号查询配送状态
// deliveryServiceID 为合作方配置的承运商标识
func (c *CarrierClient) TrackShipment(ctx context.Context, deliveryServiceID int64, ttn string) (*TrackingInfo, error) {
	var res TrackingInfo
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.ApiKey).
		SetQueryParam("service_id", fmt.Sprintf("%d", deliveryServiceID)).
		SetQueryParam("ttn", ttn).
		SetResult(&res).
		Get(c.cfg.ApiURL + "/tracking")

	if err != nil {
		return nil, fmt.Errorf("物流查询请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("物流查询异常 [%d]: %s", resp.StatusCode(), resp.String())
	}
	return &res, nil
}
