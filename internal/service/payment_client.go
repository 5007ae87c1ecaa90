package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"shopcore_api/internal/config"
)

// ==================== 支付网关客户端 ====================

// 网关侧发票状态
const (
	InvoiceStatusCreated  = "created"
	InvoiceStatusSuccess  = "success"
	InvoiceStatusFailure  = "failure"
	InvoiceStatusReversed = "reversed"
)

// InvoiceStatus 发票查询结果
type InvoiceStatus struct {
	InvoiceID string `json:"invoiceId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

// PaymentClient 支付网关客户端，订单对账时轮询发票状态
type PaymentClient struct {
	cfg    *config.PaymentConfig
	client *resty.Client
}

// NewPaymentClient 创建支付网关客户端
func NewPaymentClient(cfg *config.PaymentConfig) *PaymentClient {
	return &PaymentClient{
		cfg:    cfg,
		client: resty.New(),
	}
}

// FetchInvoiceStatus 查询发票当前状态
func (c *PaymentClient) FetchInvoiceStatus(ctx context.Context, invoiceID string) (*InvoiceStatus, error) {
	var res InvoiceStatus
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Token", c.cfg.ApiKey).
		SetQueryParam("invoiceId", invoiceID).
		SetResult(&res).
		Get(c.cfg.ApiURL + "/api/merchant/invoice/status")

	if err != nil {
		return nil, fmt.Errorf("支付网关请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("支付网关异常 [%d]: %s", resp.StatusCode(), resp.String())
	}
	return &res, nil
}
