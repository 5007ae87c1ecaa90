package model

import "gorm.io/datatypes"

// ==================== 订单状态 ====================

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Order 本地订单
// 状态由后台对账任务轮询 CRM / 支付网关 / 物流查询后更新
type Order struct {
	BaseModel
	Number    string   `gorm:"size:50;uniqueIndex;not null" json:"number"`
	PartnerID int64    `gorm:"index;default:0" json:"partner_id"`
	Partner   *Partner `gorm:"foreignKey:PartnerID" json:"-"`

	// --- 外部标识 ---
	CrmOrderID int64  `gorm:"index;default:0" json:"crm_order_id"`
	InvoiceID  string `gorm:"size:100;index" json:"invoice_id"`
	Ttn        string `gorm:"size:50;index" json:"ttn"` // 承运商运单号

	// --- 状态 ---
	Status        string `gorm:"size:20;index;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;index;default:'unpaid'" json:"payment_status"`

	// --- 金额与明细 ---
	Total float64        `gorm:"default:0" json:"total"`
	Items datatypes.JSON `gorm:"type:jsonb" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// Settled 订单是否已结清（无需再对账）
func (o *Order) Settled() bool {
	return (o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled) &&
		o.PaymentStatus != PaymentStatusUnpaid
}
