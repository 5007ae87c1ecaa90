package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"shopcore_api/internal/model"
)

// sqlite 不支持 jsonb，订单测试表不含明细列
type testOrder struct {
	ID            int64 `gorm:"primary_key;AUTO_INCREMENT"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	Number        string
	PartnerID     int64
	CrmOrderID    int64
	InvoiceID     string
	Ttn           string
	Status        string
	PaymentStatus string
	Total         float64
}

func (testOrder) TableName() string { return "orders" }

func TestOrderRepo_ListUnsettled(t *testing.T) {
	db := setupTestDB(t)
	if err := db.AutoMigrate(&testOrder{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	orders := []testOrder{
		{Number: "ORD-1", Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid},
		{Number: "ORD-2", Status: model.OrderStatusShipped, PaymentStatus: model.PaymentStatusPaid},
		{Number: "ORD-3", Status: model.OrderStatusDelivered, PaymentStatus: model.PaymentStatusPaid},   // 已结清
		{Number: "ORD-4", Status: model.OrderStatusCancelled, PaymentStatus: model.PaymentStatusUnpaid}, // 取消但未退/付
		{Number: "ORD-5", Status: model.OrderStatusCancelled, PaymentStatus: model.PaymentStatusRefunded},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("灌入订单失败: %v", err)
	}

	repo := NewOrderRepository(db)
	got, err := repo.ListUnsettled(context.Background(), 100)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}

	want := map[string]bool{"ORD-1": true, "ORD-2": true, "ORD-4": true}
	if len(got) != len(want) {
		t.Fatalf("未结清订单数 = %d, want %d", len(got), len(want))
	}
	for _, o := range got {
		if !want[o.Number] {
			t.Errorf("订单 %s 不应出现在未结清列表", o.Number)
		}
	}

	// limit 生效
	got, err = repo.ListUnsettled(context.Background(), 2)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit=2 返回 %d 条", len(got))
	}
}
