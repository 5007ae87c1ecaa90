package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopcore_api/internal/model"
)

// ==================== 测试表结构 ====================

// sqlite 不支持 text[]/jsonb，测试建表用精简结构，列名与业务表一致

type testProduct struct {
	ID         int64 `gorm:"primary_key;AUTO_INCREMENT"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
	Name       string
	Alias      string
	SKU        string
	Price      float64
	Quantity   int
	Hidden     bool
	ExternalID int64
	PartnerID  int64
	CategoryID int64
}

func (testProduct) TableName() string { return "products" }

type testProductSize struct {
	ID          int64 `gorm:"primary_key;AUTO_INCREMENT"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	ProductID   int64
	Name        string
	SKU         string
	Quantity    int
	IsAvailable bool
	ExternalID  int64
}

func (testProductSize) TableName() string { return "product_sizes" }

type testProductImage struct {
	ID        int64 `gorm:"primary_key;AUTO_INCREMENT"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	ProductID int64
	URL       string
	Rank      int
}

func (testProductImage) TableName() string { return "product_images" }

// ==================== 环境搭建 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&testProduct{}, &testProductSize{}, &testProductImage{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()

	products := []testProduct{
		{Name: "Футболка Classic", Alias: "futbolka-classic", SKU: "TS-01",
			Price: 450, Quantity: 5, ExternalID: 101, PartnerID: 1, CategoryID: 3},
		{Name: "Худі Base", Alias: "khudi-base", SKU: "HD-01",
			Price: 900, Quantity: 0, Hidden: true, ExternalID: 102, PartnerID: 1, CategoryID: 3},
		{Name: "Шорти Sport", Alias: "shorty-sport", SKU: "SH-01",
			Price: 300, Quantity: 2, ExternalID: 201, PartnerID: 2, CategoryID: 4},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("灌入商品失败: %v", err)
	}

	sizes := []testProductSize{
		{ProductID: products[0].ID, Name: "M", SKU: "TS-01-M", Quantity: 3, IsAvailable: true, ExternalID: 9001},
		{ProductID: products[0].ID, Name: "L", SKU: "TS-01-L", Quantity: 0, IsAvailable: false, ExternalID: 9002},
	}
	if err := db.Create(&sizes).Error; err != nil {
		t.Fatalf("灌入尺码失败: %v", err)
	}
}

// ==================== 用例 ====================

func TestProductRepo_GetByExternal(t *testing.T) {
	db := setupTestDB(t)
	seedProducts(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p, err := repo.GetByExternal(ctx, 101, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if p.Name != "Футболка Classic" || p.SKU != "TS-01" {
		t.Errorf("查到的商品不对: %+v", p)
	}

	// 同外部 ID 不同合作方不能串
	if _, err := repo.GetByExternal(ctx, 101, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestProductRepo_UpdateFields(t *testing.T) {
	db := setupTestDB(t)
	seedProducts(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p, err := repo.GetByExternal(ctx, 101, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}

	err = repo.UpdateFields(ctx, p.ID, map[string]interface{}{
		"quantity": 0,
		"hidden":   true,
		"price":    500.0,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	got, _ := repo.GetByExternal(ctx, 101, 1)
	if got.Quantity != 0 || !got.Hidden || got.Price != 500 {
		t.Errorf("更新未生效: quantity=%d hidden=%v price=%v", got.Quantity, got.Hidden, got.Price)
	}
	// 未列出的字段不动
	if got.Alias != "futbolka-classic" {
		t.Errorf("Alias 不应被改动: %q", got.Alias)
	}
}

func TestProductRepo_ListByPartner(t *testing.T) {
	db := setupTestDB(t)
	seedProducts(t, db)
	repo := NewProductRepository(db)

	products, err := repo.ListByPartner(context.Background(), 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("合作方 1 商品数 = %d, want 2", len(products))
	}

	// 对账路径依赖预加载的尺码
	var withSizes *model.Product
	for i := range products {
		if products[i].ExternalID == 101 {
			withSizes = &products[i]
		}
	}
	if withSizes == nil || len(withSizes.Sizes) != 2 {
		t.Fatalf("商品 101 应预加载 2 条尺码: %+v", withSizes)
	}
}

func TestProductRepo_UpdateSizeFields(t *testing.T) {
	db := setupTestDB(t)
	seedProducts(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	products, _ := repo.ListByPartner(ctx, 1)
	var sizeID int64
	for i := range products {
		for j := range products[i].Sizes {
			if products[i].Sizes[j].ExternalID == 9001 {
				sizeID = products[i].Sizes[j].ID
			}
		}
	}
	if sizeID == 0 {
		t.Fatal("未找到外部 ID 9001 的尺码")
	}

	err := repo.UpdateSizeFields(ctx, sizeID, map[string]interface{}{
		"quantity":     0,
		"is_available": false,
	})
	if err != nil {
		t.Fatalf("更新尺码失败: %v", err)
	}

	var size testProductSize
	if err := db.First(&size, sizeID).Error; err != nil {
		t.Fatalf("回查尺码失败: %v", err)
	}
	if size.Quantity != 0 || size.IsAvailable {
		t.Errorf("尺码更新未生效: %+v", size)
	}
}

func TestProductRepo_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	seedProducts(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	// 按合作方过滤
	items, total, err := repo.List(ctx, ProductFilter{PartnerID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("合作方过滤: total=%d items=%d, want 2/2", total, len(items))
	}

	// 按隐藏标记过滤
	hidden := true
	items, total, err = repo.List(ctx, ProductFilter{Hidden: &hidden, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ExternalID != 102 {
		t.Errorf("隐藏过滤: total=%d, want 1 条且为外部 102", total)
	}

	// 分页
	items, total, err = repo.List(ctx, ProductFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Errorf("分页: total=%d page2=%d, want 3/1", total, len(items))
	}
}
