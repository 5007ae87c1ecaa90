package model

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Product 本地商品
// 同步维度的唯一标识是 (external_id, partner_id)：命中则更新，未命中则新建
type Product struct {
	BaseModel
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Alias       string  `gorm:"size:255;index" json:"alias"` // URL 别名，由名称转写生成
	SKU         string  `gorm:"size:100;index" json:"sku"`
	Price       float64 `gorm:"default:0" json:"price"`
	Quantity    int     `gorm:"default:0" json:"quantity"`
	Hidden      bool    `gorm:"default:false;index" json:"hidden"`

	// --- 外部关联 ---
	ExternalID int64    `gorm:"index:idx_external_partner,unique;not null" json:"external_id"`
	PartnerID  int64    `gorm:"index:idx_external_partner,unique;not null" json:"partner_id"`
	Partner    *Partner `gorm:"foreignKey:PartnerID" json:"-"`

	// --- 分类 ---
	CategoryID int64     `gorm:"index;default:0" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// --- 店面数据 (Postgres Array / JSONB) ---
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	ExternalRaw datatypes.JSON `gorm:"type:jsonb" json:"-"` // 建档时的合作方原始负载快照

	// --- 关联关系 ---
	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Sizes  []ProductSize  `gorm:"foreignKey:ProductID" json:"sizes,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSize 商品尺码/变体
// 对账按 external_id (offer id) 匹配，只改 quantity 与 is_available
type ProductSize struct {
	BaseModel
	ProductID   int64    `gorm:"index;not null" json:"product_id"`
	Product     *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name        string   `gorm:"size:100;not null" json:"name"`
	SKU         string   `gorm:"size:100;index" json:"sku"`
	Quantity    int      `gorm:"default:0" json:"quantity"`
	IsAvailable bool     `gorm:"default:true" json:"is_available"`
	ExternalID  int64    `gorm:"index" json:"external_id"`
}

func (ProductSize) TableName() string {
	return "product_sizes"
}

// ProductImage 商品图片，顺序取合作方附件数组下标
type ProductImage struct {
	BaseModel
	ProductID int64    `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	URL       string   `gorm:"size:512;not null" json:"url"`
	Rank      int      `gorm:"default:0" json:"rank"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
