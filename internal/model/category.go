package model

// Category 本平台自有分类
// 同步管道只读：按名称精确匹配合作方分类
type Category struct {
	BaseModel
	Name     string `gorm:"size:100;not null;index" json:"name"`
	Alias    string `gorm:"size:100;index" json:"alias"`
	ParentID int64  `gorm:"index;default:0" json:"parent_id"`
}

func (Category) TableName() string {
	return "categories"
}
