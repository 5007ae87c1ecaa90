package dto

// ProductListQuery 商品列表查询参数
type ProductListQuery struct {
	PartnerID  int64  `form:"partner_id"`
	CategoryID int64  `form:"category_id"`
	Keyword    string `form:"keyword"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// UpdateProductReq 后台编辑商品请求（同步管道之外的管理操作）
type UpdateProductReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Hidden      *bool    `json:"hidden"`
	Tags        []string `json:"tags"`
}
