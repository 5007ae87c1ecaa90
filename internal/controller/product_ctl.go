package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"shopcore_api/internal/api/dto"
	"shopcore_api/internal/repository"
)

// ProductController 商品后台控制器
type ProductController struct {
	productRepo repository.ProductRepository
}

// NewProductController 创建商品控制器
func NewProductController(productRepo repository.ProductRepository) *ProductController {
	return &ProductController{productRepo: productRepo}
}

// ==================== Handler 实现 ====================

// GetList 商品列表
// @Summary 商品列表 (分页/筛选)
// @Tags Product
// @Param partner_id query int false "合作方 ID"
// @Param category_id query int false "分类 ID"
// @Param keyword query string false "名称关键字"
// @Success 200 {object} map[string]interface{}
// @Router /api/products [get]
func (c *ProductController) GetList(ctx *gin.Context) {
	var query dto.ProductListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	products, total, err := c.productRepo.List(ctx.Request.Context(), repository.ProductFilter{
		PartnerID:  query.PartnerID,
		CategoryID: query.CategoryID,
		Keyword:    query.Keyword,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(200, gin.H{"code": 200, "data": gin.H{
		"items": products,
		"total": total,
	}})
}

// GetDetail 商品详情（含图片与尺码）
// @Summary 商品详情
// @Tags Product
// @Param id path int true "商品 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/products/{id} [get]
func (c *ProductController) GetDetail(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	product, err := c.productRepo.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "data": product})
}

// Update 后台编辑商品
// @Summary 编辑商品 (同步管道外的管理操作)
// @Tags Product
// @Param id path int true "商品 ID"
// @Param body body dto.UpdateProductReq true "商品信息"
// @Success 200 {object} map[string]interface{}
// @Router /api/products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	var req dto.UpdateProductReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Hidden != nil {
		fields["hidden"] = *req.Hidden
	}
	if req.Tags != nil {
		fields["tags"] = pq.StringArray(req.Tags)
	}

	if len(fields) == 0 {
		ctx.JSON(400, gin.H{"code": 400, "message": "没有需要更新的字段"})
		return
	}

	if err := c.productRepo.UpdateFields(ctx.Request.Context(), id, fields); err != nil {
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "message": "已更新"})
}
