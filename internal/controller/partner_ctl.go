package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shopcore_api/internal/api/dto"
	"shopcore_api/internal/model"
	"shopcore_api/internal/repository"
)

// PartnerController 合作方管理控制器
type PartnerController struct {
	partnerRepo repository.PartnerRepository
}

// NewPartnerController 创建合作方控制器
func NewPartnerController(partnerRepo repository.PartnerRepository) *PartnerController {
	return &PartnerController{partnerRepo: partnerRepo}
}

// ==================== Handler 实现 ====================

// GetList 合作方列表
// @Summary 合作方列表
// @Tags Partner
// @Success 200 {object} map[string]interface{}
// @Router /api/partners [get]
func (c *PartnerController) GetList(ctx *gin.Context) {
	partners, err := c.partnerRepo.List(ctx.Request.Context())
	if err != nil {
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "data": partners})
}

// GetDetail 合作方详情
// @Summary 合作方详情
// @Tags Partner
// @Param id path int true "合作方 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/partners/{id} [get]
func (c *PartnerController) GetDetail(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	partner, err := c.partnerRepo.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(404, gin.H{"code": 404, "message": "合作方不存在"})
			return
		}
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "data": partner})
}

// Create 新建合作方
// @Summary 新建合作方
// @Tags Partner
// @Param body body dto.CreatePartnerReq true "合作方信息"
// @Success 200 {object} map[string]interface{}
// @Router /api/partners [post]
func (c *PartnerController) Create(ctx *gin.Context) {
	var req dto.CreatePartnerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	partner := &model.Partner{
		Name:              req.Name,
		ApiURL:            req.ApiURL,
		ApiKey:            req.ApiKey,
		CrmManagerID:      req.CrmManagerID,
		CrmSourceID:       req.CrmSourceID,
		PrepayMethodID:    req.PrepayMethodID,
		PostpayMethodID:   req.PostpayMethodID,
		DeliveryServiceID: req.DeliveryServiceID,
	}

	if err := c.partnerRepo.Create(ctx.Request.Context(), partner); err != nil {
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "data": partner})
}

// Update 更新合作方
// @Summary 更新合作方
// @Tags Partner
// @Param id path int true "合作方 ID"
// @Param body body dto.UpdatePartnerReq true "合作方信息"
// @Success 200 {object} map[string]interface{}
// @Router /api/partners/{id} [put]
func (c *PartnerController) Update(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	var req dto.UpdatePartnerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	partner, err := c.partnerRepo.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(404, gin.H{"code": 404, "message": "合作方不存在"})
			return
		}
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}

	if req.Name != "" {
		partner.Name = req.Name
	}
	if req.ApiURL != "" {
		partner.ApiURL = req.ApiURL
	}
	if req.ApiKey != "" {
		partner.ApiKey = req.ApiKey
	}
	if req.CrmManagerID > 0 {
		partner.CrmManagerID = req.CrmManagerID
	}
	if req.CrmSourceID > 0 {
		partner.CrmSourceID = req.CrmSourceID
	}
	if req.PrepayMethodID > 0 {
		partner.PrepayMethodID = req.PrepayMethodID
	}
	if req.PostpayMethodID > 0 {
		partner.PostpayMethodID = req.PostpayMethodID
	}
	if req.DeliveryServiceID > 0 {
		partner.DeliveryServiceID = req.DeliveryServiceID
	}

	if err := c.partnerRepo.Update(ctx.Request.Context(), partner); err != nil {
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "data": partner})
}

// Delete 删除合作方
// @Summary 删除合作方
// @Tags Partner
// @Param id path int true "合作方 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/partners/{id} [delete]
func (c *PartnerController) Delete(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	if err := c.partnerRepo.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(500, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"code": 200, "message": "已删除"})
}

// ==================== 工具函数 ====================

func parseID(ctx *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(ctx.Param(key), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(400, gin.H{"code": 400, "message": "无效的 ID"})
		return 0
	}
	return id
}
