package repository

import (
	"context"

	"gorm.io/gorm"

	"shopcore_api/internal/model"
)

// ==================== 接口定义 ====================

// PartnerRepository 合作方仓储接口
type PartnerRepository interface {
	Create(ctx context.Context, partner *model.Partner) error
	GetByID(ctx context.Context, id int64) (*model.Partner, error)
	List(ctx context.Context) ([]model.Partner, error)
	Update(ctx context.Context, partner *model.Partner) error
	Delete(ctx context.Context, id int64) error
}

// ==================== 仓储实现 ====================

type partnerRepo struct {
	db *gorm.DB
}

// NewPartnerRepository 创建合作方仓储
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepo{db: db}
}

func (r *partnerRepo) Create(ctx context.Context, partner *model.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *partnerRepo) GetByID(ctx context.Context, id int64) (*model.Partner, error) {
	var partner model.Partner
	err := r.db.WithContext(ctx).First(&partner, id).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepo) List(ctx context.Context) ([]model.Partner, error) {
	var partners []model.Partner
	err := r.db.WithContext(ctx).Order("id ASC").Find(&partners).Error
	return partners, err
}

func (r *partnerRepo) Update(ctx context.Context, partner *model.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

func (r *partnerRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Partner{}, id).Error
}
