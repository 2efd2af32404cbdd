package repository

import (
	"context"
	"sapaa_backend/internal/model"

	"gorm.io/gorm"
)

type SiteRepository struct {
	DB *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{DB: db}
}

func (r *SiteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.DB.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) FindByID(ctx context.Context, id uint) (*model.Site, error) {
	var site model.Site
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).First(&site, id).Error
	return &site, err
}

// FindWithPagination 按名称或所在县模糊搜索启用的站点
func (r *SiteRepository) FindWithPagination(ctx context.Context, offset, limit int, search string) ([]model.Site, int64, error) {
	var sites []model.Site
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Site{}).Where("is_active = ?", true)
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("name LIKE ? OR county LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&sites).Error
	if err != nil {
		return nil, 0, err
	}
	return sites, total, nil
}

func (r *SiteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Site{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
