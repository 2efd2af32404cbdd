package repository

import (
	"context"
	"sapaa_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

const observationBatchSize = 100

type InspectionRepository struct {
	DB *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{DB: db}
}

// Transaction 在同一事务内执行 fn，fn 返回错误时整体回滚
func (r *InspectionRepository) Transaction(ctx context.Context, fn func(tx *InspectionRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&InspectionRepository{DB: tx})
	})
}

func (r *InspectionRepository) CreateReport(ctx context.Context, report *model.InspectionReport) error {
	return r.DB.WithContext(ctx).Omit("Observations", "Site", "User").Create(report).Error
}

func (r *InspectionRepository) CreateObservations(ctx context.Context, rows []model.Observation) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(rows, observationBatchSize).Error
}

func (r *InspectionRepository) FindReport(ctx context.Context, id uint) (*model.InspectionReport, error) {
	var report model.InspectionReport
	err := r.DB.WithContext(ctx).
		Preload("Site").
		Preload("User").
		Preload("Observations", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_id ASC, id ASC")
		}).
		First(&report, id).Error
	return &report, err
}

func (r *InspectionRepository) ListBySite(ctx context.Context, siteID uint, offset, limit int) ([]model.InspectionReport, int64, error) {
	var reports []model.InspectionReport
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.InspectionReport{}).Where("site_id = ?", siteID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 列表对所有登录用户可见，不带出提交人邮箱
	err := query.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "role")
	}).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *InspectionRepository) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.InspectionReport{}).Count(&count).Error
	return count, err
}

func (r *InspectionRepository) CountObservations(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Observation{}).Count(&count).Error
	return count, err
}

type SiteReportCount struct {
	SiteID   uint   `json:"siteId"`
	SiteName string `json:"siteName"`
	Reports  int64  `json:"reports"`
}

// TopSites 巡查次数最多的站点
func (r *InspectionRepository) TopSites(ctx context.Context, limit int) ([]SiteReportCount, error) {
	var out []SiteReportCount
	err := r.DB.WithContext(ctx).
		Table("inspection_reports").
		Select("inspection_reports.site_id AS site_id, sites.name AS site_name, COUNT(*) AS reports").
		Joins("JOIN sites ON sites.id = inspection_reports.site_id").
		Where("inspection_reports.deleted_at IS NULL").
		Group("inspection_reports.site_id, sites.name").
		Order("reports DESC, inspection_reports.site_id ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// ReportTimesSince 只取创建时间，按月分桶在 service 层完成，避免依赖数据库的日期函数
func (r *InspectionRepository) ReportTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.WithContext(ctx).
		Model(&model.InspectionReport{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	return times, err
}

type AnswerCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// AnswerDistribution 统计某题目 obs_value 各取值出现次数
func (r *InspectionRepository) AnswerDistribution(ctx context.Context, questionID uint) ([]AnswerCount, error) {
	var out []AnswerCount
	err := r.DB.WithContext(ctx).
		Model(&model.Observation{}).
		Select("obs_value AS value, COUNT(*) AS count").
		Where("question_id = ? AND obs_value IS NOT NULL", questionID).
		Group("obs_value").
		Order("count DESC, value ASC").
		Scan(&out).Error
	return out, err
}
