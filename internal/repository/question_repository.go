package repository

import (
	"context"
	"sapaa_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListActive 按 id 升序返回所有启用的题目，表单排序依赖该顺序做稳定排序
func (r *QuestionRepository) ListActive(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.WithContext(ctx).First(&question, id).Error
	return &question, err
}

// FindRouting 只取路由标志列
func (r *QuestionRepository) FindRouting(ctx context.Context, ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.WithContext(ctx).
		Select("id", "obs_value", "obs_comm").
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, err
}
