package repository

import (
	"context"
	"sapaa_backend/internal/model"

	"gorm.io/gorm"
)

type AttachmentRepository struct {
	DB *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) FindByObjectKey(ctx context.Context, key string) (*model.Attachment, error) {
	var a model.Attachment
	err := r.DB.WithContext(ctx).Where("object_key = ?", key).First(&a).Error
	return &a, err
}

// ListForDraft 某用户在某站点某题目下上传的文件
func (r *AttachmentRepository) ListForDraft(ctx context.Context, userID, siteID, questionID uint) ([]model.Attachment, error) {
	var list []model.Attachment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND site_id = ? AND question_id = ?", userID, siteID, questionID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
