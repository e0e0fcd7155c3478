package repository

import (
	"context"
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

type LearningLogRepository struct {
	DB *gorm.DB
}

func NewLearningLogRepository(db *gorm.DB) *LearningLogRepository {
	return &LearningLogRepository{DB: db}
}

func (r *LearningLogRepository) Create(ctx context.Context, log *model.LearningLog) error {
	return r.DB.WithContext(ctx).Create(log).Error
}

func (r *LearningLogRepository) ListByRef(ctx context.Context, refID string) ([]model.LearningLog, error) {
	var logs []model.LearningLog
	err := r.DB.WithContext(ctx).Where("ref_id = ?", refID).Order("id ASC").Find(&logs).Error
	return logs, err
}
