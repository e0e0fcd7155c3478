package repository

import (
	"context"
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

type MotivationRepository struct {
	DB *gorm.DB
}

func NewMotivationRepository(db *gorm.DB) *MotivationRepository {
	return &MotivationRepository{DB: db}
}

func (r *MotivationRepository) enabled(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.Motivation{}).Where("is_enabled = ?", true)
}

// ForDay 按计划天数在启用的短句中轮换，没有启用的短句时返回 nil
func (r *MotivationRepository) ForDay(ctx context.Context, day int) (*model.Motivation, error) {
	var n int64
	if err := r.enabled(ctx).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if day < 1 {
		day = 1
	}

	var m model.Motivation
	err := r.enabled(ctx).Order("id ASC").Offset(int((int64(day) - 1) % n)).Limit(1).Take(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
