package repository

import (
	"context"
	"learnpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningProfileRepository struct {
	DB *gorm.DB
}

func NewLearningProfileRepository(db *gorm.DB) *LearningProfileRepository {
	return &LearningProfileRepository{DB: db}
}

func (r *LearningProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.LearningProfile, error) {
	var p model.LearningProfile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert 按 user_id 覆盖评估答案；重新评估会重置难度分
func (r *LearningProfileRepository) Upsert(ctx context.Context, p *model.LearningProfile) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"motivations", "dream_projects", "subject_interests", "personality_type",
			"industry_interests", "work_style", "math_comfort", "daily_routine",
			"time_horizon", "background_level", "content_preference", "context",
			"analytical_score", "difficulty_score", "updated_at",
		}),
	}).Create(p).Error
}

func (r *LearningProfileRepository) UpdateDifficulty(ctx context.Context, userID uint, score float64, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.LearningProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"difficulty_score":   score,
			"last_calibrated_at": at,
		}).Error
}

func (r *LearningProfileRepository) SetActiveCareerPath(ctx context.Context, userID, careerPathID uint) error {
	return r.DB.WithContext(ctx).Model(&model.LearningProfile{}).
		Where("user_id = ?", userID).
		Update("active_career_path_id", careerPathID).Error
}

// FindByUserIDs 批量读取画像，协同过滤快照使用
func (r *LearningProfileRepository) FindByUserIDs(ctx context.Context, userIDs []uint) ([]model.LearningProfile, error) {
	var ps []model.LearningProfile
	if len(userIDs) == 0 {
		return ps, nil
	}
	err := r.DB.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&ps).Error
	return ps, err
}
