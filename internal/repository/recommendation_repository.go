package repository

import (
	"context"
	"learnpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

// DeleteStale 删除用户已过期的记录以及仍待处理（将被新一轮评分替代）的记录，
// 已接受/已忽略且未过期的记录保留
func (r *RecommendationRepository) DeleteStale(ctx context.Context, userID uint, target model.RecommendationTarget, now time.Time) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND target_type = ?", userID, target).
		Where("expires_at <= ? OR status = ?", now, model.RecommendationPending).
		Delete(&model.Recommendation{}).Error
}

func (r *RecommendationRepository) CreateBatch(ctx context.Context, recs []model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&recs).Error
}

// ListActive 返回未过期且未被忽略的推荐，按排名升序
func (r *RecommendationRepository) ListActive(ctx context.Context, userID uint, target model.RecommendationTarget, now time.Time) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND target_type = ?", userID, target).
		Where("expires_at > ? AND status <> ?", now, model.RecommendationDismissed).
		Order("`rank` ASC").
		Find(&recs).Error
	return recs, err
}

// SettledTargetIDs 未过期且已接受或已忽略的推荐目标，重新评分时不再写入
func (r *RecommendationRepository) SettledTargetIDs(ctx context.Context, userID uint, target model.RecommendationTarget, now time.Time) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Recommendation{}).
		Where("user_id = ? AND target_type = ?", userID, target).
		Where("expires_at > ? AND status <> ?", now, model.RecommendationPending).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	settled := make(map[uint]bool, len(ids))
	for _, id := range ids {
		settled[id] = true
	}
	return settled, nil
}

func (r *RecommendationRepository) FindByID(ctx context.Context, id string) (*model.Recommendation, error) {
	var rec model.Recommendation
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecommendationRepository) UpdateStatus(ctx context.Context, id string, status model.RecommendationStatus) error {
	return r.DB.WithContext(ctx).Model(&model.Recommendation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// PurgeExpired 清理所有用户的过期推荐，后台任务调用
func (r *RecommendationRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Recommendation{})
	return res.RowsAffected, res.Error
}
