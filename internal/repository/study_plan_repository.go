package repository

import (
	"context"
	"learnpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type StudyPlanRepository struct {
	DB *gorm.DB
}

func NewStudyPlanRepository(db *gorm.DB) *StudyPlanRepository {
	return &StudyPlanRepository{DB: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("day_number ASC, position ASC")
}

// ReplaceActive 在同一事务内暂停用户现有的 ACTIVE 计划并创建新计划（含条目）
func (r *StudyPlanRepository) ReplaceActive(ctx context.Context, plan *model.StudyPlan) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pauseActive(tx, plan.UserID, ""); err != nil {
			return err
		}
		return tx.Create(plan).Error
	})
}

func pauseActive(tx *gorm.DB, userID uint, exceptID string) error {
	q := tx.Model(&model.StudyPlan{}).Where("user_id = ? AND status = ?", userID, model.PlanActive)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("status", model.PlanPaused).Error
}

func (r *StudyPlanRepository) FindActive(ctx context.Context, userID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ? AND status = ?", userID, model.PlanActive).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *StudyPlanRepository) FindByID(ctx context.Context, id string) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.DB.WithContext(ctx).Preload("Items", orderedItems).Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *StudyPlanRepository) FindItemByID(ctx context.Context, id string) (*model.StudyPlanItem, error) {
	var item model.StudyPlanItem
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *StudyPlanRepository) CompleteItem(ctx context.Context, id string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.StudyPlanItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		}).Error
}

func (r *StudyPlanRepository) CountIncomplete(ctx context.Context, planID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.StudyPlanItem{}).
		Where("plan_id = ? AND completed = ?", planID, false).
		Count(&n).Error
	return n, err
}

// UpdatePlan 更新计划字段；重新激活时先暂停该用户其他 ACTIVE 计划
func (r *StudyPlanRepository) UpdatePlan(ctx context.Context, plan *model.StudyPlan, updates map[string]interface{}) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if status, ok := updates["status"]; ok && status == model.PlanActive {
			if err := pauseActive(tx, plan.UserID, plan.ID); err != nil {
				return err
			}
		}
		return tx.Model(&model.StudyPlan{}).Where("id = ?", plan.ID).Updates(updates).Error
	})
}
