package repository

import (
	"context"
	"learnpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

// NewCheckinRepository 创建新的签到仓库实例
func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

// FindLatestByUser 获取用户最近的签到记录
func (r *CheckinRepository) FindLatestByUser(ctx context.Context, userID uint) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("checkin_at DESC").First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

// CurrentStreak 最近一次签到在今天或昨天时返回其连续天数，否则连续记录已中断返回 0
func (r *CheckinRepository) CurrentStreak(ctx context.Context, userID uint, now time.Time) (int, error) {
	latest, err := r.FindLatestByUser(ctx, userID)
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return streakAsOf(latest, now), nil
}

// CurrentStreaks 批量版本，缺失的用户不出现在结果中
func (r *CheckinRepository) CurrentStreaks(ctx context.Context, userIDs []uint, now time.Time) (map[uint]int, error) {
	streaks := make(map[uint]int, len(userIDs))
	if len(userIDs) == 0 {
		return streaks, nil
	}

	var checkins []model.Checkin
	err := r.DB.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where("checkin_at >= ?", startOfDay(now).AddDate(0, 0, -1)).
		Order("checkin_at ASC").
		Find(&checkins).Error
	if err != nil {
		return nil, err
	}

	// 升序遍历，保留每个用户最新的一条
	for i := range checkins {
		streaks[checkins[i].UserID] = streakAsOf(&checkins[i], now)
	}
	return streaks, nil
}

func streakAsOf(c *model.Checkin, now time.Time) int {
	if c.CheckinAt.Before(startOfDay(now).AddDate(0, 0, -1)) {
		return 0
	}
	return c.StreakDays
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
