package repository

import (
	"context"
	"learnpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// PerformanceRepository 读取用户近期的课时、测验与挑战表现
type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

func (r *PerformanceRepository) lessonPerformanceQuery(ctx context.Context, userID uint) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("lesson_completions AS lc").
		Select("lc.lesson_id, lc.xp_earned, lc.hints_used, lc.time_spent_seconds, "+
			"l.xp_reward AS max_xp, l.difficulty, l.estimated_minutes AS expected_minutes").
		Joins("JOIN lessons AS l ON l.id = lc.lesson_id").
		Where("lc.user_id = ? AND lc.deleted_at IS NULL", userID)
}

// RecentLessons 最近 limit 条课时完成记录，新的在前
func (r *PerformanceRepository) RecentLessons(ctx context.Context, userID uint, limit int) ([]model.LessonPerformance, error) {
	var rows []model.LessonPerformance
	err := r.lessonPerformanceQuery(ctx, userID).
		Order("lc.completed_at DESC, lc.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *PerformanceRepository) LessonsSince(ctx context.Context, userID uint, since time.Time) ([]model.LessonPerformance, error) {
	var rows []model.LessonPerformance
	err := r.lessonPerformanceQuery(ctx, userID).
		Where("lc.completed_at >= ?", since).
		Order("lc.completed_at DESC, lc.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *PerformanceRepository) RecentQuizAnswers(ctx context.Context, userID uint, limit int) ([]model.QuizAnswer, error) {
	var answers []model.QuizAnswer
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("answered_at DESC, id DESC").
		Limit(limit).
		Find(&answers).Error
	return answers, err
}

func (r *PerformanceRepository) QuizAnswersSince(ctx context.Context, userID uint, since time.Time) ([]model.QuizAnswer, error) {
	var answers []model.QuizAnswer
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND answered_at >= ?", userID, since).
		Find(&answers).Error
	return answers, err
}

func (r *PerformanceRepository) RecentChallengeSubmissions(ctx context.Context, userID uint, limit int) ([]model.ChallengeSubmission, error) {
	var subs []model.ChallengeSubmission
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC, id DESC").
		Limit(limit).
		Find(&subs).Error
	return subs, err
}

func (r *PerformanceRepository) ChallengeSubmissionsSince(ctx context.Context, userID uint, since time.Time) ([]model.ChallengeSubmission, error) {
	var subs []model.ChallengeSubmission
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Find(&subs).Error
	return subs, err
}

// LastActivityAt 最近一次课时完成、测验作答或挑战提交的时间，没有记录时返回零值
func (r *PerformanceRepository) LastActivityAt(ctx context.Context, userID uint) (time.Time, error) {
	sources := []struct {
		table  interface{}
		column string
	}{
		{&model.LessonCompletion{}, "completed_at"},
		{&model.QuizAnswer{}, "answered_at"},
		{&model.ChallengeSubmission{}, "submitted_at"},
	}

	var latest time.Time
	for _, s := range sources {
		// MAX() 在 sqlite 下返回字符串，按列排序取第一条
		var ts []time.Time
		err := r.DB.WithContext(ctx).Model(s.table).
			Where("user_id = ?", userID).
			Order(s.column+" DESC").
			Limit(1).
			Pluck(s.column, &ts).Error
		if err != nil {
			return time.Time{}, err
		}
		if len(ts) > 0 && ts[0].After(latest) {
			latest = ts[0]
		}
	}
	return latest, nil
}
