package repository

import (
	"context"
	"learnpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// SnapshotRepository 为协同过滤批量组装用户快照，按表各查询一次，不随用户数逐个查询
type SnapshotRepository struct {
	DB       *gorm.DB
	users    *UserRepository
	profiles *LearningProfileRepository
	checkins *CheckinRepository
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{
		DB:       db,
		users:    NewUserRepository(db),
		profiles: NewLearningProfileRepository(db),
		checkins: NewCheckinRepository(db),
	}
}

type lessonDifficultyRow struct {
	UserID     uint
	Difficulty model.Difficulty
}

// ActiveSnapshots 返回所有未禁用且已完成引导用户的快照
func (r *SnapshotRepository) ActiveSnapshots(ctx context.Context, now time.Time) ([]model.UserSnapshot, error) {
	users, err := r.users.ListActiveOnboarded(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	profiles, err := r.profiles.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profileByUser := make(map[uint]model.LearningProfile, len(profiles))
	for _, p := range profiles {
		profileByUser[p.UserID] = p
	}

	var enrollments []model.CourseEnrollment
	if err := r.DB.WithContext(ctx).Where("user_id IN ?", ids).Find(&enrollments).Error; err != nil {
		return nil, err
	}

	var difficulties []lessonDifficultyRow
	err = r.DB.WithContext(ctx).
		Table("lesson_completions AS lc").
		Select("lc.user_id, l.difficulty").
		Joins("JOIN lessons AS l ON l.id = lc.lesson_id").
		Where("lc.user_id IN ? AND lc.deleted_at IS NULL", ids).
		Scan(&difficulties).Error
	if err != nil {
		return nil, err
	}

	streaks, err := r.checkins.CurrentStreaks(ctx, ids, now)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*model.UserSnapshot, len(users))
	snapshots := make([]model.UserSnapshot, len(users))
	for i, u := range users {
		s := &snapshots[i]
		s.UserID = u.ID
		s.TotalXP = u.XP
		s.DaysSinceSignup = int(now.Sub(u.CreatedAt).Hours() / 24)
		s.CurrentStreak = streaks[u.ID]
		s.CourseProgress = make(map[uint]float64)
		if p, ok := profileByUser[u.ID]; ok {
			s.DifficultyScore = p.DifficultyScore
			s.InterestTagCount = len(p.SubjectInterests) + len(p.IndustryInterests)
		}
		byUser[u.ID] = s
	}

	for _, e := range enrollments {
		if s, ok := byUser[e.UserID]; ok {
			s.CompletionRatios = append(s.CompletionRatios, e.CompletionRatio)
			s.CourseProgress[e.CourseID] = e.CompletionRatio
		}
	}
	for _, d := range difficulties {
		if s, ok := byUser[d.UserID]; ok {
			s.CompletedLessonDifficulties = append(s.CompletedLessonDifficulties, d.Difficulty)
		}
	}

	return snapshots, nil
}
