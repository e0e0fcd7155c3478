package service

import (
	"context"
	"errors"
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minDailyMinutes = 5
	maxDailyMinutes = 600
)

type GeneratePlanRequest struct {
	CareerPathID *uint `json:"careerPathId"`
	DailyMinutes *int  `json:"dailyMinutes"`
}

type UpdatePlanRequest struct {
	Status       *model.PlanStatus `json:"status"`
	DailyMinutes *int              `json:"dailyMinutes"`
}

// TodayPlan 今日计划
type TodayPlan struct {
	PlanID              string                `json:"planId"`
	DayNumber           int                   `json:"dayNumber"`
	Items               []model.StudyPlanItem `json:"items"`
	MotivationalMessage string                `json:"motivationalMessage"`
}

type StudyPlanService struct {
	PlanRepo           *repository.StudyPlanRepository
	ProfileRepo        *repository.LearningProfileRepository
	CareerPathRepo     *repository.CareerPathRepository
	CourseRepo         *repository.CourseRepository
	RecommendationRepo *repository.RecommendationRepository
	LearningLogRepo    *repository.LearningLogRepository
	UserRepo           *repository.UserRepository
	MotivationRepo     *repository.MotivationRepository
	cfg                config.PlanConfig
	now                func() time.Time
}

func NewStudyPlanService(
	planRepo *repository.StudyPlanRepository,
	profileRepo *repository.LearningProfileRepository,
	careerPathRepo *repository.CareerPathRepository,
	courseRepo *repository.CourseRepository,
	recommendationRepo *repository.RecommendationRepository,
	learningLogRepo *repository.LearningLogRepository,
	userRepo *repository.UserRepository,
	motivationRepo *repository.MotivationRepository,
	cfg config.PlanConfig,
) *StudyPlanService {
	return &StudyPlanService{
		PlanRepo:           planRepo,
		ProfileRepo:        profileRepo,
		CareerPathRepo:     careerPathRepo,
		CourseRepo:         courseRepo,
		RecommendationRepo: recommendationRepo,
		LearningLogRepo:    learningLogRepo,
		UserRepo:           userRepo,
		MotivationRepo:     motivationRepo,
		cfg:                cfg,
		now:                time.Now,
	}
}

func validDailyMinutes(m int) bool {
	return m >= minDailyMinutes && m <= maxDailyMinutes
}

// Generate 为用户生成新计划，已有 ACTIVE 计划会在同一事务中被暂停
func (s *StudyPlanService) Generate(ctx context.Context, userID uint, req GeneratePlanRequest) (*model.StudyPlan, error) {
	if req.DailyMinutes != nil && !validDailyMinutes(*req.DailyMinutes) {
		return nil, util.ErrInvalidDailyMinutes
	}

	// 1. 读取画像并确定路径
	profile, err := s.ProfileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProfileRequired
	}
	if err != nil {
		return nil, fmt.Errorf("load learning profile: %w", err)
	}

	now := s.now()
	var pathID uint
	if req.CareerPathID != nil {
		pathID = *req.CareerPathID
	} else if pathID, err = resolveActivePathID(ctx, profile, s.RecommendationRepo, now); err != nil {
		return nil, err
	}

	path, err := s.CareerPathRepo.FindByID(ctx, pathID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCareerPathNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load career path: %w", err)
	}

	// 2. 每日时长：请求参数 > 画像作息 > 默认值
	daily := s.cfg.DefaultDailyMinutes
	if req.DailyMinutes != nil {
		daily = *req.DailyMinutes
	} else if routine := RoutineMinutes(profile.DailyRoutine); routine > 0 {
		daily = routine
	}

	// 3. 收集未完成课时并排期
	lessons, err := s.pendingLessons(ctx, userID, path)
	if err != nil {
		return nil, err
	}
	days := BuildPlanDays(lessons, daily, LayoutFromConfig(s.cfg))

	plan := &model.StudyPlan{
		UserID:       userID,
		CareerPathID: path.ID,
		Status:       model.PlanActive,
		DailyMinutes: daily,
		StartDate:    startOfDay(now),
		TotalDays:    len(days),
		Items:        ToPlanItems(days),
	}
	if err := s.PlanRepo.ReplaceActive(ctx, plan); err != nil {
		return nil, fmt.Errorf("save study plan: %w", err)
	}

	if profile.ActiveCareerPathID == nil || *profile.ActiveCareerPathID != path.ID {
		if err := s.ProfileRepo.SetActiveCareerPath(ctx, userID, path.ID); err != nil {
			logger.Log.Error("设置当前职业路径失败", zap.Uint("userId", userID), zap.Uint("careerPathId", path.ID), zap.Error(err))
		}
	}

	logger.Log.Info("学习计划已生成",
		zap.Uint("userId", userID),
		zap.String("planId", plan.ID),
		zap.Int("lessons", len(lessons)),
		zap.Int("days", plan.TotalDays))
	return plan, nil
}

func (s *StudyPlanService) pendingLessons(ctx context.Context, userID uint, path *model.CareerPath) ([]PlanLesson, error) {
	courseIDs := nodeCourseIDs(path.Nodes)
	lessons, err := s.CourseRepo.PublishedLessons(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("load path lessons: %w", err)
	}
	completed, err := s.CourseRepo.CompletedLessonIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completed lessons: %w", err)
	}
	courses, err := s.CourseRepo.FindCoursesByIDs(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("load path courses: %w", err)
	}
	titles := make(map[uint]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	return pendingPathLessons(path.Nodes, groupLessonsByCourse(lessons), completed, titles), nil
}

// GetActive 没有 ACTIVE 计划时返回 nil, nil
func (s *StudyPlanService) GetActive(ctx context.Context, userID uint) (*model.StudyPlan, error) {
	plan, err := s.PlanRepo.FindActive(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load active plan: %w", err)
	}
	return plan, nil
}

// DayNumber 计划开始当天为第 1 天
func DayNumber(start, now time.Time) int {
	return util.DaysBetween(start, now) + 1
}

func (s *StudyPlanService) GetToday(ctx context.Context, userID uint) (*TodayPlan, error) {
	plan, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, util.ErrPlanNotFound
	}

	day := DayNumber(plan.StartDate, s.now())
	items := make([]model.StudyPlanItem, 0)
	for _, item := range plan.Items {
		if item.DayNumber == day {
			items = append(items, item)
		}
	}

	return &TodayPlan{
		PlanID:              plan.ID,
		DayNumber:           day,
		Items:               items,
		MotivationalMessage: s.motivationalMessage(ctx, day, items),
	}, nil
}

// motivationalMessage 根据当天条目给出寄语，没有特别情况时从激励短句中轮换
func (s *StudyPlanService) motivationalMessage(ctx context.Context, day int, items []model.StudyPlanItem) string {
	allDone := len(items) > 0
	hasMilestone := false
	for _, item := range items {
		switch item.Type {
		case model.PlanItemRest:
			return "Rest day! Take a break and let what you've learned sink in."
		case model.PlanItemMilestone:
			hasMilestone = true
		}
		if !item.Completed {
			allDone = false
		}
	}
	switch {
	case allDone:
		return "All done for today. Great work!"
	case hasMilestone:
		return "A milestone is within reach today. Finish strong!"
	}

	m, err := s.MotivationRepo.ForDay(ctx, day)
	if err != nil {
		logger.Log.Error("读取激励短句失败", zap.Error(err))
	}
	if m == nil {
		return "Every lesson brings you closer to your goal."
	}
	return m.Content
}

// CompleteItem 标记条目完成；日志与 XP 奖励失败只记录不返回
func (s *StudyPlanService) CompleteItem(ctx context.Context, userID uint, itemID string) (*model.StudyPlanItem, error) {
	item, err := s.PlanRepo.FindItemByID(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load plan item: %w", err)
	}
	plan, err := s.ownedPlan(ctx, userID, item.PlanID)
	if err != nil {
		return nil, err
	}
	if item.Completed {
		return item, nil
	}

	now := s.now()
	if err := s.PlanRepo.CompleteItem(ctx, item.ID, now); err != nil {
		return nil, fmt.Errorf("complete plan item: %w", err)
	}
	item.Completed = true
	item.CompletedAt = &now

	s.recordCompletion(ctx, userID, item)

	remaining, err := s.PlanRepo.CountIncomplete(ctx, plan.ID)
	if err != nil {
		logger.Log.Error("统计未完成条目失败", zap.String("planId", plan.ID), zap.Error(err))
	} else if remaining == 0 {
		err := s.PlanRepo.UpdatePlan(ctx, plan, map[string]interface{}{"status": model.PlanCompleted})
		if err != nil {
			logger.Log.Error("更新计划为已完成失败", zap.String("planId", plan.ID), zap.Error(err))
		}
	}
	return item, nil
}

func (s *StudyPlanService) recordCompletion(ctx context.Context, userID uint, item *model.StudyPlanItem) {
	err := s.LearningLogRepo.Create(ctx, &model.LearningLog{
		UserID:    userID,
		Activity:  model.ActivityPlanItemComplete,
		Content:   item.Title,
		RefID:     item.ID,
		Duration:  item.EstimatedMinutes,
		Completed: true,
	})
	if err != nil {
		logger.Log.Error("记录学习日志失败", zap.Uint("userId", userID), zap.String("itemId", item.ID), zap.Error(err))
	}

	if item.Type != model.PlanItemMilestone {
		return
	}
	if err := s.UserRepo.UpdateXP(ctx, userID, s.cfg.MilestoneXP); err != nil {
		logger.Log.Error("发放里程碑经验失败", zap.Uint("userId", userID), zap.String("itemId", item.ID), zap.Error(err))
		return
	}
	err = s.LearningLogRepo.Create(ctx, &model.LearningLog{
		UserID:    userID,
		Activity:  model.ActivityMilestoneReward,
		Content:   item.Title,
		RefID:     item.ID,
		Completed: true,
		Score:     s.cfg.MilestoneXP,
	})
	if err != nil {
		logger.Log.Error("记录里程碑奖励日志失败", zap.Uint("userId", userID), zap.Error(err))
	}
}

// Update 修改状态或每日时长；修改时长只更新存储值，不重新排期
func (s *StudyPlanService) Update(ctx context.Context, userID uint, planID string, req UpdatePlanRequest) (*model.StudyPlan, error) {
	updates := make(map[string]interface{})
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, util.ErrInvalidPlanStatus
		}
		updates["status"] = *req.Status
	}
	if req.DailyMinutes != nil {
		if !validDailyMinutes(*req.DailyMinutes) {
			return nil, util.ErrInvalidDailyMinutes
		}
		updates["daily_minutes"] = *req.DailyMinutes
	}

	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return plan, nil
	}
	if err := s.PlanRepo.UpdatePlan(ctx, plan, updates); err != nil {
		return nil, fmt.Errorf("update study plan: %w", err)
	}
	return s.ownedPlan(ctx, userID, planID)
}

func (s *StudyPlanService) ownedPlan(ctx context.Context, userID uint, planID string) (*model.StudyPlan, error) {
	plan, err := s.PlanRepo.FindByID(ctx, planID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load study plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return plan, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
