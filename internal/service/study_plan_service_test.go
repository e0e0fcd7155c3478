package service

import (
	"context"
	"errors"
	"testing"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/testutil"
	"learnpath_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPlanPath 两门课各 3 节，第二门以第一门为前置
func seedPlanPath(t *testing.T, e *testEngine) (*model.CareerPath, []model.Lesson) {
	t.Helper()
	c1, l1 := testutil.SeedCourse(t, e.db, "html", model.DifficultyEasy, 3)
	c2, l2 := testutil.SeedCourse(t, e.db, "css", model.DifficultyMedium, 3)
	path := testutil.SeedCareerPath(t, e.db, "frontend", c1, c2)
	return path, append(l1, l2...)
}

func TestGeneratePlanRequiresProfile(t *testing.T) {
	e := newTestEngine(t)
	user := testutil.SeedUser(t, e.db, "nobody")

	_, err := e.plans.Generate(context.Background(), user.ID, GeneratePlanRequest{})
	assert.True(t, errors.Is(err, util.ErrProfileRequired))
}

func TestGeneratePlanWithoutActivePath(t *testing.T) {
	e := newTestEngine(t)
	user := testutil.SeedUser(t, e.db, "undecided")
	testutil.SeedProfile(t, e.db, user.ID, 0.4)

	_, err := e.plans.Generate(context.Background(), user.ID, GeneratePlanRequest{})
	assert.True(t, errors.Is(err, util.ErrNoActivePath))
}

func TestGeneratePlanValidatesDailyMinutes(t *testing.T) {
	e := newTestEngine(t)
	user := testutil.SeedUser(t, e.db, "hasty")
	testutil.SeedProfile(t, e.db, user.ID, 0.4)

	for _, m := range []int{0, 4, 601} {
		_, err := e.plans.Generate(context.Background(), user.ID, GeneratePlanRequest{DailyMinutes: intPtr(m)})
		assert.True(t, errors.Is(err, util.ErrInvalidDailyMinutes), "minutes %d", m)
	}
}

func TestGeneratePlanUnknownPath(t *testing.T) {
	e := newTestEngine(t)
	user := testutil.SeedUser(t, e.db, "lost")
	testutil.SeedProfile(t, e.db, user.ID, 0.4)

	missing := uint(404)
	_, err := e.plans.Generate(context.Background(), user.ID, GeneratePlanRequest{CareerPathID: &missing})
	assert.True(t, errors.Is(err, util.ErrCareerPathNotFound))
}

func TestGeneratePlanSkipsCompletedLessons(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, e.db, "margaret")
	testutil.SeedProfile(t, e.db, user.ID, 0.4)
	path, lessons := seedPlanPath(t, e)
	testutil.CompleteLesson(t, e.db, user.ID, lessons[0], e.now)

	plan, err := e.plans.Generate(ctx, user.ID, GeneratePlanRequest{CareerPathID: &path.ID})
	require.NoError(t, err)

	assert.Equal(t, model.PlanActive, plan.Status)
	assert.Equal(t, path.ID, plan.CareerPathID)
	assert.Equal(t, 30, plan.DailyMinutes)
	assert.NotEmpty(t, plan.ID)

	var learnIDs []uint
	for _, item := range plan.Items {
		assert.Equal(t, plan.ID, item.PlanID)
		if item.Type == model.PlanItemLearn {
			learnIDs = append(learnIDs, *item.LessonID)
		}
	}
	require.Len(t, learnIDs, 5)
	assert.NotContains(t, learnIDs, lessons[0].ID)
	assert.Equal(t, lessons[1].ID, learnIDs[0])
	// 30 分钟每天一节，第 5 天另有复习
	assert.Equal(t, 5, plan.TotalDays)

	profile, err := e.svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.ActiveCareerPathID)
	assert.Equal(t, path.ID, *profile.ActiveCareerPathID)
}

func TestGeneratePlanUsesDailyRoutine(t *testing.T) {
	e := newTestEngine(t)
	user := testutil.SeedUser(t, e.db, "routine")
	profile := testutil.SeedProfile(t, e.db, user.ID, 0.4)
	require.NoError(t, e.db.Model(profile).Update("daily_routine", "regular").Error)
	path, _ := seedPlanPath(t, e)

	plan, err := e.plans.Generate(context.Background(), user.ID, GeneratePlanRequest{CareerPathID: &path.ID})
	require.NoError(t, err)
	assert.Equal(t, 60, plan.DailyMinutes)
	assert.Equal(t, 2, plan.TotalDays)
}

func TestGeneratePlanPausesPreviousPlan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, e.db, "twice")
	testutil.SeedProfile(t, e.db, user.ID, 0.4)
	path, _ := seedPlanPath(t, e)

	first, err := e.plans.Generate(ctx, user.ID, GeneratePlanRequest{CareerPathID: &path.ID})
	require.NoError(t, err)
	// 第二次不指定路径，使用画像上的当前路径
	second, err := e.plans.Generate(ctx, user.ID, GeneratePlanRequest{DailyMinutes: intPtr(120)})
	require.NoError(t, err)
	assert.Equal(t, path.ID, second.CareerPathID)

	active, err := e.plans.GetActive(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	old, err := e.plans.PlanRepo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPaused, old.Status)
}

func TestGetActiveWithoutPlan(t *testing.T) {
	e := newTestEngine(t)
	plan, err := e.plans.GetActive(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, plan)

	_, err = e.plans.GetToday(context.Background(), 7)
	assert.True(t, errors.Is(err, util.ErrPlanNotFound))
}

// seedManualPlan 直接写入一个两条目的计划：一节课与一个里程碑
func seedManualPlan(t *testing.T, e *testEngine, userID uint) *model.StudyPlan {
	t.Helper()
	plan := &model.StudyPlan{
		UserID:       userID,
		Status:       model.PlanActive,
		DailyMinutes: 30,
		StartDate:    startOfDay(e.now),
		TotalDays:    1,
		Items: []model.StudyPlanItem{
			{DayNumber: 1, Position: 0, Type: model.PlanItemLearn, Title: "Variables", EstimatedMinutes: 20},
			{DayNumber: 1, Position: 1, Type: model.PlanItemMilestone, Title: "Milestone: 10 lessons completed"},
			{DayNumber: 2, Position: 0, Type: model.PlanItemRest, Title: "Rest day"},
		},
	}
	require.NoError(t, e.plans.PlanRepo.ReplaceActive(context.Background(), plan))
	return plan
}

func TestGetTodayMessages(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, e.db, "daily")
	plan := seedManualPlan(t, e, user.ID)

	today, err := e.plans.GetToday(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, today.PlanID)
	assert.Equal(t, 1, today.DayNumber)
	require.Len(t, today.Items, 2)
	assert.Contains(t, today.MotivationalMessage, "milestone")

	e.now = e.now.AddDate(0, 0, 1)
	today, err = e.plans.GetToday(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, today.DayNumber)
	assert.Contains(t, today.MotivationalMessage, "Rest day")

	e.now = e.now.AddDate(0, 0, 5)
	today, err = e.plans.GetToday(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, today.Items)
	assert.Equal(t, "Every lesson brings you closer to your goal.", today.MotivationalMessage)

	require.NoError(t, e.db.Create(&model.Motivation{Content: "Keep going", IsEnabled: true}).Error)
	today, err = e.plans.GetToday(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep going", today.MotivationalMessage)
}

func TestCompleteItemAwardsMilestoneAndFinishesPlan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, e.db, "finisher")
	plan := seedManualPlan(t, e, user.ID)

	for _, item := range plan.Items {
		done, err := e.plans.CompleteItem(ctx, user.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, done.Completed)
		assert.NotNil(t, done.CompletedAt)
	}

	// 重复完成不再记录
	_, err := e.plans.CompleteItem(ctx, user.ID, plan.Items[1].ID)
	require.NoError(t, err)

	var u model.User
	require.NoError(t, e.db.First(&u, user.ID).Error)
	assert.Equal(t, 50, u.XP)

	var completions, rewards int64
	require.NoError(t, e.db.Model(&model.LearningLog{}).Where("activity = ?", model.ActivityPlanItemComplete).Count(&completions).Error)
	require.NoError(t, e.db.Model(&model.LearningLog{}).Where("activity = ?", model.ActivityMilestoneReward).Count(&rewards).Error)
	assert.Equal(t, int64(3), completions)
	assert.Equal(t, int64(1), rewards)

	saved, err := e.plans.PlanRepo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanCompleted, saved.Status)

	today, err := e.plans.GetToday(ctx, user.ID)
	assert.True(t, errors.Is(err, util.ErrPlanNotFound), "completed plan is no longer active")
	assert.Nil(t, today)
}

func TestCompleteItemOwnership(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, e.db, "owner")
	other := testutil.SeedUser(t, e.db, "other")
	plan := seedManualPlan(t, e, owner.ID)

	_, err := e.plans.CompleteItem(ctx, other.ID, plan.Items[0].ID)
	assert.True(t, errors.Is(err, util.ErrPermissionDenied))

	_, err = e.plans.CompleteItem(ctx, owner.ID, "missing")
	assert.True(t, errors.Is(err, util.ErrPlanItemNotFound))
}

func TestUpdatePlan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, e.db, "editor")
	first := seedManualPlan(t, e, user.ID)
	second := seedManualPlan(t, e, user.ID)

	bad := model.PlanStatus("DONE")
	_, err := e.plans.Update(ctx, user.ID, second.ID, UpdatePlanRequest{Status: &bad})
	assert.True(t, errors.Is(err, util.ErrInvalidPlanStatus))

	_, err = e.plans.Update(ctx, user.ID, second.ID, UpdatePlanRequest{DailyMinutes: intPtr(1000)})
	assert.True(t, errors.Is(err, util.ErrInvalidDailyMinutes))

	updated, err := e.plans.Update(ctx, user.ID, second.ID, UpdatePlanRequest{DailyMinutes: intPtr(45)})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DailyMinutes)
	assert.Len(t, updated.Items, 3, "changing minutes does not rebuild the schedule")

	// 重新激活旧计划会暂停当前计划
	active := model.PlanActive
	reactivated, err := e.plans.Update(ctx, user.ID, first.ID, UpdatePlanRequest{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, model.PlanActive, reactivated.Status)

	current, err := e.plans.GetActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	paused, err := e.plans.PlanRepo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPaused, paused.Status)

	other := testutil.SeedUser(t, e.db, "intruder")
	_, err = e.plans.Update(ctx, other.ID, first.ID, UpdatePlanRequest{Status: &active})
	assert.True(t, errors.Is(err, util.ErrPermissionDenied))

	_, err = e.plans.Update(ctx, user.ID, "missing", UpdatePlanRequest{})
	assert.True(t, errors.Is(err, util.ErrPlanNotFound))
}
