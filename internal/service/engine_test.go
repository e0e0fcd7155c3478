package service

import (
	"testing"
	"time"

	"learnpath_backend/internal/config"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/testutil"

	"gorm.io/gorm"
)

// testEngine 基于内存 sqlite 组装完整的推荐服务
type testEngine struct {
	db    *gorm.DB
	svc   *RecommendationService
	plans *StudyPlanService
	now   time.Time
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	db := testutil.DB(t)
	cfg := config.DefaultRecommenderConfig()

	users := repository.NewUserRepository(db)
	profiles := repository.NewLearningProfileRepository(db)
	paths := repository.NewCareerPathRepository(db)
	recs := repository.NewRecommendationRepository(db)
	courses := repository.NewCourseRepository(db)
	performance := repository.NewPerformanceRepository(db)

	plans := NewStudyPlanService(
		repository.NewStudyPlanRepository(db),
		profiles,
		paths,
		courses,
		recs,
		repository.NewLearningLogRepository(db),
		users,
		repository.NewMotivationRepository(db),
		cfg.Plan,
	)
	svc := NewRecommendationService(
		profiles,
		recs,
		paths,
		courses,
		users,
		NewProfileBuilder(profiles),
		NewPathScorer(paths, recs, cfg),
		NewDifficultyCalibrator(profiles, performance, users, cfg.Calibration),
		NewCollaborativeRecommender(repository.NewSnapshotRepository(db), courses, nil, cfg.Collaborative),
		NewEngagementMonitor(users, repository.NewCheckinRepository(db), performance, cfg.Engagement),
		plans,
		cfg,
	)

	e := &testEngine{db: db, svc: svc, plans: plans, now: time.Now()}
	clock := func() time.Time { return e.now }
	svc.now = clock
	plans.now = clock
	return e
}

func intPtr(v int) *int {
	return &v
}
