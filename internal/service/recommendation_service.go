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
	"learnpath_backend/pkg/tracing"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AssessmentResult 提交评估的返回
type AssessmentResult struct {
	Profile          *model.LearningProfile `json:"profile"`
	RecommendedPaths []ScoredPath           `json:"recommendedPaths"`
	TotalPathsScored int                    `json:"totalPathsScored"`
	Guest            bool                   `json:"guest"`
}

// PathRecommendation 已保存的路径推荐及路径摘要
type PathRecommendation struct {
	ID             string                     `json:"id"`
	CareerPathID   uint                       `json:"careerPathId"`
	Name           string                     `json:"name"`
	Slug           string                     `json:"slug"`
	Industry       string                     `json:"industry"`
	EstimatedHours int                        `json:"estimatedHours"`
	Score          float64                    `json:"score"`
	Rank           int                        `json:"rank"`
	Status         model.RecommendationStatus `json:"status"`
	Breakdown      model.ScoreBreakdown       `json:"breakdown"`
	ExpiresAt      time.Time                  `json:"expiresAt"`
}

// NextLesson 推荐的下一节课
type NextLesson struct {
	LessonID         uint             `json:"lessonId"`
	CourseID         uint             `json:"courseId"`
	NodeID           uint             `json:"nodeId"`
	NodeTitle        string           `json:"nodeTitle"`
	Title            string           `json:"title"`
	Difficulty       model.Difficulty `json:"difficulty"`
	EstimatedMinutes int              `json:"estimatedMinutes"`
	Score            float64          `json:"score"`
}

type NextLessonResult struct {
	CareerPathID           uint             `json:"careerPathId"`
	Lessons                []NextLesson     `json:"lessons"`
	CurrentDifficultyLevel model.Difficulty `json:"currentDifficultyLevel"`
	Stretch                bool             `json:"stretch"`
	NudgeMessage           string           `json:"nudgeMessage,omitempty"`
}

// RecommendationService 组合画像、评分、校准、协同过滤、活跃度与学习计划
type RecommendationService struct {
	ProfileRepo        *repository.LearningProfileRepository
	RecommendationRepo *repository.RecommendationRepository
	CareerPathRepo     *repository.CareerPathRepository
	CourseRepo         *repository.CourseRepository
	UserRepo           *repository.UserRepository

	Profiles      *ProfileBuilder
	Scorer        *PathScorer
	Calibrator    *DifficultyCalibrator
	Collaborative *CollaborativeRecommender
	Engagement    *EngagementMonitor
	Plans         *StudyPlanService

	cfg config.RecommenderConfig
	now func() time.Time
}

func NewRecommendationService(
	profileRepo *repository.LearningProfileRepository,
	recommendationRepo *repository.RecommendationRepository,
	careerPathRepo *repository.CareerPathRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	profiles *ProfileBuilder,
	scorer *PathScorer,
	calibrator *DifficultyCalibrator,
	collaborative *CollaborativeRecommender,
	engagement *EngagementMonitor,
	plans *StudyPlanService,
	cfg config.RecommenderConfig,
) *RecommendationService {
	return &RecommendationService{
		ProfileRepo:        profileRepo,
		RecommendationRepo: recommendationRepo,
		CareerPathRepo:     careerPathRepo,
		CourseRepo:         courseRepo,
		UserRepo:           userRepo,
		Profiles:           profiles,
		Scorer:             scorer,
		Calibrator:         calibrator,
		Collaborative:      collaborative,
		Engagement:         engagement,
		Plans:              plans,
		cfg:                cfg,
		now:                time.Now,
	}
}

func topN(scored []ScoredPath, n int) []ScoredPath {
	if len(scored) < n {
		n = len(scored)
	}
	return scored[:n]
}

// SubmitAssessment 游客只在内存中评分；认证用户保存画像并保存前 N 条推荐
func (s *RecommendationService) SubmitAssessment(ctx context.Context, userID *uint, answers AssessmentAnswers) (*AssessmentResult, error) {
	var uid uint
	if userID != nil {
		uid = *userID
	}
	ctx, span := tracing.StartSpan(ctx, "SubmitAssessment", uid)
	defer span.End()

	if userID == nil {
		profile := s.Profiles.Build(0, answers)
		scored, err := s.Scorer.ScoreAll(ctx, profile)
		if err != nil {
			return nil, err
		}
		return &AssessmentResult{
			Profile:          profile,
			RecommendedPaths: topN(scored, s.cfg.ResponseTopN),
			TotalPathsScored: len(scored),
			Guest:            true,
		}, nil
	}

	profile, err := s.Profiles.Save(ctx, uid, answers)
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.MarkOnboarded(ctx, uid); err != nil {
		logger.Log.Error("标记用户已完成引导失败", zap.Uint("userId", uid), zap.Error(err))
	}

	scored, err := s.Scorer.ScoreAll(ctx, profile)
	if err != nil {
		return nil, err
	}
	candidates, _, err := s.Scorer.Persist(ctx, uid, scored, s.now())
	if err != nil {
		return nil, err
	}

	logger.Log.Info("学前评估已提交", zap.Uint("userId", uid), zap.Int("paths", len(scored)))
	return &AssessmentResult{
		Profile:          profile,
		RecommendedPaths: topN(candidates, s.cfg.ResponseTopN),
		TotalPathsScored: len(scored),
	}, nil
}

func (s *RecommendationService) GetProfile(ctx context.Context, userID uint) (*model.LearningProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load learning profile: %w", err)
	}
	return profile, nil
}

func (s *RecommendationService) requireProfile(ctx context.Context, userID uint) (*model.LearningProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if errors.Is(err, util.ErrProfileNotFound) {
		return nil, util.ErrProfileRequired
	}
	return profile, err
}

// GetRecommendedPaths 有未过期的推荐时直接返回，否则重新评分并保存
func (s *RecommendationService) GetRecommendedPaths(ctx context.Context, userID uint) ([]PathRecommendation, error) {
	ctx, span := tracing.StartSpan(ctx, "GetRecommendedPaths", userID)
	defer span.End()

	now := s.now()
	recs, err := s.RecommendationRepo.ListActive(ctx, userID, model.TargetCareerPath, now)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	if len(recs) == 0 {
		profile, err := s.requireProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		scored, err := s.Scorer.ScoreAll(ctx, profile)
		if err != nil {
			return nil, err
		}
		if _, recs, err = s.Scorer.Persist(ctx, userID, scored, now); err != nil {
			return nil, err
		}
	}
	return s.describeRecommendations(ctx, recs)
}

func (s *RecommendationService) describeRecommendations(ctx context.Context, recs []model.Recommendation) ([]PathRecommendation, error) {
	ids := make([]uint, len(recs))
	for i, r := range recs {
		ids[i] = r.TargetID
	}
	paths, err := s.CareerPathRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load career paths: %w", err)
	}
	byID := make(map[uint]model.CareerPath, len(paths))
	for _, p := range paths {
		byID[p.ID] = p
	}

	out := make([]PathRecommendation, 0, len(recs))
	for _, r := range recs {
		p, ok := byID[r.TargetID]
		if !ok {
			// 路径已下架
			continue
		}
		out = append(out, PathRecommendation{
			ID:             r.ID,
			CareerPathID:   p.ID,
			Name:           p.Name,
			Slug:           p.Slug,
			Industry:       p.Industry,
			EstimatedHours: p.EstimatedHours,
			Score:          r.Score,
			Rank:           r.Rank,
			Status:         r.Status,
			Breakdown:      r.Reasoning.Data(),
			ExpiresAt:      r.ExpiresAt,
		})
	}
	return out, nil
}

// GetNextLesson 在当前路径上找出可学的课时，按难度档位过滤并按活跃度重新排序
func (s *RecommendationService) GetNextLesson(ctx context.Context, userID uint) (*NextLessonResult, error) {
	ctx, span := tracing.StartSpan(ctx, "GetNextLesson", userID)
	defer span.End()

	// 1. 并发读取画像、活跃度信号与已完成课时
	var (
		profile   *model.LearningProfile
		signals   EngagementSignals
		completed map[uint]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.requireProfile(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		signals, err = s.Engagement.Signals(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		completed, err = s.CourseRepo.CompletedLessonIDs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2. 确定当前路径
	pathID, err := resolveActivePathID(ctx, profile, s.RecommendationRepo, s.now())
	if err != nil {
		return nil, err
	}
	path, err := s.CareerPathRepo.FindByID(ctx, pathID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCareerPathNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load career path: %w", err)
	}

	// 3. 找出前置已完成的节点及其未完成课时
	lessons, err := s.CourseRepo.PublishedLessons(ctx, nodeCourseIDs(path.Nodes))
	if err != nil {
		return nil, fmt.Errorf("load path lessons: %w", err)
	}
	byCourse := groupLessonsByCourse(lessons)
	available := AvailableNodes(path.Nodes, CompletedNodes(path.Nodes, byCourse, completed))

	var candidates []NextLesson
	for _, node := range available {
		if node.CourseID == nil {
			continue
		}
		for _, l := range byCourse[*node.CourseID] {
			if completed[l.ID] {
				continue
			}
			candidates = append(candidates, NextLesson{
				LessonID:         l.ID,
				CourseID:         l.CourseID,
				NodeID:           node.ID,
				NodeTitle:        node.Title,
				Title:            l.Title,
				Difficulty:       l.Difficulty,
				EstimatedMinutes: l.EstimatedMinutes,
			})
		}
	}

	// 4. 难度过滤并排序
	tier, stretch := TierFor(profile.DifficultyScore)
	ranked := RankNextLessons(candidates, tier, stretch, signals)
	if len(ranked) > s.cfg.ResponseTopN {
		ranked = ranked[:s.cfg.ResponseTopN]
	}

	return &NextLessonResult{
		CareerPathID:           path.ID,
		Lessons:                ranked,
		CurrentDifficultyLevel: tier,
		Stretch:                stretch,
		NudgeMessage:           signals.Nudge(),
	}, nil
}

// RankNextLessons 优先保留与档位一致的课时，没有时使用全部候选；
// stretch 用户先按难度从高到低排列再计算位置；分数 = 1/(1+位置) × 活跃度系数
func RankNextLessons(candidates []NextLesson, tier model.Difficulty, stretch bool, signals EngagementSignals) []NextLesson {
	var matched []NextLesson
	for _, c := range candidates {
		if c.Difficulty == tier {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		matched = append(matched, candidates...)
	}

	if stretch {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Difficulty.Value() > matched[j].Difficulty.Value()
		})
	}
	for i := range matched {
		matched[i].Score = 1 / float64(1+i) * signals.Multiplier(matched[i].Difficulty)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	if matched == nil {
		return []NextLesson{}
	}
	return matched
}

func (s *RecommendationService) Recalibrate(ctx context.Context, userID uint) (*CalibrationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "Recalibrate", userID)
	defer span.End()
	return s.Calibrator.Recalibrate(ctx, userID)
}

func (s *RecommendationService) ownedRecommendation(ctx context.Context, userID uint, id string) (*model.Recommendation, error) {
	rec, err := s.RecommendationRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRecommendationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recommendation: %w", err)
	}
	if rec.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return rec, nil
}

func (s *RecommendationService) DismissRecommendation(ctx context.Context, userID uint, id string) (*model.Recommendation, error) {
	rec, err := s.ownedRecommendation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.RecommendationRepo.UpdateStatus(ctx, rec.ID, model.RecommendationDismissed); err != nil {
		return nil, fmt.Errorf("dismiss recommendation: %w", err)
	}
	rec.Status = model.RecommendationDismissed
	return rec, nil
}

// AcceptRecommendation 接受路径推荐时同时设为画像的当前路径
func (s *RecommendationService) AcceptRecommendation(ctx context.Context, userID uint, id string) (*model.Recommendation, error) {
	rec, err := s.ownedRecommendation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.RecommendationRepo.UpdateStatus(ctx, rec.ID, model.RecommendationAccepted); err != nil {
		return nil, fmt.Errorf("accept recommendation: %w", err)
	}
	rec.Status = model.RecommendationAccepted

	if rec.TargetType == model.TargetCareerPath {
		if err := s.ProfileRepo.SetActiveCareerPath(ctx, userID, rec.TargetID); err != nil {
			return nil, fmt.Errorf("set active career path: %w", err)
		}
	}
	return rec, nil
}

func (s *RecommendationService) GetCollaborativeRecommendations(ctx context.Context, userID uint) ([]CourseRecommendation, error) {
	ctx, span := tracing.StartSpan(ctx, "GetCollaborativeRecommendations", userID)
	defer span.End()
	return s.Collaborative.Recommend(ctx, userID)
}

func (s *RecommendationService) GenerateStudyPlan(ctx context.Context, userID uint, req GeneratePlanRequest) (*model.StudyPlan, error) {
	ctx, span := tracing.StartSpan(ctx, "GenerateStudyPlan", userID)
	defer span.End()
	return s.Plans.Generate(ctx, userID, req)
}

func (s *RecommendationService) GetActivePlan(ctx context.Context, userID uint) (*model.StudyPlan, error) {
	return s.Plans.GetActive(ctx, userID)
}

func (s *RecommendationService) GetTodayPlan(ctx context.Context, userID uint) (*TodayPlan, error) {
	return s.Plans.GetToday(ctx, userID)
}

func (s *RecommendationService) CompleteStudyPlanItem(ctx context.Context, userID uint, itemID string) (*model.StudyPlanItem, error) {
	ctx, span := tracing.StartSpan(ctx, "CompleteStudyPlanItem", userID)
	defer span.End()
	return s.Plans.CompleteItem(ctx, userID, itemID)
}

func (s *RecommendationService) UpdateStudyPlan(ctx context.Context, userID uint, planID string, req UpdatePlanRequest) (*model.StudyPlan, error) {
	return s.Plans.Update(ctx, userID, planID, req)
}

// PurgeExpiredRecommendations 后台任务：清理所有用户的过期推荐
func (s *RecommendationService) PurgeExpiredRecommendations(ctx context.Context) (int64, error) {
	return s.RecommendationRepo.PurgeExpired(ctx, s.now())
}
