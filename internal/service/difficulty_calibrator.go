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
	"learnpath_backend/pkg/monitoring"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CalibrationSignals 五项表现信号，均在 [0,1]，数据不足时为 0.5
type CalibrationSignals struct {
	RecentPerformance float64 `json:"recentPerformance"`
	QuizAccuracy      float64 `json:"quizAccuracy"`
	TimeEfficiency    float64 `json:"timeEfficiency"`
	HintDependency    float64 `json:"hintDependency"`
	RetryRate         float64 `json:"retryRate"`
}

var signalWeights = CalibrationSignals{
	RecentPerformance: 0.30,
	QuizAccuracy:      0.25,
	TimeEfficiency:    0.15,
	HintDependency:    0.15,
	RetryRate:         0.15,
}

const (
	easyUpperBound   = 0.35
	mediumUpperBound = 0.65
	stretchThreshold = 0.85

	hardBonus   = 0.15
	mediumBonus = 0.05

	retryFirstAttemptScore = 1.0
	retryLaterAttemptScore = 0.7

	timeSteepness     = 2.0
	noHintsScore      = 0.8
	hintsPerLessonCap = 3.0
)

// CalibrationResult 一次重新校准的前后对比
type CalibrationResult struct {
	PreviousScore      float64            `json:"previousScore"`
	NewScore           float64            `json:"newScore"`
	PreviousDifficulty model.Difficulty   `json:"previousDifficulty"`
	NewDifficulty      model.Difficulty   `json:"newDifficulty"`
	Stretch            bool               `json:"stretch"`
	Explanation        string             `json:"explanation"`
	Signals            CalibrationSignals `json:"signals"`
}

// TierFor 将难度分映射为档位；超过 stretch 阈值仍为 HARD，但优先选择更难的内容
func TierFor(score float64) (model.Difficulty, bool) {
	switch {
	case score <= easyUpperBound:
		return model.DifficultyEasy, false
	case score <= mediumUpperBound:
		return model.DifficultyMedium, false
	default:
		return model.DifficultyHard, score > stretchThreshold
	}
}

func difficultyBonus(d model.Difficulty) float64 {
	switch d {
	case model.DifficultyHard:
		return hardBonus
	case model.DifficultyMedium:
		return mediumBonus
	}
	return 0
}

// PerformanceSignal 最近课时得分率（含难度加成）的均值
func PerformanceSignal(lessons []model.LessonPerformance, minPoints int) float64 {
	values := make([]float64, 0, len(lessons))
	for _, l := range lessons {
		if l.MaxXP <= 0 {
			continue
		}
		ratio := float64(l.XPEarned)/float64(l.MaxXP) + difficultyBonus(l.Difficulty)
		values = append(values, math.Min(1, ratio))
	}
	if len(values) < minPoints {
		return neutralScore
	}
	return util.Clamp01(util.Mean(values))
}

// QuizAccuracySignal 首次答对 1.0，之后答对 0.7，答错 0
func QuizAccuracySignal(answers []model.QuizAnswer, minPoints int) float64 {
	if len(answers) < minPoints {
		return neutralScore
	}
	var sum float64
	for _, a := range answers {
		if !a.Correct {
			continue
		}
		if a.Attempt <= 1 {
			sum += retryFirstAttemptScore
		} else {
			sum += retryLaterAttemptScore
		}
	}
	return util.Clamp01(sum / float64(len(answers)))
}

// TimeEfficiencySignal 比预期更快完成时趋近 1
func TimeEfficiencySignal(lessons []model.LessonPerformance, minPoints int) float64 {
	values := make([]float64, 0, len(lessons))
	for _, l := range lessons {
		if l.TimeSpentSeconds <= 0 || l.ExpectedMinutes <= 0 {
			continue
		}
		ratio := float64(l.TimeSpentSeconds) / float64(l.ExpectedMinutes*60)
		values = append(values, util.Logistic(ratio, timeSteepness, 1))
	}
	if len(values) < minPoints {
		return neutralScore
	}
	return util.Clamp01(util.Mean(values))
}

// HintDependencySignal 完全不用提示时为 0.8，避免数据少时过度自信
func HintDependencySignal(lessons []model.LessonPerformance, minPoints int) float64 {
	if len(lessons) < minPoints {
		return neutralScore
	}
	hints := 0
	for _, l := range lessons {
		hints += l.HintsUsed
	}
	if hints == 0 {
		return noHintsScore
	}
	perLesson := float64(hints) / float64(len(lessons))
	return math.Max(0, 1-perLesson/hintsPerLessonCap)
}

// RetryRateSignal 按挑战分组：0.7*通过率 + 0.3*尝试次数因子
func RetryRateSignal(subs []model.ChallengeSubmission, minPoints int) float64 {
	if len(subs) < minPoints {
		return neutralScore
	}
	attempts := make(map[uint]int)
	passed := make(map[uint]bool)
	for _, s := range subs {
		attempts[s.ChallengeID]++
		if s.Passed {
			passed[s.ChallengeID] = true
		}
	}

	passRate := float64(len(passed)) / float64(len(attempts))
	avgAttempts := float64(len(subs)) / float64(len(attempts))
	attemptFactor := math.Max(0, 1-(avgAttempts-1)/4)
	return util.Clamp01(0.7*passRate + 0.3*attemptFactor)
}

// RawScore 五项信号加权和
func RawScore(s CalibrationSignals) float64 {
	w := signalWeights
	return util.Clamp01(w.RecentPerformance*s.RecentPerformance +
		w.QuizAccuracy*s.QuizAccuracy +
		w.TimeEfficiency*s.TimeEfficiency +
		w.HintDependency*s.HintDependency +
		w.RetryRate*s.RetryRate)
}

// BlendScore 指数平滑：newWeight*raw + (1-newWeight)*previous
func BlendScore(raw, previous, newWeight float64) float64 {
	return util.Clamp01(newWeight*raw + (1-newWeight)*util.Clamp01(previous))
}

type signalEntry struct {
	name  string
	value float64
	high  string
	low   string
}

// ExplainSignals 用偏离 0.5 最远的两项信号生成说明
func ExplainSignals(s CalibrationSignals) string {
	entries := []signalEntry{
		{"performance", s.RecentPerformance, "strong recent lesson scores", "low recent lesson scores"},
		{"quiz", s.QuizAccuracy, "high quiz accuracy", "frequent quiz mistakes"},
		{"time", s.TimeEfficiency, "finishing lessons faster than expected", "lessons taking longer than expected"},
		{"hints", s.HintDependency, "little reliance on hints", "heavy reliance on hints"},
		{"retry", s.RetryRate, "passing challenges in few attempts", "many retries on challenges"},
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return math.Abs(entries[i].value-neutralScore) > math.Abs(entries[j].value-neutralScore)
	})

	var parts []string
	for _, e := range entries[:2] {
		switch {
		case e.value > neutralScore+0.05:
			parts = append(parts, e.high)
		case e.value < neutralScore-0.05:
			parts = append(parts, e.low)
		}
	}
	if len(parts) == 0 {
		return "Not enough recent activity to adjust difficulty, keeping the current level."
	}
	return "Adjusted based on " + strings.Join(parts, " and ") + "."
}

type DifficultyCalibrator struct {
	ProfileRepo     *repository.LearningProfileRepository
	PerformanceRepo *repository.PerformanceRepository
	UserRepo        *repository.UserRepository
	cfg             config.CalibrationConfig
	now             func() time.Time
}

func NewDifficultyCalibrator(
	profileRepo *repository.LearningProfileRepository,
	performanceRepo *repository.PerformanceRepository,
	userRepo *repository.UserRepository,
	cfg config.CalibrationConfig,
) *DifficultyCalibrator {
	return &DifficultyCalibrator{
		ProfileRepo:     profileRepo,
		PerformanceRepo: performanceRepo,
		UserRepo:        userRepo,
		cfg:             cfg,
		now:             time.Now,
	}
}

// Signals 并发读取近期表现并计算五项信号
func (c *DifficultyCalibrator) Signals(ctx context.Context, userID uint) (CalibrationSignals, error) {
	var (
		lessons []model.LessonPerformance
		answers []model.QuizAnswer
		subs    []model.ChallengeSubmission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lessons, err = c.PerformanceRepo.RecentLessons(gctx, userID, c.cfg.RecentLessons)
		return err
	})
	g.Go(func() (err error) {
		answers, err = c.PerformanceRepo.RecentQuizAnswers(gctx, userID, c.cfg.RecentQuizAnswers)
		return err
	})
	g.Go(func() (err error) {
		subs, err = c.PerformanceRepo.RecentChallengeSubmissions(gctx, userID, c.cfg.RecentChallenges)
		return err
	})
	if err := g.Wait(); err != nil {
		return CalibrationSignals{}, fmt.Errorf("load recent performance: %w", err)
	}

	minPoints := c.cfg.MinDataPoints
	return CalibrationSignals{
		RecentPerformance: PerformanceSignal(lessons, minPoints),
		QuizAccuracy:      QuizAccuracySignal(answers, minPoints),
		TimeEfficiency:    TimeEfficiencySignal(lessons, minPoints),
		HintDependency:    HintDependencySignal(lessons, minPoints),
		RetryRate:         RetryRateSignal(subs, minPoints),
	}, nil
}

// Recalibrate 读取画像、计算新难度分并写回（后写覆盖，无乐观锁）
func (c *DifficultyCalibrator) Recalibrate(ctx context.Context, userID uint) (*CalibrationResult, error) {
	defer monitoring.ObserveSince("recalibrate", time.Now())

	profile, err := c.ProfileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProfileRequired
	}
	if err != nil {
		return nil, fmt.Errorf("load learning profile: %w", err)
	}

	signals, err := c.Signals(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := util.Clamp01(profile.DifficultyScore)
	score := BlendScore(RawScore(signals), previous, c.cfg.NewScoreWeight)
	prevTier, _ := TierFor(previous)
	newTier, stretch := TierFor(score)

	if err := c.ProfileRepo.UpdateDifficulty(ctx, userID, score, c.now()); err != nil {
		return nil, fmt.Errorf("update difficulty score: %w", err)
	}
	monitoring.Recalibrations.WithLabelValues(string(newTier)).Inc()

	return &CalibrationResult{
		PreviousScore:      previous,
		NewScore:           score,
		PreviousDifficulty: prevTier,
		NewDifficulty:      newTier,
		Stretch:            stretch,
		Explanation:        ExplainSignals(signals),
		Signals:            signals,
	}, nil
}

// RecalibrateAll 对所有活跃且完成引导的用户重新校准，可重复执行；返回成功数量
func (c *DifficultyCalibrator) RecalibrateAll(ctx context.Context) (int, error) {
	users, err := c.UserRepo.ListActiveOnboarded(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active users: %w", err)
	}

	updated := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := c.Recalibrate(ctx, u.ID); err != nil {
			if errors.Is(err, util.ErrProfileRequired) {
				continue
			}
			logger.Log.Error("批量校准难度失败", zap.Uint("userId", u.ID), zap.Error(err))
			continue
		}
		updated++
	}

	logger.Log.Info("难度批量校准完成", zap.Int("updated", updated), zap.Int("users", len(users)))
	return updated, nil
}
