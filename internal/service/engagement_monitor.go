package service

import (
	"context"
	"errors"
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	minMultiplier = 0.5
	maxMultiplier = 1.5

	longStreakDays    = 30
	notableStreakDays = 7
	steadyStreakDays  = 3
)

// EngagementSignals 近期学习行为信号，每次请求重新计算，不落库
type EngagementSignals struct {
	Inactive          bool    `json:"inactive"`
	DaysInactive      int     `json:"daysInactive"`
	StreakAtRisk      bool    `json:"streakAtRisk"`
	CurrentStreak     int     `json:"currentStreak"`
	Struggling        bool    `json:"struggling"`
	FailureRate       float64 `json:"failureRate"`
	Attempts          int     `json:"attempts"`
	Failures          int     `json:"failures"`
	Breezing          bool    `json:"breezing"`
	FastCompletions   int     `json:"fastCompletions"`
	CompletionRatio   float64 `json:"completionRatio"`
	RecentCompletions int     `json:"recentCompletions"`
	HealthScore       float64 `json:"healthScore"`
	longInactive      bool
}

// EngagementInput 计算信号所需的原始数据
type EngagementInput struct {
	LastActivity  time.Time
	CurrentStreak int
	QuizAnswers   []model.QuizAnswer
	Challenges    []model.ChallengeSubmission
	Lessons       []model.LessonPerformance
	Now           time.Time
}

func ComputeEngagement(in EngagementInput, cfg config.EngagementConfig) EngagementSignals {
	s := EngagementSignals{
		DaysInactive:      util.DaysBetween(in.LastActivity, in.Now),
		CurrentStreak:     in.CurrentStreak,
		RecentCompletions: len(in.Lessons),
	}
	s.Inactive = s.DaysInactive >= cfg.InactiveDays
	s.longInactive = s.DaysInactive >= cfg.LongInactiveDays
	s.StreakAtRisk = s.CurrentStreak > 0 && s.DaysInactive >= 1

	for _, a := range in.QuizAnswers {
		s.Attempts++
		if !a.Correct {
			s.Failures++
		}
	}
	for _, c := range in.Challenges {
		s.Attempts++
		if !c.Passed {
			s.Failures++
		}
	}
	if s.Attempts > 0 {
		s.FailureRate = float64(s.Failures) / float64(s.Attempts)
	}
	s.Struggling = (s.FailureRate > cfg.StrugglingFailureRate && s.Attempts >= cfg.StrugglingMinAttempts) ||
		s.Failures >= cfg.StrugglingFailures

	timed := 0
	for _, l := range in.Lessons {
		if l.TimeSpentSeconds <= 0 || l.ExpectedMinutes <= 0 {
			continue
		}
		timed++
		if float64(l.TimeSpentSeconds) < cfg.FastRatio*float64(l.ExpectedMinutes*60) {
			s.FastCompletions++
		}
	}
	if timed > 0 {
		s.CompletionRatio = float64(s.FastCompletions) / float64(timed)
	}
	s.Breezing = s.FastCompletions >= cfg.BreezingLessons

	s.HealthScore = HealthScore(s, cfg)
	return s
}

// HealthScore 以 0.5 为基线，按活跃度、连续天数、失败率、完成量加减后限制在 [0,1]
func HealthScore(s EngagementSignals, cfg config.EngagementConfig) float64 {
	score := 0.5

	switch {
	case s.DaysInactive == 0:
		score += 0.2
	case s.DaysInactive <= 2:
		score += 0.1
	case s.DaysInactive >= cfg.InactiveDays:
		score -= 0.2
		if s.DaysInactive >= cfg.LongInactiveDays {
			score -= 0.1
		}
	}

	switch {
	case s.CurrentStreak >= notableStreakDays:
		score += 0.15
	case s.CurrentStreak >= steadyStreakDays:
		score += 0.1
	}

	if s.FailureRate > 0.5 {
		score -= 0.2
	}

	switch {
	case s.RecentCompletions >= 5:
		score += 0.15
	case s.RecentCompletions >= 1:
		score += 0.05
	default:
		score -= 0.1
	}

	return util.Clamp01(score)
}

// Multiplier 按内容难度调整排序权重，多个信号相乘后限制在 [0.5,1.5]
func (s EngagementSignals) Multiplier(tier model.Difficulty) float64 {
	m := 1.0
	switch tier {
	case model.DifficultyEasy:
		if s.Struggling {
			m *= 1.4
		}
		if s.Breezing {
			m *= 0.6
		}
		if s.Inactive {
			m *= 1.2
		}
	case model.DifficultyHard:
		if s.Struggling {
			m *= 0.6
		}
		if s.Breezing {
			m *= 1.4
		}
		if s.Inactive {
			m *= 0.8
		}
	}
	return util.Clamp(m, minMultiplier, maxMultiplier)
}

// Nudge 按固定优先级选出一条提示，没有合适的提示时返回空串
func (s EngagementSignals) Nudge() string {
	switch {
	case s.longInactive:
		return fmt.Sprintf("It's been %d days since your last session. A short lesson today is the easiest way back in.", s.DaysInactive)
	case s.Inactive:
		return "We miss you! Pick up where you left off to keep your momentum."
	case s.StreakAtRisk && s.CurrentStreak >= notableStreakDays:
		return fmt.Sprintf("Your %d-day streak is at risk. Complete one lesson today to keep it alive.", s.CurrentStreak)
	case s.Struggling:
		return "These topics are tough. We've lined up some easier lessons to build your confidence."
	case s.Breezing:
		return "You're breezing through! Try a harder lesson to stretch yourself."
	case s.CurrentStreak >= longStreakDays:
		return fmt.Sprintf("Incredible, %d days in a row! You're building a real habit.", s.CurrentStreak)
	case s.CurrentStreak >= notableStreakDays:
		return fmt.Sprintf("Nice work on your %d-day streak. Keep it going!", s.CurrentStreak)
	}
	return ""
}

type EngagementMonitor struct {
	UserRepo        *repository.UserRepository
	CheckinRepo     *repository.CheckinRepository
	PerformanceRepo *repository.PerformanceRepository
	cfg             config.EngagementConfig
	now             func() time.Time
}

func NewEngagementMonitor(
	userRepo *repository.UserRepository,
	checkinRepo *repository.CheckinRepository,
	performanceRepo *repository.PerformanceRepository,
	cfg config.EngagementConfig,
) *EngagementMonitor {
	return &EngagementMonitor{
		UserRepo:        userRepo,
		CheckinRepo:     checkinRepo,
		PerformanceRepo: performanceRepo,
		cfg:             cfg,
		now:             time.Now,
	}
}

// Signals 并发读取最近学习时间、连续签到与窗口内的表现记录。
// 最近学习时间取课时、测验、挑战与签到中最晚的一条，last_seen 只表示在线，不参与计算
func (m *EngagementMonitor) Signals(ctx context.Context, userID uint) (EngagementSignals, error) {
	now := m.now()
	since := now.AddDate(0, 0, -m.cfg.WindowDays)
	in := EngagementInput{Now: now}

	var (
		user          *model.User
		lastLearning  time.Time
		latestCheckin time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := m.UserRepo.FindByID(gctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() (err error) {
		lastLearning, err = m.PerformanceRepo.LastActivityAt(gctx, userID)
		return err
	})
	g.Go(func() error {
		c, err := m.CheckinRepo.FindLatestByUser(gctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		latestCheckin = c.CheckinAt
		return nil
	})
	g.Go(func() (err error) {
		in.CurrentStreak, err = m.CheckinRepo.CurrentStreak(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		in.QuizAnswers, err = m.PerformanceRepo.QuizAnswersSince(gctx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		in.Challenges, err = m.PerformanceRepo.ChallengeSubmissionsSince(gctx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		in.Lessons, err = m.PerformanceRepo.LessonsSince(gctx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return EngagementSignals{}, fmt.Errorf("load engagement data: %w", err)
	}

	in.LastActivity = lastLearning
	if latestCheckin.After(in.LastActivity) {
		in.LastActivity = latestCheckin
	}
	if in.LastActivity.IsZero() {
		// 没有任何学习记录时按注册时间计算，未知用户视为活跃
		if user != nil {
			in.LastActivity = user.CreatedAt
		} else {
			in.LastActivity = now
		}
	}

	return ComputeEngagement(in, m.cfg), nil
}
