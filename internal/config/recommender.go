package config

import "time"

// RecommenderConfig 推荐引擎可调参数，零值字段由 WithDefaults 补全
type RecommenderConfig struct {
	RecommendationTTLDays int `mapstructure:"recommendation_ttl_days"`
	PersistTopN           int `mapstructure:"persist_top_n"`
	ResponseTopN          int `mapstructure:"response_top_n"`

	Calibration   CalibrationConfig   `mapstructure:"calibration"`
	Collaborative CollaborativeConfig `mapstructure:"collaborative"`
	Engagement    EngagementConfig    `mapstructure:"engagement"`
	Plan          PlanConfig          `mapstructure:"plan"`
}

type CalibrationConfig struct {
	MinDataPoints     int `mapstructure:"min_data_points"`
	RecentLessons     int `mapstructure:"recent_lessons"`
	RecentQuizAnswers int `mapstructure:"recent_quiz_answers"`
	RecentChallenges  int `mapstructure:"recent_challenges"`
	// 新分数在平滑混合中的权重，其余权重给历史分数
	NewScoreWeight float64 `mapstructure:"new_score_weight"`
}

type CollaborativeConfig struct {
	MinUsers      int           `mapstructure:"min_users"`
	MinSimilarity float64       `mapstructure:"min_similarity"`
	MaxNeighbors  int           `mapstructure:"max_neighbors"`
	MinNeighbors  int           `mapstructure:"min_neighbors"`
	MinCompletion float64       `mapstructure:"min_completion"`
	TopN          int           `mapstructure:"top_n"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

type EngagementConfig struct {
	WindowDays            int     `mapstructure:"window_days"`
	InactiveDays          int     `mapstructure:"inactive_days"`
	LongInactiveDays      int     `mapstructure:"long_inactive_days"`
	StrugglingFailureRate float64 `mapstructure:"struggling_failure_rate"`
	StrugglingMinAttempts int     `mapstructure:"struggling_min_attempts"`
	StrugglingFailures    int     `mapstructure:"struggling_failures"`
	BreezingLessons       int     `mapstructure:"breezing_lessons"`
	FastRatio             float64 `mapstructure:"fast_ratio"`
}

type PlanConfig struct {
	DefaultDailyMinutes  int  `mapstructure:"default_daily_minutes"`
	LessonMinutes        int  `mapstructure:"lesson_minutes"`
	ReviewMinutes        int  `mapstructure:"review_minutes"`
	ChallengeMinutes     int  `mapstructure:"challenge_minutes"`
	RestEvery            int  `mapstructure:"rest_every"`
	ReviewEvery          int  `mapstructure:"review_every"`
	MilestoneEvery       int  `mapstructure:"milestone_every"`
	MaxDays              int  `mapstructure:"max_days"`
	MilestoneXP          int  `mapstructure:"milestone_xp"`
	ChallengeAfterCourse bool `mapstructure:"challenge_after_course"`
}

func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{}.WithDefaults()
}

func (c RecommenderConfig) WithDefaults() RecommenderConfig {
	setInt(&c.RecommendationTTLDays, 30)
	setInt(&c.PersistTopN, 5)
	setInt(&c.ResponseTopN, 3)

	cal := &c.Calibration
	setInt(&cal.MinDataPoints, 3)
	setInt(&cal.RecentLessons, 20)
	setInt(&cal.RecentQuizAnswers, 50)
	setInt(&cal.RecentChallenges, 30)
	setFloat(&cal.NewScoreWeight, 0.7)

	col := &c.Collaborative
	setInt(&col.MinUsers, 10)
	setFloat(&col.MinSimilarity, 0.3)
	setInt(&col.MaxNeighbors, 20)
	setInt(&col.MinNeighbors, 3)
	setFloat(&col.MinCompletion, 0.5)
	setInt(&col.TopN, 10)
	if col.CacheTTL <= 0 {
		col.CacheTTL = time.Hour
	}

	eng := &c.Engagement
	setInt(&eng.WindowDays, 7)
	setInt(&eng.InactiveDays, 3)
	setInt(&eng.LongInactiveDays, 7)
	setFloat(&eng.StrugglingFailureRate, 0.5)
	setInt(&eng.StrugglingMinAttempts, 4)
	setInt(&eng.StrugglingFailures, 6)
	setInt(&eng.BreezingLessons, 3)
	setFloat(&eng.FastRatio, 0.5)

	p := &c.Plan
	setInt(&p.DefaultDailyMinutes, 30)
	setInt(&p.LessonMinutes, 20)
	setInt(&p.ReviewMinutes, 15)
	setInt(&p.ChallengeMinutes, 30)
	setInt(&p.RestEvery, 14)
	setInt(&p.ReviewEvery, 5)
	setInt(&p.MilestoneEvery, 10)
	setInt(&p.MaxDays, 90)
	setInt(&p.MilestoneXP, 50)

	return c
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}
