package service

import (
	"testing"

	"learnpath_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDefaultPathWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultPathWeights.Sum(), 1e-9)
}

func TestTagAlignment(t *testing.T) {
	set := func(tags ...string) map[string]bool {
		m := make(map[string]bool)
		for _, tag := range tags {
			m[tag] = true
		}
		return m
	}

	tests := []struct {
		name      string
		user, pth map[string]bool
		want      float64
	}{
		{"empty user", set(), set("web"), 0.5},
		{"empty path", set("web"), set(), 0.5},
		{"identical", set("web", "data"), set("web", "data"), 1},
		{"disjoint", set("web"), set("data"), 0},
		{"partial", set("web", "data"), set("web", "ui", "ux", "design"), 1 / (2 * 1.4142135623730951)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TagAlignment(tt.user, tt.pth), 1e-9)
		})
	}
}

func TestGoalAlignment(t *testing.T) {
	assert.Equal(t, 0.5, GoalAlignment(nil, []string{"job_ready"}))
	assert.Equal(t, 0.5, GoalAlignment([]string{"career_change"}, nil))
	assert.Equal(t, 0.5, GoalAlignment([]string{"unknown"}, []string{"job_ready"}))
	assert.InDelta(t, 1.0/2.2, GoalAlignment([]string{"career_change"}, []string{"job_ready"}), 1e-9)
	assert.InDelta(t, 1.0, GoalAlignment([]string{"career_change"}, []string{"job_ready", "portfolio", "certification"}), 1e-9)
}

func TestPersonalityFit(t *testing.T) {
	assert.Equal(t, 1.0, PersonalityFit("Analytical", "data"))
	assert.Equal(t, 0.5, PersonalityFit("", "data"))
	assert.Equal(t, 0.5, PersonalityFit("creative", "space"))
}

func TestSkillGapMatchPeaksBelowRequirement(t *testing.T) {
	peak := SkillGapMatch(0.48, 60)
	assert.InDelta(t, 1.0, peak, 1e-9)
	assert.Less(t, SkillGapMatch(0.9, 60), peak)
	assert.Less(t, SkillGapMatch(0.0, 60), peak)
}

func TestTimeViability(t *testing.T) {
	tests := []struct {
		name            string
		path, available float64
		want            float64
	}{
		{"fits", 100, 200, 1},
		{"exact", 200, 200, 1},
		{"midpoint", 300, 200, 0.5},
		{"unknown availability", 100, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TimeViability(tt.path, tt.available), 1e-9)
		})
	}
	assert.Less(t, TimeViability(800, 200), TimeViability(300, 200))
}

func TestPopularity(t *testing.T) {
	assert.Equal(t, 0.5, Popularity(model.PathStats{}))

	low := Popularity(model.PathStats{Enrollments: 100, Completions: 10})
	high := Popularity(model.PathStats{Enrollments: 100, Completions: 90})
	assert.Greater(t, high, low)

	few := Popularity(model.PathStats{Enrollments: 2, Completions: 2})
	assert.InDelta(t, 0.5, few, 0.05, "small samples stay close to the prior")
}

func TestCognitiveMatchUsesMathComfort(t *testing.T) {
	without := CognitiveMatch(50, "", 60)
	with := CognitiveMatch(50, "love", 60)
	assert.NotEqual(t, without, with)
	assert.InDelta(t, 1.0, CognitiveMatch(51, "", 60), 1e-9)
}

func scoringProfile() *model.LearningProfile {
	return &model.LearningProfile{
		Motivations:       datatypes.JSONSlice[string]{"career_change"},
		SubjectInterests:  datatypes.JSONSlice[string]{"programming"},
		IndustryInterests: datatypes.JSONSlice[string]{"tech"},
		DreamProjects:     datatypes.JSONSlice[string]{"website"},
		PersonalityType:   "practical",
		TimeHorizon:       "6_months",
		DailyRoutine:      "regular",
		BackgroundLevel:   "beginner",
		MathComfort:       "basic",
		AnalyticalScore:   60,
	}
}

func TestScoreBreakdownInUnitRange(t *testing.T) {
	path := &model.CareerPath{
		Industry:              "tech",
		EstimatedHours:        150,
		MarketDemand:          90,
		AnalyticalRequirement: 70,
		Outcomes:              datatypes.JSONSlice[string]{"job_ready", "portfolio"},
		Tags:                  datatypes.JSONSlice[string]{"web", "frontend", "programming"},
	}
	b := ScoreBreakdownFor(scoringProfile(), path, model.PathStats{Enrollments: 40, Completions: 12})

	for name, v := range map[string]float64{
		"interest":    b.InterestAlignment,
		"goal":        b.GoalAlignment,
		"dream":       b.DreamProjectAlignment,
		"personality": b.PersonalityFit,
		"skillGap":    b.SkillGap,
		"time":        b.TimeViability,
		"market":      b.MarketDemand,
		"popularity":  b.CommunityPopularity,
		"cognitive":   b.CognitiveMatch,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
	assert.InDelta(t, 0.9, b.MarketDemand, 1e-9)
	assert.Equal(t, 1.0, b.TimeViability)

	total := DefaultPathWeights.Total(b)
	assert.GreaterOrEqual(t, total, 0.0)
	assert.LessOrEqual(t, total, 1.0)
}

func TestRankPathsOrdersByScore(t *testing.T) {
	paths := []model.CareerPath{
		{BaseModel: model.BaseModel{ID: 1}, Name: "Nursing Informatics", Industry: "healthcare", EstimatedHours: 2000, MarketDemand: 20, AnalyticalRequirement: 95},
		{BaseModel: model.BaseModel{ID: 2}, Name: "Web Developer", Industry: "tech", EstimatedHours: 150, MarketDemand: 90, AnalyticalRequirement: 60,
			Outcomes: datatypes.JSONSlice[string]{"job_ready"}, Tags: datatypes.JSONSlice[string]{"web", "programming"}},
		{BaseModel: model.BaseModel{ID: 3}, Name: "Data Analyst", Industry: "data", EstimatedHours: 300, MarketDemand: 70, AnalyticalRequirement: 70},
	}

	ranked := RankPaths(scoringProfile(), paths, nil, DefaultPathWeights)
	require.Len(t, ranked, 3)
	assert.Equal(t, uint(2), ranked[0].CareerPathID)
	for i, p := range ranked {
		assert.Equal(t, i+1, p.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Score, p.Score)
		}
	}
}

func TestRankPathsBreaksTiesByID(t *testing.T) {
	paths := []model.CareerPath{
		{BaseModel: model.BaseModel{ID: 9}, Industry: "tech"},
		{BaseModel: model.BaseModel{ID: 4}, Industry: "tech"},
	}
	ranked := RankPaths(&model.LearningProfile{}, paths, nil, DefaultPathWeights)
	require.Len(t, ranked, 2)
	assert.Equal(t, uint(4), ranked[0].CareerPathID)
	assert.Equal(t, uint(9), ranked[1].CareerPathID)
}
