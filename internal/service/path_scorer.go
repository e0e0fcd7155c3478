package service

import (
	"context"
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/monitoring"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// PathWeights 九项子分的权重，总和为 1
type PathWeights struct {
	Interest      float64
	Goal          float64
	DreamProject  float64
	Personality   float64
	SkillGap      float64
	TimeViability float64
	MarketDemand  float64
	Popularity    float64
	Cognitive     float64
}

var DefaultPathWeights = PathWeights{
	Interest:      0.20,
	Goal:          0.15,
	DreamProject:  0.10,
	Personality:   0.08,
	SkillGap:      0.12,
	TimeViability: 0.10,
	MarketDemand:  0.10,
	Popularity:    0.07,
	Cognitive:     0.08,
}

func (w PathWeights) Sum() float64 {
	return w.Interest + w.Goal + w.DreamProject + w.Personality + w.SkillGap +
		w.TimeViability + w.MarketDemand + w.Popularity + w.Cognitive
}

// Total 加权求和并限制在 [0,1]
func (w PathWeights) Total(b model.ScoreBreakdown) float64 {
	return util.Clamp01(w.Interest*b.InterestAlignment +
		w.Goal*b.GoalAlignment +
		w.DreamProject*b.DreamProjectAlignment +
		w.Personality*b.PersonalityFit +
		w.SkillGap*b.SkillGap +
		w.TimeViability*b.TimeViability +
		w.MarketDemand*b.MarketDemand +
		w.Popularity*b.CommunityPopularity +
		w.Cognitive*b.CognitiveMatch)
}

const (
	neutralScore = 0.5

	skillGapTargetRatio  = 0.8
	skillGapSigma        = 0.4
	cognitiveTargetRatio = 0.85
	cognitiveSigma       = 0.35

	timeFalloffSteepness = 3.0
	timeFalloffMidpoint  = 1.5

	popularityPriorWeight = 50.0
	popularityVolumeCap   = 100.0
)

// ScoredPath 单条路径的评分结果
type ScoredPath struct {
	CareerPathID   uint                 `json:"careerPathId"`
	Name           string               `json:"name"`
	Slug           string               `json:"slug"`
	Industry       string               `json:"industry"`
	EstimatedHours int                  `json:"estimatedHours"`
	Score          float64              `json:"score"`
	Rank           int                  `json:"rank"`
	Breakdown      model.ScoreBreakdown `json:"breakdown"`
}

// TagAlignment 二值标签向量的余弦相似度，任一侧为空时返回中性分
func TagAlignment(userTags, pathTags map[string]bool) float64 {
	if len(userTags) == 0 || len(pathTags) == 0 {
		return neutralScore
	}
	common := 0
	for tag := range userTags {
		if pathTags[tag] {
			common++
		}
	}
	return float64(common) / math.Sqrt(float64(len(userTags))*float64(len(pathTags)))
}

// GoalAlignment 动机与路径产出交集上的权重和 / 这些动机可达到的最大权重和
func GoalAlignment(motivations, outcomes []string) float64 {
	if len(motivations) == 0 || len(outcomes) == 0 {
		return neutralScore
	}
	outcomeSet := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		outcomeSet[normalizeKey(o)] = true
	}

	var achieved, best float64
	for _, m := range motivations {
		for outcome, w := range motivationOutcomeWeights[normalizeKey(m)] {
			best += w
			if outcomeSet[outcome] {
				achieved += w
			}
		}
	}
	if best == 0 {
		return neutralScore
	}
	return util.Clamp01(achieved / best)
}

func PersonalityFit(personality, industry string) float64 {
	row, ok := personalityIndustryAffinity[normalizeKey(personality)]
	if !ok {
		return neutralScore
	}
	v, ok := row[normalizeKey(industry)]
	if !ok {
		return neutralScore
	}
	return v
}

// SkillGapMatch 用户水平略低于路径要求（80% 处）时匹配度最高
func SkillGapMatch(backgroundSkill float64, analyticalRequirement int) float64 {
	r := util.Clamp01(float64(analyticalRequirement) / 100)
	return util.Gaussian(backgroundSkill, skillGapTargetRatio*r, skillGapSigma)
}

// TimeViability 路径时长不超过可用时间时为 1，否则按比例逻辑衰减
func TimeViability(pathHours, availableHours float64) float64 {
	if availableHours <= 0 {
		return neutralScore
	}
	if pathHours <= availableHours {
		return 1
	}
	ratio := pathHours / availableHours
	return util.Logistic(ratio, timeFalloffSteepness, timeFalloffMidpoint)
}

// Popularity 贝叶斯平滑的热度，报名数为 0 时等于先验均值 0.5
func Popularity(stats model.PathStats) float64 {
	n := float64(stats.Enrollments)
	if n <= 0 {
		return neutralScore
	}
	observed := 0.6*util.Clamp01(stats.CompletionRate()) + 0.4*math.Min(1, n/popularityVolumeCap)
	return (popularityPriorWeight*neutralScore + n*observed) / (popularityPriorWeight + n)
}

// CognitiveMatch 数学适应度已知时与分析能力 7:3 混合
func CognitiveMatch(analyticalScore int, mathComfort string, analyticalRequirement int) float64 {
	ability := util.Clamp01(float64(analyticalScore) / 100)
	if comfort, ok := mathComfortValue(mathComfort); ok {
		ability = 0.7*ability + 0.3*comfort
	}
	r := util.Clamp01(float64(analyticalRequirement) / 100)
	return util.Gaussian(ability, cognitiveTargetRatio*r, cognitiveSigma)
}

func pathTagSet(path *model.CareerPath) map[string]bool {
	set := make(map[string]bool, len(path.Tags)+1)
	for _, t := range path.Tags {
		if key := normalizeKey(t); key != "" {
			set[key] = true
		}
	}
	if key := normalizeKey(path.Industry); key != "" {
		set[key] = true
	}
	return set
}

func interestTagSet(p *model.LearningProfile) map[string]bool {
	set := expandTags(p.IndustryInterests, industryTags, true)
	for tag := range expandTags(p.SubjectInterests, subjectTags, false) {
		set[tag] = true
	}
	return set
}

// ScoreBreakdownFor 计算画像与单条路径的九项子分
func ScoreBreakdownFor(p *model.LearningProfile, path *model.CareerPath, stats model.PathStats) model.ScoreBreakdown {
	pathTags := pathTagSet(path)
	return model.ScoreBreakdown{
		InterestAlignment:     TagAlignment(interestTagSet(p), pathTags),
		GoalAlignment:         GoalAlignment(p.Motivations, path.Outcomes),
		DreamProjectAlignment: TagAlignment(expandTags(p.DreamProjects, dreamProjectTags, false), pathTags),
		PersonalityFit:        PersonalityFit(p.PersonalityType, path.Industry),
		SkillGap:              SkillGapMatch(BackgroundSkill(p.BackgroundLevel), path.AnalyticalRequirement),
		TimeViability:         TimeViability(float64(path.EstimatedHours), AvailableHours(p.TimeHorizon, p.DailyRoutine)),
		MarketDemand:          util.Clamp01(float64(path.MarketDemand) / 100),
		CommunityPopularity:   Popularity(stats),
		CognitiveMatch:        CognitiveMatch(p.AnalyticalScore, p.MathComfort, path.AnalyticalRequirement),
	}
}

// RankPaths 为所有路径评分并按总分降序排列，同分按路径 ID，排名从 1 开始
func RankPaths(p *model.LearningProfile, paths []model.CareerPath, stats map[uint]model.PathStats, weights PathWeights) []ScoredPath {
	scored := make([]ScoredPath, len(paths))
	for i := range paths {
		path := &paths[i]
		breakdown := ScoreBreakdownFor(p, path, stats[path.ID])
		scored[i] = ScoredPath{
			CareerPathID:   path.ID,
			Name:           path.Name,
			Slug:           path.Slug,
			Industry:       path.Industry,
			EstimatedHours: path.EstimatedHours,
			Score:          weights.Total(breakdown),
			Breakdown:      breakdown,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].CareerPathID < scored[j].CareerPathID
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

type PathScorer struct {
	CareerPathRepo     *repository.CareerPathRepository
	RecommendationRepo *repository.RecommendationRepository
	Weights            PathWeights
	cfg                config.RecommenderConfig
}

func NewPathScorer(
	careerPathRepo *repository.CareerPathRepository,
	recommendationRepo *repository.RecommendationRepository,
	cfg config.RecommenderConfig,
) *PathScorer {
	return &PathScorer{
		CareerPathRepo:     careerPathRepo,
		RecommendationRepo: recommendationRepo,
		Weights:            DefaultPathWeights,
		cfg:                cfg,
	}
}

// ScoreAll 对所有已发布路径评分
func (s *PathScorer) ScoreAll(ctx context.Context, profile *model.LearningProfile) ([]ScoredPath, error) {
	defer monitoring.ObserveSince("score_paths", time.Now())

	paths, err := s.CareerPathRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list career paths: %w", err)
	}
	stats, err := s.CareerPathRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("career path stats: %w", err)
	}

	scored := RankPaths(profile, paths, stats, s.Weights)
	monitoring.PathsScored.Add(float64(len(scored)))
	return scored, nil
}

// ExcludeTargets 去掉已处理过的路径，保留原排名
func ExcludeTargets(scored []ScoredPath, settled map[uint]bool) []ScoredPath {
	kept := make([]ScoredPath, 0, len(scored))
	for _, sp := range scored {
		if !settled[sp.CareerPathID] {
			kept = append(kept, sp)
		}
	}
	return kept
}

// Persist 删除过期与待处理的旧推荐后写入前 N 条，未过期的已接受/已忽略路径不再重复推荐。
// 返回过滤后的候选与写入的记录。
// 删除与写入是两条独立语句，并发请求可能短暂看到空集合
func (s *PathScorer) Persist(ctx context.Context, userID uint, scored []ScoredPath, now time.Time) ([]ScoredPath, []model.Recommendation, error) {
	if err := s.RecommendationRepo.DeleteStale(ctx, userID, model.TargetCareerPath, now); err != nil {
		return nil, nil, fmt.Errorf("clear stale recommendations: %w", err)
	}
	settled, err := s.RecommendationRepo.SettledTargetIDs(ctx, userID, model.TargetCareerPath, now)
	if err != nil {
		return nil, nil, fmt.Errorf("load settled recommendations: %w", err)
	}
	candidates := ExcludeTargets(scored, settled)

	n := s.cfg.PersistTopN
	if n > len(candidates) {
		n = len(candidates)
	}
	expiresAt := now.AddDate(0, 0, s.cfg.RecommendationTTLDays)
	recs := make([]model.Recommendation, n)
	for i := 0; i < n; i++ {
		recs[i] = model.Recommendation{
			UserID:     userID,
			TargetType: model.TargetCareerPath,
			TargetID:   candidates[i].CareerPathID,
			Score:      candidates[i].Score,
			Reasoning:  datatypes.NewJSONType(candidates[i].Breakdown),
			Rank:       candidates[i].Rank,
			Status:     model.RecommendationPending,
			ExpiresAt:  expiresAt,
		}
	}
	if err := s.RecommendationRepo.CreateBatch(ctx, recs); err != nil {
		return nil, nil, fmt.Errorf("save recommendations: %w", err)
	}
	return candidates, recs, nil
}
