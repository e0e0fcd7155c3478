package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"
	"math"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	interestTagCap = 10.0
	xpPerDayCap    = 100.0
	streakCap      = 30.0
)

// CourseRecommendation 相似用户完成度高而当前用户尚未开始的课程
type CourseRecommendation struct {
	CourseID         uint             `json:"courseId"`
	Title            string           `json:"title"`
	Difficulty       model.Difficulty `json:"difficulty"`
	Score            float64          `json:"score"`
	RawScore         float64          `json:"rawScore"`
	RecommenderCount int              `json:"recommenderCount"`
}

// Neighbor 相似用户及其余弦相似度
type Neighbor struct {
	UserID     uint
	Similarity float64
}

// BuildFeatureVector 快照 -> 6 维特征：难度档位、兴趣广度、平均课程完成度、
// 已完成课时平均难度、日均 XP、连续学习天数
func BuildFeatureVector(s model.UserSnapshot) []float64 {
	tier, _ := TierFor(util.Clamp01(s.DifficultyScore))

	var lessonDifficulty float64
	if len(s.CompletedLessonDifficulties) > 0 {
		var sum float64
		for _, d := range s.CompletedLessonDifficulties {
			sum += d.Value()
		}
		lessonDifficulty = sum / float64(len(s.CompletedLessonDifficulties))
	}

	days := s.DaysSinceSignup
	if days < 1 {
		days = 1
	}
	xpPerDay := float64(s.TotalXP) / float64(days)

	return []float64{
		tier.Value(),
		math.Min(1, float64(s.InterestTagCount)/interestTagCap),
		util.Clamp01(util.Mean(s.CompletionRatios)),
		lessonDifficulty,
		util.Clamp01(xpPerDay / xpPerDayCap),
		util.Clamp01(float64(s.CurrentStreak) / streakCap),
	}
}

// FindNeighbors 相似度不低于阈值的用户，按相似度降序取前 maxK 个
func FindNeighbors(targetID uint, target []float64, snapshots []model.UserSnapshot, minSimilarity float64, maxK int) []Neighbor {
	var neighbors []Neighbor
	for _, s := range snapshots {
		if s.UserID == targetID {
			continue
		}
		sim := util.CosineSimilarity(target, BuildFeatureVector(s))
		if sim >= minSimilarity {
			neighbors = append(neighbors, Neighbor{UserID: s.UserID, Similarity: sim})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].UserID < neighbors[j].UserID
	})
	if len(neighbors) > maxK {
		neighbors = neighbors[:maxK]
	}
	return neighbors
}

// AggregateCourses 累加相似度×完成度，归一化分 = 累加分 / 所有邻居相似度之和
func AggregateCourses(target model.UserSnapshot, neighbors []Neighbor, byUser map[uint]model.UserSnapshot, minCompletion float64, topN int) []CourseRecommendation {
	var simSum float64
	for _, n := range neighbors {
		simSum += n.Similarity
	}
	if simSum <= 0 {
		return []CourseRecommendation{}
	}

	acc := make(map[uint]*CourseRecommendation)
	for _, n := range neighbors {
		for courseID, completion := range byUser[n.UserID].CourseProgress {
			if completion < minCompletion {
				continue
			}
			if _, started := target.CourseProgress[courseID]; started {
				continue
			}
			rec, ok := acc[courseID]
			if !ok {
				rec = &CourseRecommendation{CourseID: courseID}
				acc[courseID] = rec
			}
			rec.RawScore += n.Similarity * completion
			rec.RecommenderCount++
		}
	}

	recs := make([]CourseRecommendation, 0, len(acc))
	for _, rec := range acc {
		rec.Score = util.Clamp01(rec.RawScore / simSum)
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].RecommenderCount != recs[j].RecommenderCount {
			return recs[i].RecommenderCount > recs[j].RecommenderCount
		}
		return recs[i].CourseID < recs[j].CourseID
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

type CollaborativeRecommender struct {
	SnapshotRepo *repository.SnapshotRepository
	CourseRepo   *repository.CourseRepository
	Redis        *redis.Client
	cfg          config.CollaborativeConfig
	now          func() time.Time
}

func NewCollaborativeRecommender(
	snapshotRepo *repository.SnapshotRepository,
	courseRepo *repository.CourseRepository,
	rdb *redis.Client,
	cfg config.CollaborativeConfig,
) *CollaborativeRecommender {
	return &CollaborativeRecommender{
		SnapshotRepo: snapshotRepo,
		CourseRepo:   courseRepo,
		Redis:        rdb,
		cfg:          cfg,
		now:          time.Now,
	}
}

func collaborativeCacheKey(userID uint) string {
	return fmt.Sprintf("learnpath:collab:%d", userID)
}

// Recommend 全量扫描活跃用户，用户数或邻居数不足时返回空列表而非错误
func (r *CollaborativeRecommender) Recommend(ctx context.Context, userID uint) ([]CourseRecommendation, error) {
	if cached, ok := r.getCached(ctx, userID); ok {
		return cached, nil
	}
	defer monitoring.ObserveSince("collaborative", time.Now())

	snapshots, err := r.SnapshotRepo.ActiveSnapshots(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("load user snapshots: %w", err)
	}
	if len(snapshots) < r.cfg.MinUsers {
		logger.Log.Warn("协同过滤用户数不足", zap.Uint("userId", userID), zap.Int("users", len(snapshots)), zap.Int("required", r.cfg.MinUsers))
		monitoring.CollaborativeColdStarts.Inc()
		return []CourseRecommendation{}, nil
	}

	byUser := make(map[uint]model.UserSnapshot, len(snapshots))
	for _, s := range snapshots {
		byUser[s.UserID] = s
	}
	target, ok := byUser[userID]
	if !ok {
		logger.Log.Warn("协同过滤目标用户不在活跃用户中", zap.Uint("userId", userID))
		return []CourseRecommendation{}, nil
	}

	neighbors := FindNeighbors(userID, BuildFeatureVector(target), snapshots, r.cfg.MinSimilarity, r.cfg.MaxNeighbors)
	if len(neighbors) < r.cfg.MinNeighbors {
		logger.Log.Warn("协同过滤相似用户不足", zap.Uint("userId", userID), zap.Int("neighbors", len(neighbors)), zap.Int("required", r.cfg.MinNeighbors))
		monitoring.CollaborativeColdStarts.Inc()
		return []CourseRecommendation{}, nil
	}

	recs := AggregateCourses(target, neighbors, byUser, r.cfg.MinCompletion, r.cfg.TopN)
	if err := r.attachCourses(ctx, recs); err != nil {
		return nil, err
	}

	r.setCached(ctx, userID, recs)
	return recs, nil
}

func (r *CollaborativeRecommender) attachCourses(ctx context.Context, recs []CourseRecommendation) error {
	if len(recs) == 0 {
		return nil
	}
	ids := make([]uint, len(recs))
	for i, rec := range recs {
		ids[i] = rec.CourseID
	}
	courses, err := r.CourseRepo.FindCoursesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}
	byID := make(map[uint]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	for i := range recs {
		if c, ok := byID[recs[i].CourseID]; ok {
			recs[i].Title = c.Title
			recs[i].Difficulty = c.Difficulty
		}
	}
	return nil
}

func (r *CollaborativeRecommender) getCached(ctx context.Context, userID uint) ([]CourseRecommendation, bool) {
	if r.Redis == nil {
		return nil, false
	}
	data, err := r.Redis.Get(ctx, collaborativeCacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Error("读取协同过滤缓存失败", zap.Uint("userId", userID), zap.Error(err))
		}
		return nil, false
	}
	var recs []CourseRecommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		logger.Log.Error("解析协同过滤缓存失败", zap.Uint("userId", userID), zap.Error(err))
		return nil, false
	}
	return recs, true
}

func (r *CollaborativeRecommender) setCached(ctx context.Context, userID uint, recs []CourseRecommendation) {
	if r.Redis == nil {
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := r.Redis.Set(ctx, collaborativeCacheKey(userID), data, r.cfg.CacheTTL).Err(); err != nil {
		logger.Log.Error("写入协同过滤缓存失败", zap.Uint("userId", userID), zap.Error(err))
	}
}
