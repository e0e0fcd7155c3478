package service

import (
	"context"
	"fmt"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"

	"gorm.io/datatypes"
)

// AssessmentAnswers 学前评估答案
type AssessmentAnswers struct {
	Motivations       []string `json:"motivations" binding:"required,min=1"`
	DreamProjects     []string `json:"dreamProjects"`
	SubjectInterests  []string `json:"subjectInterests"`
	PersonalityType   string   `json:"personalityType"`
	IndustryInterests []string `json:"industryInterests" binding:"required,min=1"`
	WorkStyle         string   `json:"workStyle" binding:"required"`
	MathComfort       string   `json:"mathComfort"`
	DailyRoutine      string   `json:"dailyRoutine"`
	TimeHorizon       string   `json:"timeHorizon" binding:"required"`
	BackgroundLevel   string   `json:"backgroundLevel" binding:"required"`
	ContentPreference string   `json:"contentPreference"`
	AnalyticalScore   int      `json:"analyticalScore" binding:"min=0,max=100"`
	Context           string   `json:"context"`
}

// InitialDifficulty 0.7*背景技能 + 0.3*分析能力
func InitialDifficulty(backgroundLevel string, analyticalScore int) float64 {
	analytical := util.Clamp(float64(analyticalScore), 0, 100) / 100
	return util.Clamp01(0.7*BackgroundSkill(backgroundLevel) + 0.3*analytical)
}

type ProfileBuilder struct {
	Repo *repository.LearningProfileRepository
}

func NewProfileBuilder(repo *repository.LearningProfileRepository) *ProfileBuilder {
	return &ProfileBuilder{Repo: repo}
}

// Build 由评估答案构建画像，不落库；游客直接使用该结果
func (b *ProfileBuilder) Build(userID uint, answers AssessmentAnswers) *model.LearningProfile {
	return &model.LearningProfile{
		UserID:            userID,
		Motivations:       datatypes.JSONSlice[string](normalizeAll(answers.Motivations)),
		DreamProjects:     datatypes.JSONSlice[string](normalizeAll(answers.DreamProjects)),
		SubjectInterests:  datatypes.JSONSlice[string](normalizeAll(answers.SubjectInterests)),
		PersonalityType:   normalizeKey(answers.PersonalityType),
		IndustryInterests: datatypes.JSONSlice[string](normalizeAll(answers.IndustryInterests)),
		WorkStyle:         normalizeKey(answers.WorkStyle),
		MathComfort:       normalizeKey(answers.MathComfort),
		DailyRoutine:      normalizeKey(answers.DailyRoutine),
		TimeHorizon:       normalizeKey(answers.TimeHorizon),
		BackgroundLevel:   normalizeKey(answers.BackgroundLevel),
		ContentPreference: normalizeKey(answers.ContentPreference),
		Context:           normalizeKey(answers.Context),
		AnalyticalScore:   int(util.Clamp(float64(answers.AnalyticalScore), 0, 100)),
		DifficultyScore:   InitialDifficulty(answers.BackgroundLevel, answers.AnalyticalScore),
	}
}

// Save 保存认证用户的画像，重复提交会覆盖之前的答案
func (b *ProfileBuilder) Save(ctx context.Context, userID uint, answers AssessmentAnswers) (*model.LearningProfile, error) {
	profile := b.Build(userID, answers)
	if err := b.Repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("save learning profile: %w", err)
	}
	// upsert 冲突更新时不会回填主键，重新读取
	saved, err := b.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload learning profile: %w", err)
	}
	return saved, nil
}

func normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := normalizeKey(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
