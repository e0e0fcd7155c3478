package model

import (
	"time"

	"gorm.io/datatypes"
)

type RecommendationTarget string

const (
	TargetCareerPath RecommendationTarget = "CAREER_PATH"
	TargetCourse     RecommendationTarget = "COURSE"
)

type RecommendationStatus string

const (
	RecommendationPending   RecommendationStatus = "pending"
	RecommendationAccepted  RecommendationStatus = "accepted"
	RecommendationDismissed RecommendationStatus = "dismissed"
)

// ScoreBreakdown 路径匹配的九项子分，均在 [0,1]
type ScoreBreakdown struct {
	InterestAlignment     float64 `json:"interestAlignment"`
	GoalAlignment         float64 `json:"goalAlignment"`
	DreamProjectAlignment float64 `json:"dreamProjectAlignment"`
	PersonalityFit        float64 `json:"personalityFit"`
	SkillGap              float64 `json:"skillGap"`
	TimeViability         float64 `json:"timeViability"`
	MarketDemand          float64 `json:"marketDemand"`
	CommunityPopularity   float64 `json:"communityPopularity"`
	CognitiveMatch        float64 `json:"cognitiveMatch"`
}

// Recommendation 推荐记录。每次重新评分会删除待处理与过期的记录后重建，接受/忽略为终态
// swagger:model Recommendation
type Recommendation struct {
	UUIDBase
	UserID     uint                               `gorm:"index;not null" json:"userId"`
	TargetType RecommendationTarget               `gorm:"type:varchar(20);index" json:"targetType"`
	TargetID   uint                               `gorm:"index" json:"targetId"`
	Score      float64                            `json:"score"`
	Reasoning  datatypes.JSONType[ScoreBreakdown] `json:"reasoning"`
	Rank       int                                `json:"rank"`
	Status     RecommendationStatus               `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ExpiresAt  time.Time                          `gorm:"index" json:"expiresAt"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

func (r *Recommendation) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
