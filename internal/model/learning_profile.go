package model

import (
	"time"

	"gorm.io/datatypes"
)

// LearningProfile 学前评估生成的学习画像，每个用户一份；游客只在内存中持有
// swagger:model LearningProfile
type LearningProfile struct {
	BaseModel
	UserID             uint                        `gorm:"uniqueIndex;not null" json:"userId"`
	Motivations        datatypes.JSONSlice[string] `json:"motivations"`
	DreamProjects      datatypes.JSONSlice[string] `json:"dreamProjects"`
	SubjectInterests   datatypes.JSONSlice[string] `json:"subjectInterests"`
	PersonalityType    string                      `gorm:"size:32" json:"personalityType,omitempty"`
	IndustryInterests  datatypes.JSONSlice[string] `json:"industryInterests"`
	WorkStyle          string                      `gorm:"size:32" json:"workStyle"`
	MathComfort        string                      `gorm:"size:32" json:"mathComfort,omitempty"`
	DailyRoutine       string                      `gorm:"size:32" json:"dailyRoutine,omitempty"`
	TimeHorizon        string                      `gorm:"size:32" json:"timeHorizon"`
	BackgroundLevel    string                      `gorm:"size:32" json:"backgroundLevel"`
	ContentPreference  string                      `gorm:"size:32" json:"contentPreference,omitempty"`
	Context            string                      `gorm:"size:32" json:"context,omitempty"`
	AnalyticalScore    int                         `gorm:"default:0" json:"analyticalScore"`
	DifficultyScore    float64                     `gorm:"default:0" json:"difficultyScore"`
	LastCalibratedAt   *time.Time                  `json:"lastCalibratedAt,omitempty"`
	ActiveCareerPathID *uint                       `gorm:"index" json:"activeCareerPathId,omitempty"`
}

func (LearningProfile) TableName() string {
	return "learning_profiles"
}
