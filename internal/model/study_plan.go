package model

import "time"

type PlanStatus string

const (
	PlanActive    PlanStatus = "ACTIVE"
	PlanPaused    PlanStatus = "PAUSED"
	PlanCompleted PlanStatus = "COMPLETED"
	PlanAbandoned PlanStatus = "ABANDONED"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanActive, PlanPaused, PlanCompleted, PlanAbandoned:
		return true
	}
	return false
}

type PlanItemType string

const (
	PlanItemLearn     PlanItemType = "LEARN"
	PlanItemReview    PlanItemType = "REVIEW"
	PlanItemChallenge PlanItemType = "CHALLENGE"
	PlanItemRest      PlanItemType = "REST"
	PlanItemMilestone PlanItemType = "MILESTONE"
)

// StudyPlan 学习计划，同一用户最多一个 ACTIVE 计划，旧计划只暂停不删除
// swagger:model StudyPlan
type StudyPlan struct {
	UUIDBase
	UserID       uint            `gorm:"index;not null" json:"userId"`
	CareerPathID uint            `gorm:"index" json:"careerPathId"`
	Status       PlanStatus      `gorm:"type:varchar(20);index" json:"status"`
	DailyMinutes int             `json:"dailyMinutes"`
	StartDate    time.Time       `json:"startDate"`
	TotalDays    int             `json:"totalDays"`
	Items        []StudyPlanItem `gorm:"foreignKey:PlanID" json:"items,omitempty"`
}

func (StudyPlan) TableName() string {
	return "study_plans"
}

// swagger:model StudyPlanItem
type StudyPlanItem struct {
	UUIDBase
	PlanID           string       `gorm:"type:varchar(36);index;not null" json:"planId"`
	DayNumber        int          `gorm:"index" json:"dayNumber"`
	Position         int          `json:"position"`
	Type             PlanItemType `gorm:"type:varchar(20)" json:"type"`
	Title            string       `gorm:"size:255" json:"title"`
	LessonID         *uint        `json:"lessonId,omitempty"`
	CourseID         *uint        `json:"courseId,omitempty"`
	EstimatedMinutes int          `json:"estimatedMinutes"`
	Completed        bool         `gorm:"default:false" json:"completed"`
	CompletedAt      *time.Time   `json:"completedAt,omitempty"`
}

func (StudyPlanItem) TableName() string {
	return "study_plan_items"
}
