package model

// LearningLog 记录用户的学习活动
type LearningLog struct {
	BaseModel
	UserID    uint   `gorm:"index" json:"userId"`
	Activity  string `gorm:"size:64" json:"activity"`
	Content   string `gorm:"type:text" json:"content"`
	RefID     string `gorm:"size:36;index" json:"refId"`
	Duration  int    `gorm:"default:0" json:"duration"`
	Completed bool   `gorm:"default:false" json:"completed"`
	Score     int    `gorm:"default:0" json:"score"`
}

func (LearningLog) TableName() string {
	return "learning_logs"
}

const (
	ActivityPlanItemComplete = "study_plan_item_complete"
	ActivityMilestoneReward  = "study_plan_milestone"
)
