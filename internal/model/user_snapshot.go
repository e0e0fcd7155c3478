package model

// UserSnapshot 协同过滤用的用户快照，不落库，由仓储层批量组装
type UserSnapshot struct {
	UserID                      uint
	DifficultyScore             float64
	InterestTagCount            int
	CompletionRatios            []float64
	CompletedLessonDifficulties []Difficulty
	TotalXP                     int
	DaysSinceSignup             int
	CurrentStreak               int
	// CourseProgress 课程 ID -> 完成度
	CourseProgress map[uint]float64
}

// LessonPerformance 一次课时完成记录及对应课时的元数据
type LessonPerformance struct {
	LessonID         uint
	XPEarned         int
	MaxXP            int
	Difficulty       Difficulty
	HintsUsed        int
	TimeSpentSeconds int
	ExpectedMinutes  int
}
