package model

import "time"

// Course、Lesson 等课程内容由内容服务维护，本服务只读取
// swagger:model Course
type Course struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Difficulty  Difficulty `gorm:"type:varchar(10)" json:"difficulty"`
	IsPublished bool       `gorm:"default:true" json:"isPublished"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID         uint       `gorm:"index;not null" json:"courseId"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Order            int        `gorm:"column:sort_order;default:0" json:"order"`
	Difficulty       Difficulty `gorm:"type:varchar(10);index" json:"difficulty"`
	XPReward         int        `gorm:"default:10" json:"xpReward"`
	EstimatedMinutes int        `gorm:"default:0" json:"estimatedMinutes"`
	IsPublished      bool       `gorm:"default:true" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonCompletion 课时完成记录；TimeSpentSeconds 为 0 表示未记录用时
type LessonCompletion struct {
	BaseModel
	UserID           uint      `gorm:"index:idx_lesson_completion_user;not null" json:"userId"`
	LessonID         uint      `gorm:"index;not null" json:"lessonId"`
	XPEarned         int       `gorm:"default:0" json:"xpEarned"`
	HintsUsed        int       `gorm:"default:0" json:"hintsUsed"`
	TimeSpentSeconds int       `gorm:"default:0" json:"timeSpentSeconds"`
	CompletedAt      time.Time `gorm:"index:idx_lesson_completion_user" json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

// CourseEnrollment 用户在课程上的进度，CompletionRatio 在 [0,1]
type CourseEnrollment struct {
	BaseModel
	UserID          uint      `gorm:"uniqueIndex:idx_course_enrollment;not null" json:"userId"`
	CourseID        uint      `gorm:"uniqueIndex:idx_course_enrollment;not null" json:"courseId"`
	CompletionRatio float64   `gorm:"default:0" json:"completionRatio"`
	StartedAt       time.Time `json:"startedAt"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}

// QuizAnswer 单题作答记录，Attempt 从 1 开始
type QuizAnswer struct {
	BaseModel
	UserID     uint      `gorm:"index:idx_quiz_answer_user;not null" json:"userId"`
	QuestionID uint      `gorm:"index" json:"questionId"`
	Correct    bool      `json:"correct"`
	Attempt    int       `gorm:"default:1" json:"attempt"`
	AnsweredAt time.Time `gorm:"index:idx_quiz_answer_user" json:"answeredAt"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}

// ChallengeSubmission 编程挑战提交记录
type ChallengeSubmission struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_challenge_submission_user;not null" json:"userId"`
	ChallengeID uint      `gorm:"index" json:"challengeId"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `gorm:"index:idx_challenge_submission_user" json:"submittedAt"`
}

func (ChallengeSubmission) TableName() string {
	return "challenge_submissions"
}
