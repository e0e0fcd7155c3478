package testutil

import (
	"fmt"
	"testing"
	"time"

	"learnpath_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, db *gorm.DB, name string) *model.User {
	tb.Helper()
	u := &model.User{
		Name:      name,
		Email:     fmt.Sprintf("%s@example.com", name),
		Role:      model.Student,
		Onboarded: true,
		LastSeen:  time.Now(),
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, db *gorm.DB, userID uint, difficulty float64) *model.LearningProfile {
	tb.Helper()
	p := &model.LearningProfile{
		UserID:            userID,
		Motivations:       datatypes.JSONSlice[string]{"career_change"},
		SubjectInterests:  datatypes.JSONSlice[string]{"programming"},
		IndustryInterests: datatypes.JSONSlice[string]{"tech"},
		WorkStyle:         "solo",
		TimeHorizon:       "6_months",
		BackgroundLevel:   "beginner",
		AnalyticalScore:   60,
		DifficultyScore:   difficulty,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

// SeedCourse 创建一个课程及 n 节已发布课时，课时难度与课程一致
func SeedCourse(tb testing.TB, db *gorm.DB, title string, difficulty model.Difficulty, n int) (*model.Course, []model.Lesson) {
	tb.Helper()
	c := &model.Course{Title: title, Difficulty: difficulty, IsPublished: true}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}

	lessons := make([]model.Lesson, n)
	for i := range lessons {
		lessons[i] = model.Lesson{
			CourseID:         c.ID,
			Title:            fmt.Sprintf("%s-%d", title, i+1),
			Order:            i + 1,
			Difficulty:       difficulty,
			XPReward:         10,
			EstimatedMinutes: 20,
			IsPublished:      true,
		}
	}
	if n > 0 {
		if err := db.Create(&lessons).Error; err != nil {
			tb.Fatalf("seed lessons: %v", err)
		}
	}
	return c, lessons
}

// SeedCareerPath 创建已发布路径，每门课程对应一个节点，节点依次以前一个为前置
func SeedCareerPath(tb testing.TB, db *gorm.DB, name string, courses ...*model.Course) *model.CareerPath {
	tb.Helper()
	p := &model.CareerPath{
		Name:                  name,
		Slug:                  name,
		Industry:              "tech",
		EstimatedHours:        120,
		MarketDemand:          80,
		AnalyticalRequirement: 60,
		Outcomes:              datatypes.JSONSlice[string]{"job_ready"},
		Tags:                  datatypes.JSONSlice[string]{"programming", "web"},
		IsPublished:           true,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed career path: %v", err)
	}

	var prev uint
	for i, c := range courses {
		courseID := c.ID
		node := model.SkillNode{
			CareerPathID:  p.ID,
			Title:         c.Title,
			CourseID:      &courseID,
			Required:      true,
			Order:         i + 1,
			Prerequisites: datatypes.JSONSlice[uint]{},
		}
		if prev != 0 {
			node.Prerequisites = datatypes.JSONSlice[uint]{prev}
		}
		if err := db.Create(&node).Error; err != nil {
			tb.Fatalf("seed skill node: %v", err)
		}
		prev = node.ID
		p.Nodes = append(p.Nodes, node)
	}
	return p
}

func CompleteLesson(tb testing.TB, db *gorm.DB, userID uint, lesson model.Lesson, at time.Time) {
	tb.Helper()
	lc := &model.LessonCompletion{
		UserID:           userID,
		LessonID:         lesson.ID,
		XPEarned:         lesson.XPReward,
		TimeSpentSeconds: lesson.EstimatedMinutes * 60,
		CompletedAt:      at,
	}
	if err := db.Create(lc).Error; err != nil {
		tb.Fatalf("complete lesson: %v", err)
	}
}
