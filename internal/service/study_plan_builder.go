package service

import (
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"
)

// PlanLesson 待排入计划的课时
type PlanLesson struct {
	LessonID    uint
	CourseID    uint
	Title       string
	CourseTitle string
}

// PlanLayout 排期参数
type PlanLayout struct {
	LessonMinutes        int
	ReviewMinutes        int
	ChallengeMinutes     int
	RestEvery            int
	ReviewEvery          int
	MilestoneEvery       int
	MaxDays              int
	ChallengeAfterCourse bool
}

func LayoutFromConfig(cfg config.PlanConfig) PlanLayout {
	return PlanLayout{
		LessonMinutes:        cfg.LessonMinutes,
		ReviewMinutes:        cfg.ReviewMinutes,
		ChallengeMinutes:     cfg.ChallengeMinutes,
		RestEvery:            cfg.RestEvery,
		ReviewEvery:          cfg.ReviewEvery,
		MilestoneEvery:       cfg.MilestoneEvery,
		MaxDays:              cfg.MaxDays,
		ChallengeAfterCourse: cfg.ChallengeAfterCourse,
	}
}

// planEntry 计划条目的封闭变体，只有本文件中的类型实现它
type planEntry interface {
	planEntry()
}

type learnEntry struct {
	Lesson  PlanLesson
	Minutes int
}

type reviewEntry struct {
	Minutes int
}

type challengeEntry struct {
	CourseID    uint
	CourseTitle string
	Minutes     int
}

type restEntry struct{}

type milestoneEntry struct {
	LessonsCompleted int
}

func (learnEntry) planEntry()     {}
func (reviewEntry) planEntry()    {}
func (challengeEntry) planEntry() {}
func (restEntry) planEntry()      {}
func (milestoneEntry) planEntry() {}

// PlanDay 计划中的一天
type PlanDay struct {
	Number  int
	Entries []planEntry
}

// BuildPlanDays 将课时按每日预算排成天：每 RestEvery 天休息一天，每 ReviewEvery 天先安排复习，
// 其余时间填充课时，每完成 MilestoneEvery 个课时插入里程碑。预算不足一节课的日子仍安排一节
func BuildPlanDays(lessons []PlanLesson, dailyMinutes int, layout PlanLayout) []PlanDay {
	var (
		days    []PlanDay
		next    int
		learned int
		pending *challengeEntry
	)

	for day := 1; day <= layout.MaxDays && (next < len(lessons) || pending != nil); day++ {
		if layout.RestEvery > 0 && day%layout.RestEvery == 0 {
			days = append(days, PlanDay{Number: day, Entries: []planEntry{restEntry{}}})
			continue
		}

		budget := dailyMinutes
		var entries []planEntry
		if layout.ReviewEvery > 0 && day%layout.ReviewEvery == 0 {
			entries = append(entries, reviewEntry{Minutes: layout.ReviewMinutes})
			budget -= layout.ReviewMinutes
		}
		if pending != nil {
			entries = append(entries, *pending)
			budget -= pending.Minutes
			pending = nil
		}

		placed := 0
		for next < len(lessons) {
			if placed > 0 && budget < layout.LessonMinutes {
				break
			}
			lesson := lessons[next]
			entries = append(entries, learnEntry{Lesson: lesson, Minutes: layout.LessonMinutes})
			budget -= layout.LessonMinutes
			placed++
			learned++
			next++

			if layout.MilestoneEvery > 0 && learned%layout.MilestoneEvery == 0 {
				entries = append(entries, milestoneEntry{LessonsCompleted: learned})
			}
			lastOfCourse := next == len(lessons) || lessons[next].CourseID != lesson.CourseID
			if layout.ChallengeAfterCourse && lastOfCourse {
				pending = &challengeEntry{CourseID: lesson.CourseID, CourseTitle: lesson.CourseTitle, Minutes: layout.ChallengeMinutes}
				break
			}
		}

		days = append(days, PlanDay{Number: day, Entries: entries})
	}
	return days
}

// ToPlanItems 将排期转换为计划条目
func ToPlanItems(days []PlanDay) []model.StudyPlanItem {
	var items []model.StudyPlanItem
	for _, d := range days {
		for pos, e := range d.Entries {
			item := model.StudyPlanItem{DayNumber: d.Number, Position: pos}
			switch e := e.(type) {
			case learnEntry:
				item.Type = model.PlanItemLearn
				item.Title = e.Lesson.Title
				item.LessonID = util.UintPtr(e.Lesson.LessonID)
				item.CourseID = util.UintPtr(e.Lesson.CourseID)
				item.EstimatedMinutes = e.Minutes
			case reviewEntry:
				item.Type = model.PlanItemReview
				item.Title = "Review recent lessons"
				item.EstimatedMinutes = e.Minutes
			case challengeEntry:
				item.Type = model.PlanItemChallenge
				item.Title = fmt.Sprintf("Challenge: %s", e.CourseTitle)
				item.CourseID = util.UintPtr(e.CourseID)
				item.EstimatedMinutes = e.Minutes
			case restEntry:
				item.Type = model.PlanItemRest
				item.Title = "Rest day"
			case milestoneEntry:
				item.Type = model.PlanItemMilestone
				item.Title = fmt.Sprintf("Milestone: %d lessons completed", e.LessonsCompleted)
			default:
				panic(fmt.Sprintf("unknown plan entry %T", e))
			}
			items = append(items, item)
		}
	}
	return items
}
