package service

import (
	"fmt"
	"testing"

	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLessons(courseID uint, n int) []PlanLesson {
	lessons := make([]PlanLesson, n)
	for i := range lessons {
		lessons[i] = PlanLesson{
			LessonID:    courseID*100 + uint(i) + 1,
			CourseID:    courseID,
			Title:       fmt.Sprintf("lesson %d-%d", courseID, i+1),
			CourseTitle: fmt.Sprintf("course %d", courseID),
		}
	}
	return lessons
}

func countEntries(day PlanDay) (learn, review, rest, milestone, challenge int) {
	for _, e := range day.Entries {
		switch e.(type) {
		case learnEntry:
			learn++
		case reviewEntry:
			review++
		case restEntry:
			rest++
		case milestoneEntry:
			milestone++
		case challengeEntry:
			challenge++
		}
	}
	return
}

func defaultLayout() PlanLayout {
	return LayoutFromConfig(config.DefaultRecommenderConfig().Plan)
}

func TestBuildPlanDaysDailyBudget(t *testing.T) {
	days := BuildPlanDays(makeLessons(1, 100), 60, defaultLayout())
	require.GreaterOrEqual(t, len(days), 14)

	learn, review, _, _, _ := countEntries(days[0])
	assert.Equal(t, 3, learn, "day 1 learn items")
	assert.Equal(t, 0, review)

	// 第 5 天先复习 15 分钟，剩余 45 分钟排两节
	day5 := days[4]
	require.Equal(t, 5, day5.Number)
	_, isReview := day5.Entries[0].(reviewEntry)
	assert.True(t, isReview, "day 5 starts with review")
	learn, review, _, _, _ = countEntries(day5)
	assert.Equal(t, 1, review)
	assert.Equal(t, 2, learn)

	day14 := days[13]
	require.Equal(t, 14, day14.Number)
	require.Len(t, day14.Entries, 1)
	_, isRest := day14.Entries[0].(restEntry)
	assert.True(t, isRest, "day 14 is a rest day")
}

func TestBuildPlanDaysMilestones(t *testing.T) {
	days := BuildPlanDays(makeLessons(1, 25), 60, defaultLayout())

	var milestones []milestoneEntry
	learned := 0
	for _, d := range days {
		for _, e := range d.Entries {
			switch e := e.(type) {
			case learnEntry:
				learned++
			case milestoneEntry:
				assert.Equal(t, learned, e.LessonsCompleted)
				milestones = append(milestones, e)
			}
		}
	}
	assert.Equal(t, 25, learned)
	require.Len(t, milestones, 2)
	assert.Equal(t, 10, milestones[0].LessonsCompleted)
	assert.Equal(t, 20, milestones[1].LessonsCompleted)
}

func TestBuildPlanDaysAlwaysPlacesOneLesson(t *testing.T) {
	days := BuildPlanDays(makeLessons(1, 6), 10, defaultLayout())
	require.Len(t, days, 6)
	for _, d := range days {
		learn, _, _, _, _ := countEntries(d)
		assert.Equal(t, 1, learn, "day %d", d.Number)
	}
}

func TestBuildPlanDaysStopsAtMaxDays(t *testing.T) {
	layout := defaultLayout()
	days := BuildPlanDays(makeLessons(1, 500), 20, layout)
	assert.Len(t, days, layout.MaxDays)
	assert.Equal(t, layout.MaxDays, days[len(days)-1].Number)
}

func TestBuildPlanDaysEmpty(t *testing.T) {
	assert.Empty(t, BuildPlanDays(nil, 60, defaultLayout()))
}

func TestBuildPlanDaysChallengeAfterCourse(t *testing.T) {
	layout := defaultLayout()
	layout.ChallengeAfterCourse = true
	lessons := append(makeLessons(1, 2), makeLessons(2, 2)...)

	days := BuildPlanDays(lessons, 60, layout)
	require.Len(t, days, 4)

	learn, _, _, _, challenge := countEntries(days[0])
	assert.Equal(t, 2, learn)
	assert.Equal(t, 0, challenge)

	c, ok := days[1].Entries[0].(challengeEntry)
	require.True(t, ok, "challenge opens the next day")
	assert.Equal(t, uint(1), c.CourseID)
	learn, _, _, _, _ = countEntries(days[1])
	assert.Equal(t, 1, learn)

	require.Len(t, days[3].Entries, 1)
	c, ok = days[3].Entries[0].(challengeEntry)
	require.True(t, ok)
	assert.Equal(t, uint(2), c.CourseID)
}

func TestBuildPlanDaysNoChallengeByDefault(t *testing.T) {
	lessons := append(makeLessons(1, 2), makeLessons(2, 2)...)
	for _, d := range BuildPlanDays(lessons, 60, defaultLayout()) {
		_, _, _, _, challenge := countEntries(d)
		assert.Zero(t, challenge)
	}
}

func TestToPlanItems(t *testing.T) {
	days := []PlanDay{
		{Number: 1, Entries: []planEntry{
			learnEntry{Lesson: PlanLesson{LessonID: 7, CourseID: 3, Title: "Intro"}, Minutes: 20},
			milestoneEntry{LessonsCompleted: 10},
		}},
		{Number: 2, Entries: []planEntry{restEntry{}}},
		{Number: 5, Entries: []planEntry{
			reviewEntry{Minutes: 15},
			challengeEntry{CourseID: 3, CourseTitle: "Go", Minutes: 30},
		}},
	}

	items := ToPlanItems(days)
	require.Len(t, items, 5)

	assert.Equal(t, model.PlanItemLearn, items[0].Type)
	assert.Equal(t, "Intro", items[0].Title)
	require.NotNil(t, items[0].LessonID)
	assert.Equal(t, uint(7), *items[0].LessonID)
	assert.Equal(t, uint(3), *items[0].CourseID)
	assert.Equal(t, 20, items[0].EstimatedMinutes)
	assert.Equal(t, 0, items[0].Position)

	assert.Equal(t, model.PlanItemMilestone, items[1].Type)
	assert.Equal(t, 1, items[1].Position)
	assert.Contains(t, items[1].Title, "10 lessons")

	assert.Equal(t, model.PlanItemRest, items[2].Type)
	assert.Equal(t, 2, items[2].DayNumber)
	assert.Nil(t, items[2].LessonID)

	assert.Equal(t, model.PlanItemReview, items[3].Type)
	assert.Equal(t, model.PlanItemChallenge, items[4].Type)
	assert.Equal(t, "Challenge: Go", items[4].Title)
	assert.Equal(t, 5, items[4].DayNumber)
}
