package repository_test

import (
	"context"
	"testing"
	"time"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveSnapshots(t *testing.T) {
	db := testutil.DB(t)
	repo := repository.NewSnapshotRepository(db)
	ctx := context.Background()
	now := time.Now()

	empty, err := repo.ActiveSnapshots(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, empty)

	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	disabled := testutil.SeedUser(t, db, "disabled")
	require.NoError(t, db.Model(disabled).Update("disabled", true).Error)
	pending := testutil.SeedUser(t, db, "pending")
	require.NoError(t, db.Model(pending).Update("onboarded", false).Error)
	require.NoError(t, db.Model(alice).Update("xp", 120).Error)

	testutil.SeedProfile(t, db, alice.ID, 0.7)
	course, lessons := testutil.SeedCourse(t, db, "go", model.DifficultyHard, 2)
	testutil.CompleteLesson(t, db, alice.ID, lessons[0], now)
	require.NoError(t, db.Create(&model.CourseEnrollment{
		UserID: alice.ID, CourseID: course.ID, CompletionRatio: 0.5, StartedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.Checkin{UserID: alice.ID, CheckinAt: now, StreakDays: 4}).Error)

	snapshots, err := repo.ActiveSnapshots(ctx, now)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	a := snapshots[0]
	assert.Equal(t, alice.ID, a.UserID)
	assert.Equal(t, 120, a.TotalXP)
	assert.Equal(t, 0.7, a.DifficultyScore)
	assert.Equal(t, 2, a.InterestTagCount)
	assert.Equal(t, []float64{0.5}, a.CompletionRatios)
	assert.Equal(t, map[uint]float64{course.ID: 0.5}, a.CourseProgress)
	assert.Equal(t, []model.Difficulty{model.DifficultyHard}, a.CompletedLessonDifficulties)
	assert.Equal(t, 4, a.CurrentStreak)
	assert.Zero(t, a.DaysSinceSignup)

	b := snapshots[1]
	assert.Equal(t, bob.ID, b.UserID)
	assert.Zero(t, b.DifficultyScore)
	assert.Empty(t, b.CompletionRatios)
	assert.NotNil(t, b.CourseProgress)
}
