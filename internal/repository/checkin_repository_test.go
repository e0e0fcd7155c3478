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

func TestCurrentStreak(t *testing.T) {
	db := testutil.DB(t)
	repo := repository.NewCheckinRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.Local)

	recent := testutil.SeedUser(t, db, "recent")
	lapsed := testutil.SeedUser(t, db, "lapsed")
	never := testutil.SeedUser(t, db, "never")

	require.NoError(t, db.Create(&model.Checkin{UserID: recent.ID, CheckinAt: now.AddDate(0, 0, -3), StreakDays: 2}).Error)
	require.NoError(t, db.Create(&model.Checkin{UserID: recent.ID, CheckinAt: now.AddDate(0, 0, -1).Add(-10 * time.Hour), StreakDays: 5}).Error)
	require.NoError(t, db.Create(&model.Checkin{UserID: lapsed.ID, CheckinAt: now.AddDate(0, 0, -2), StreakDays: 12}).Error)

	streak, err := repo.CurrentStreak(ctx, recent.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 5, streak)

	streak, err = repo.CurrentStreak(ctx, lapsed.ID, now)
	require.NoError(t, err)
	assert.Zero(t, streak, "a gap of two days breaks the streak")

	streak, err = repo.CurrentStreak(ctx, never.ID, now)
	require.NoError(t, err)
	assert.Zero(t, streak)

	streaks, err := repo.CurrentStreaks(ctx, []uint{recent.ID, lapsed.ID, never.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{recent.ID: 5}, streaks)

	empty, err := repo.CurrentStreaks(ctx, nil, now)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
