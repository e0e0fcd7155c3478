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
	"gorm.io/datatypes"
)

func newRec(userID uint, target uint, rank int, status model.RecommendationStatus, expires time.Time) model.Recommendation {
	return model.Recommendation{
		UserID:     userID,
		TargetType: model.TargetCareerPath,
		TargetID:   target,
		Score:      1 / float64(rank),
		Reasoning:  datatypes.NewJSONType(model.ScoreBreakdown{}),
		Rank:       rank,
		Status:     status,
		ExpiresAt:  expires,
	}
}

func TestRecommendationLifecycle(t *testing.T) {
	db := testutil.DB(t)
	repo := repository.NewRecommendationRepository(db)
	ctx := context.Background()
	now := time.Now()
	user := testutil.SeedUser(t, db, "rec-owner")
	other := testutil.SeedUser(t, db, "rec-other")

	recs := []model.Recommendation{
		newRec(user.ID, 1, 3, model.RecommendationPending, now.Add(time.Hour)),
		newRec(user.ID, 2, 1, model.RecommendationAccepted, now.Add(time.Hour)),
		newRec(user.ID, 3, 2, model.RecommendationDismissed, now.Add(time.Hour)),
		newRec(user.ID, 4, 4, model.RecommendationAccepted, now.Add(-time.Hour)),
		newRec(other.ID, 1, 1, model.RecommendationPending, now.Add(time.Hour)),
	}
	require.NoError(t, repo.CreateBatch(ctx, recs))
	for _, r := range recs {
		assert.NotEmpty(t, r.ID)
	}

	active, err := repo.ListActive(ctx, user.ID, model.TargetCareerPath, now)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, uint(2), active[0].TargetID)
	assert.Equal(t, uint(1), active[1].TargetID)

	// 待处理与过期的被删除，已接受/已忽略且未过期的保留
	require.NoError(t, repo.DeleteStale(ctx, user.ID, model.TargetCareerPath, now))
	var left []model.Recommendation
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("target_id").Find(&left).Error)
	require.Len(t, left, 2)
	assert.Equal(t, uint(2), left[0].TargetID)
	assert.Equal(t, uint(3), left[1].TargetID)

	require.NoError(t, repo.UpdateStatus(ctx, left[1].ID, model.RecommendationAccepted))
	found, err := repo.FindByID(ctx, left[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.RecommendationAccepted, found.Status)

	n, err := repo.PurgeExpired(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.CreateBatch(ctx, nil))
}

func TestSettledTargetIDs(t *testing.T) {
	db := testutil.DB(t)
	repo := repository.NewRecommendationRepository(db)
	ctx := context.Background()
	now := time.Now()
	user := testutil.SeedUser(t, db, "settled-owner")
	other := testutil.SeedUser(t, db, "settled-other")

	require.NoError(t, repo.CreateBatch(ctx, []model.Recommendation{
		newRec(user.ID, 1, 1, model.RecommendationPending, now.Add(time.Hour)),
		newRec(user.ID, 2, 2, model.RecommendationAccepted, now.Add(time.Hour)),
		newRec(user.ID, 3, 3, model.RecommendationDismissed, now.Add(time.Hour)),
		newRec(user.ID, 4, 4, model.RecommendationDismissed, now.Add(-time.Hour)),
		newRec(other.ID, 5, 1, model.RecommendationDismissed, now.Add(time.Hour)),
	}))

	settled, err := repo.SettledTargetIDs(ctx, user.ID, model.TargetCareerPath, now)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{2: true, 3: true}, settled)

	settled, err = repo.SettledTargetIDs(ctx, user.ID, model.TargetCourse, now)
	require.NoError(t, err)
	assert.Empty(t, settled)
}
