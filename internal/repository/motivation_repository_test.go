package repository_test

import (
	"context"
	"testing"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotivationForDay(t *testing.T) {
	db := testutil.DB(t)
	repo := repository.NewMotivationRepository(db)
	ctx := context.Background()

	m, err := repo.ForDay(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, m)

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&model.Motivation{Content: content, IsEnabled: true}).Error)
	}
	require.NoError(t, db.Create(&model.Motivation{Content: "hidden", IsEnabled: true}).Error)
	require.NoError(t, db.Model(&model.Motivation{}).Where("content = ?", "hidden").Update("is_enabled", false).Error)

	tests := []struct {
		day  int
		want string
	}{
		{0, "first"},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, "first"},
	}
	for _, tt := range tests {
		m, err := repo.ForDay(ctx, tt.day)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, tt.want, m.Content, "day %d", tt.day)
	}
}
