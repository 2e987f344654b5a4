package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
)

func TestWeekArg(t *testing.T) {
	week, err := weekArg(nil, 0)
	require.NoError(t, err)
	assert.Zero(t, week)

	week, err = weekArg([]string{"sms", "3"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, week)

	_, err = weekArg([]string{"0"}, 0)
	assert.Error(t, err)
	_, err = weekArg([]string{"three"}, 0)
	assert.Error(t, err)
}

func TestLatestResult(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "results.json"))
	a := &app{store: store}

	_, err := a.latestResult(ctx, 0)
	assert.ErrorIs(t, err, errNoResults)

	first := time.Date(2025, 9, 9, 8, 0, 0, 0, time.UTC)
	for _, r := range []models.WeekResult{
		{Week: 1, Season: 2025, ProcessedAt: models.Timestamp{Time: first}, Scores: models.TierScores{Highest: 9}},
		{Week: 2, Season: 2025, ProcessedAt: models.Timestamp{Time: first.Add(7 * 24 * time.Hour)}},
		{Week: 1, Season: 2025, ProcessedAt: models.Timestamp{Time: first.Add(time.Hour)}, Scores: models.TierScores{Highest: 11}},
	} {
		require.NoError(t, store.Append(ctx, r))
	}

	got, err := a.latestResult(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Week)

	got, err = a.latestResult(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.Scores.Highest)

	_, err = a.latestResult(ctx, 5)
	assert.ErrorIs(t, err, errNoResults)
}
