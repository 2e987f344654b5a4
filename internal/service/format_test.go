package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

func tiered(week, season int, processed time.Time) models.WeekResult {
	return models.WeekResult{
		Week:        week,
		Season:      models.FlexInt(season),
		ProcessedAt: models.Timestamp{Time: processed},
		Rankings: models.TierIDs{
			Highest: []string{"u1"},
			Lowest:  []string{"u2", "u3"},
			NoPicks: []string{"u4"},
		},
		Scores:             models.TierScores{Highest: 11.5, Lowest: 4},
		PerfectWeekWinners: []string{"u1"},
		WinnerNames: models.WinnerNames{
			Highest:     []string{"Alice"},
			Lowest:      []string{"Bob", "Carol"},
			NoPicks:     []string{"Dan"},
			PerfectWeek: []string{"Alice"},
		},
	}
}

func legacy(week, season int) models.LegacyWeekResult {
	pct := 66.666
	return models.LegacyWeekResult{
		Week:               week,
		Season:             models.FlexInt(season),
		HighScore:          9,
		HighScoreWinners:   []string{"u2"},
		UnderdogPercentage: &pct,
		WinnerNames: models.LegacyWinnerNames{
			HighScore: []string{"Bob"},
			Underdog:  []string{"Carol"},
		},
	}
}

func TestFormatResultTiered(t *testing.T) {
	out := FormatResult(models.NewRecord(tiered(3, 2025, time.Date(2025, 9, 23, 8, 0, 0, 0, time.UTC))))

	assert.Contains(t, out, "Week 3:")
	assert.Contains(t, out, "Highest: Alice - 11.5 pts")
	assert.Contains(t, out, "Lowest: Bob, Carol - 4 pts")
	assert.Contains(t, out, "No Picks: Dan")
	assert.Contains(t, out, "Perfect Week: Alice")
	assert.Contains(t, out, "Processed: 2025-09-23 08:00")
	assert.NotContains(t, out, "Second")
}

func TestFormatResultLegacy(t *testing.T) {
	out := FormatResult(models.NewLegacyRecord(legacy(1, 2024)))

	assert.Contains(t, out, "High Score: Bob - 9 pts")
	assert.Contains(t, out, "Underdog: Carol - 66.7% correct")
	assert.NotContains(t, out, "Processed")
}

func TestFormatAllResultsGroupsBySeason(t *testing.T) {
	ts := time.Date(2025, 9, 9, 8, 0, 0, 0, time.UTC)
	out := FormatAllResults([]models.Record{
		models.NewRecord(tiered(2, 2025, ts)),
		models.NewLegacyRecord(legacy(5, 2024)),
		models.NewRecord(tiered(1, 2025, ts)),
	})

	s2024 := indexOf(out, "SEASON 2024")
	s2025 := indexOf(out, "SEASON 2025")
	w1 := indexOf(out, "Week 1:")
	w2 := indexOf(out, "Week 2:")
	require.True(t, s2024 >= 0 && s2025 >= 0)
	assert.Less(t, s2024, s2025)
	assert.Less(t, s2025, w1)
	assert.Less(t, w1, w2)

	assert.Equal(t, "📊 No results stored yet\n", FormatAllResults(nil))
}

func TestSummarizeSeasons(t *testing.T) {
	ts := time.Date(2025, 9, 9, 8, 0, 0, 0, time.UTC)
	second := tiered(2, 2025, ts)
	second.Rankings.Highest = []string{"u2"}
	second.PerfectWeekWinners = []string{}

	summaries := SummarizeSeasons([]models.Record{
		models.NewRecord(tiered(1, 2025, ts)),
		models.NewRecord(second),
		models.NewLegacyRecord(legacy(1, 2024)),
	})

	require.Len(t, summaries, 2)
	assert.Equal(t, SeasonSummary{Season: 2024, WeeksProcessed: 1, HighScoreWinners: 1}, summaries[0])
	assert.Equal(t, SeasonSummary{Season: 2025, WeeksProcessed: 2, HighScoreWinners: 2, PerfectWeekWinners: 1}, summaries[1])
	assert.Contains(t, FormatSeasonSummary([]models.Record{models.NewRecord(second)}), "Weeks processed: 1")
}

func TestFormatWeekSummary(t *testing.T) {
	out := FormatWeekSummary(WeekSummary{Week: 2, Users: []UserWeek{{Name: "Alice", Score: 7, Picks: []string{"KC", "BUF"}}}})
	assert.Contains(t, out, "Alice: 7 pts (2 picks)")
	assert.Contains(t, FormatWeekSummary(WeekSummary{Week: 2}), "No pick'em data yet.")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
