package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// FormatResult renders one stored week for display.
func FormatResult(r models.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Week %d:\n", r.Key().Week))

	switch r.Version {
	case models.SchemaTiered:
		writeTiered(&sb, *r.Tiered)
	case models.SchemaLegacy:
		writeLegacy(&sb, *r.Legacy)
	default:
		sb.WriteString("  (unrecognized record)\n")
	}

	if t := r.ProcessedAt(); !t.IsZero() {
		sb.WriteString(fmt.Sprintf("  📅 Processed: %s\n", t.Format("2006-01-02 15:04")))
	}
	return sb.String()
}

func writeTiered(sb *strings.Builder, w models.WeekResult) {
	sb.WriteString(fmt.Sprintf("  🥇 Highest: %s - %s pts\n", joinNames(w.WinnerNames.Highest), formatScore(w.Scores.Highest)))
	if len(w.Rankings.SecondHighest) > 0 {
		sb.WriteString(fmt.Sprintf("  🥈 Second: %s - %s pts\n", joinNames(w.WinnerNames.SecondHighest), formatScore(w.Scores.SecondHighest)))
	}
	if len(w.Rankings.ThirdHighest) > 0 {
		sb.WriteString(fmt.Sprintf("  🥉 Third: %s - %s pts\n", joinNames(w.WinnerNames.ThirdHighest), formatScore(w.Scores.ThirdHighest)))
	}
	sb.WriteString(fmt.Sprintf("  📉 Lowest: %s - %s pts\n", joinNames(w.WinnerNames.Lowest), formatScore(w.Scores.Lowest)))
	if len(w.Rankings.NoPicks) > 0 {
		sb.WriteString(fmt.Sprintf("  ❌ No Picks: %s\n", joinNames(w.WinnerNames.NoPicks)))
	}
	sb.WriteString(fmt.Sprintf("  🎯 Perfect Week: %s\n", joinNames(w.WinnerNames.PerfectWeek)))
}

func writeLegacy(sb *strings.Builder, l models.LegacyWeekResult) {
	sb.WriteString(fmt.Sprintf("  📊 High Score: %s - %s pts\n", joinNames(l.WinnerNames.HighScore), formatScore(l.HighScore)))
	if l.UnderdogPercentage != nil {
		sb.WriteString(fmt.Sprintf("  🐕 Underdog: %s - %.1f%% correct\n", joinNames(l.WinnerNames.Underdog), *l.UnderdogPercentage))
	} else {
		sb.WriteString(fmt.Sprintf("  🐕 Underdog: %s - %d/%d correct\n", joinNames(l.WinnerNames.Underdog), l.UnderdogCorrect, l.TotalUnderdogGames))
	}
}

// bySeason groups records by season, each season sorted by week.
func bySeason(records []models.Record) ([]int, map[int][]models.Record) {
	groups := make(map[int][]models.Record)
	for _, r := range records {
		s := r.Key().Season
		groups[s] = append(groups[s], r)
	}
	seasons := make([]int, 0, len(groups))
	for s, rs := range groups {
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Key().Week < rs[j].Key().Week })
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	return seasons, groups
}

// FormatAllResults renders every stored record grouped by season.
func FormatAllResults(records []models.Record) string {
	if len(records) == 0 {
		return "📊 No results stored yet\n"
	}

	var sb strings.Builder
	sb.WriteString("🏈 SKINS GAME RESULTS SUMMARY 🏈\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	seasons, groups := bySeason(records)
	for _, season := range seasons {
		sb.WriteString(fmt.Sprintf("\n📅 SEASON %d\n", season))
		sb.WriteString(strings.Repeat("-", 30) + "\n")
		for _, r := range groups[season] {
			sb.WriteString("\n")
			sb.WriteString(FormatResult(r))
		}
	}
	return sb.String()
}

type SeasonSummary struct {
	Season             int
	WeeksProcessed     int
	HighScoreWinners   int
	PerfectWeekWinners int
}

func SummarizeSeasons(records []models.Record) []SeasonSummary {
	seasons, groups := bySeason(records)
	out := make([]SeasonSummary, 0, len(seasons))
	for _, season := range seasons {
		high := make(map[string]bool)
		perfect := make(map[string]bool)
		for _, r := range groups[season] {
			switch r.Version {
			case models.SchemaTiered:
				for _, id := range r.Tiered.Rankings.Highest {
					high[id] = true
				}
				for _, id := range r.Tiered.PerfectWeekWinners {
					perfect[id] = true
				}
			case models.SchemaLegacy:
				for _, id := range r.Legacy.HighScoreWinners {
					high[id] = true
				}
			}
		}
		out = append(out, SeasonSummary{
			Season:             season,
			WeeksProcessed:     len(groups[season]),
			HighScoreWinners:   len(high),
			PerfectWeekWinners: len(perfect),
		})
	}
	return out
}

func FormatSeasonSummary(records []models.Record) string {
	if len(records) == 0 {
		return "📊 No results stored yet\n"
	}

	var sb strings.Builder
	sb.WriteString("📊 SEASON SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 30) + "\n")
	for _, s := range SummarizeSeasons(records) {
		sb.WriteString(fmt.Sprintf("\n🏈 Season %d:\n", s.Season))
		sb.WriteString(fmt.Sprintf("  📅 Weeks processed: %d\n", s.WeeksProcessed))
		sb.WriteString(fmt.Sprintf("  🥇 Unique high score winners: %d\n", s.HighScoreWinners))
		sb.WriteString(fmt.Sprintf("  🎯 Perfect weeks achieved: %d\n", s.PerfectWeekWinners))
	}
	return sb.String()
}

// FormatWeekSummary renders the raw per-user view of a week before it is
// processed.
func FormatWeekSummary(s WeekSummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Week %d Scores*\n\n", s.Week))
	if len(s.Users) == 0 {
		sb.WriteString("No pick'em data yet.\n")
		return sb.String()
	}
	for _, u := range s.Users {
		sb.WriteString(fmt.Sprintf("%s: %s pts (%d picks)\n", u.Name, formatScore(u.Score), len(u.Picks)))
	}
	return sb.String()
}
