// Package export turns the results history into spreadsheet tables.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
)

// Table is a header plus rows of string, int or float64 cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Weeks keeps the most recently processed tiered record for each
// (week, season) and drops legacy records, which have no tiers to report.
func Weeks(records []models.Record) []models.WeekResult {
	var out []models.WeekResult
	for _, r := range jsonfile.Latest(records) {
		if r.Version != models.SchemaTiered {
			continue
		}
		out = append(out, *r.Tiered)
	}
	return out
}

func join(ids, names []string) string {
	if len(ids) == 0 {
		return ""
	}
	return strings.Join(names, ", ")
}

func optionalScore(ids []string, score float64) any {
	if len(ids) == 0 {
		return ""
	}
	return score
}

func WeeklyBreakdown(weeks []models.WeekResult) Table {
	t := Table{
		Name: "Weekly_Breakdown",
		Header: []string{
			"Week", "Season", "Date_Processed",
			"Highest_Scorer", "Highest_Score",
			"Second_Highest", "Second_Score",
			"Third_Highest", "Third_Score",
			"Lowest_Scorer", "Lowest_Score",
			"No_Picks", "Perfect_Week", "Perfect_Week_Count",
		},
	}
	for _, w := range weeks {
		processed := ""
		if !w.ProcessedAt.IsZero() {
			processed = w.ProcessedAt.Format(time.RFC3339)
		}
		t.Rows = append(t.Rows, []any{
			w.Week, int(w.Season), processed,
			strings.Join(w.WinnerNames.Highest, ", "), w.Scores.Highest,
			join(w.Rankings.SecondHighest, w.WinnerNames.SecondHighest), optionalScore(w.Rankings.SecondHighest, w.Scores.SecondHighest),
			join(w.Rankings.ThirdHighest, w.WinnerNames.ThirdHighest), optionalScore(w.Rankings.ThirdHighest, w.Scores.ThirdHighest),
			strings.Join(w.WinnerNames.Lowest, ", "), w.Scores.Lowest,
			join(w.Rankings.NoPicks, w.WinnerNames.NoPicks),
			join(w.PerfectWeekWinners, w.WinnerNames.PerfectWeek),
			len(w.PerfectWeekWinners),
		})
	}
	return t
}

var rankLabels = map[models.Tier]string{
	models.TierHighest:       "1st",
	models.TierSecondHighest: "2nd",
	models.TierThirdHighest:  "3rd",
	models.TierLowest:        "Last",
}

type placement struct {
	score float64
	rank  string
}

func placementOf(w models.WeekResult, userID string) (placement, bool) {
	if tier, ok := w.TierOf(userID); ok {
		return placement{score: w.Scores.Get(tier), rank: rankLabels[tier]}, true
	}
	for _, id := range w.Rankings.NoPicks {
		if id == userID {
			return placement{rank: "No Picks"}, true
		}
	}
	return placement{}, false
}

// SeasonScores has one row per user and a score and rank column pair per
// week, followed by season totals.
func SeasonScores(weeks []models.WeekResult) Table {
	sorted := append([]models.WeekResult(nil), weeks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Season != sorted[j].Season {
			return sorted[i].Season < sorted[j].Season
		}
		return sorted[i].Week < sorted[j].Week
	})

	multiSeason := false
	for _, w := range sorted {
		if w.Season != sorted[0].Season {
			multiSeason = true
		}
	}
	label := func(w models.WeekResult) string {
		if multiSeason {
			return fmt.Sprintf("%d_Week_%d", int(w.Season), w.Week)
		}
		return fmt.Sprintf("Week_%d", w.Week)
	}

	t := Table{Name: "Season_Scores", Header: []string{"User_ID", "Display_Name"}}
	for _, w := range sorted {
		t.Header = append(t.Header, label(w)+"_Score", label(w)+"_Rank")
	}
	t.Header = append(t.Header, "Total_Score", "Total_Wins", "Perfect_Weeks")

	names := make(map[string]string)
	for _, w := range sorted {
		for _, id := range w.UserIDs() {
			if name, ok := w.NameOf(id); ok {
				names[id] = name
			}
		}
	}
	users := make([]string, 0, len(names))
	for id := range names {
		users = append(users, id)
	}
	sort.Strings(users)

	for _, id := range users {
		row := []any{id, names[id]}
		var total float64
		wins, perfect := 0, 0
		for _, w := range sorted {
			p, ok := placementOf(w, id)
			if !ok {
				row = append(row, "", "")
				continue
			}
			row = append(row, p.score, p.rank)
			total += p.score
			if p.rank == "1st" {
				wins++
			}
			for _, pw := range w.PerfectWeekWinners {
				if pw == id {
					perfect++
				}
			}
		}
		t.Rows = append(t.Rows, append(row, total, wins, perfect))
	}
	return t
}

// UserPicks lists each ranked user's tier and score per week.
func UserPicks(weeks []models.WeekResult) Table {
	t := Table{Name: "User_Picks", Header: []string{"Week", "Season", "User_ID", "Display_Name", "Rank", "Score"}}
	for _, w := range weeks {
		for _, tier := range models.Tiers {
			for _, id := range w.Rankings.Get(tier) {
				name, _ := w.NameOf(id)
				t.Rows = append(t.Rows, []any{w.Week, int(w.Season), id, name, rankLabels[tier], w.Scores.Get(tier)})
			}
		}
	}
	return t
}

func Summary(weeks []models.WeekResult, now time.Time) Table {
	users := make(map[string]bool)
	perfect := 0
	for _, w := range weeks {
		for _, tier := range models.Tiers {
			for _, id := range w.Rankings.Get(tier) {
				users[id] = true
			}
		}
		perfect += len(w.PerfectWeekWinners)
	}
	return Table{
		Name:   "Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Total Weeks", len(weeks)},
			{"Total Users", len(users)},
			{"Total Perfect Weeks", perfect},
			{"Export Date", now.Format("2006-01-02 15:04:05")},
		},
	}
}
