package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
)

const nameMatchThreshold = 0.6

type Player struct {
	UserID string
	Name   string
}

// Players lists every user named anywhere in the records, keeping the most
// recent display name for each.
func Players(records []models.Record) []Player {
	names := make(map[string]string)
	for _, r := range jsonfile.Latest(records) {
		switch r.Version {
		case models.SchemaTiered:
			for _, id := range r.Tiered.UserIDs() {
				if name, ok := r.Tiered.NameOf(id); ok {
					names[id] = name
				}
			}
			for i, id := range r.Tiered.PerfectWeekWinners {
				if i < len(r.Tiered.WinnerNames.PerfectWeek) {
					names[id] = r.Tiered.WinnerNames.PerfectWeek[i]
				}
			}
		case models.SchemaLegacy:
			for i, id := range r.Legacy.HighScoreWinners {
				if i < len(r.Legacy.WinnerNames.HighScore) {
					names[id] = r.Legacy.WinnerNames.HighScore[i]
				}
			}
		}
	}

	players := make([]Player, 0, len(names))
	for id, name := range names {
		players = append(players, Player{UserID: id, Name: name})
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].UserID < players[j].UserID
	})
	return players
}

// FindUser resolves a typed name to a player. Case-insensitive exact matches
// win, otherwise the closest name by Levenshtein similarity above the
// threshold.
func FindUser(records []models.Record, name string) (Player, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return Player{}, fmt.Errorf("%w: empty name", ErrUserNotFound)
	}

	players := Players(records)
	for _, p := range players {
		if strings.ToLower(p.Name) == query || p.UserID == name {
			return p, nil
		}
	}

	var best *Player
	bestSimilarity := 0.0
	for i, p := range players {
		candidate := strings.ToLower(p.Name)
		distance := fuzzy.LevenshteinDistance(query, candidate)
		maxLen := float64(max(len(query), len(candidate)))
		similarity := 1 - float64(distance)/maxLen

		if similarity >= nameMatchThreshold && similarity > bestSimilarity {
			bestSimilarity = similarity
			best = &players[i]
		}
	}
	if best == nil {
		return Player{}, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	return *best, nil
}

type HistoryEntry struct {
	Week        int
	Season      int
	Tier        models.Tier
	Score       float64
	NoPicks     bool
	PerfectWeek bool
}

// UserHistory is one user's placement in every processed week they appear
// in, oldest first. Legacy weeks only record high score winners.
func UserHistory(records []models.Record, userID string) []HistoryEntry {
	var out []HistoryEntry
	for _, r := range jsonfile.Latest(records) {
		key := r.Key()
		entry := HistoryEntry{Week: key.Week, Season: key.Season}

		switch r.Version {
		case models.SchemaTiered:
			w := r.Tiered
			found := false
			if tier, ok := w.TierOf(userID); ok {
				entry.Tier = tier
				entry.Score = w.Scores.Get(tier)
				found = true
			}
			if contains(w.Rankings.NoPicks, userID) {
				entry.NoPicks = true
				found = true
			}
			if contains(w.PerfectWeekWinners, userID) {
				entry.PerfectWeek = true
				found = true
			}
			if !found {
				continue
			}
		case models.SchemaLegacy:
			if !contains(r.Legacy.HighScoreWinners, userID) {
				continue
			}
			entry.Tier = models.TierHighest
			entry.Score = r.Legacy.HighScore
		default:
			continue
		}
		out = append(out, entry)
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var tierLabels = map[models.Tier]string{
	models.TierHighest:       "🥇 Highest",
	models.TierSecondHighest: "🥈 Second",
	models.TierThirdHighest:  "🥉 Third",
	models.TierLowest:        "📉 Lowest",
}

func FormatHistory(p Player, entries []HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📜 *%s*\n\n", p.Name))
	if len(entries) == 0 {
		sb.WriteString("No placements yet.\n")
		return sb.String()
	}
	for _, e := range entries {
		line := fmt.Sprintf("%d Week %d:", e.Season, e.Week)
		if e.Tier != "" {
			line += fmt.Sprintf(" %s (%s pts)", tierLabels[e.Tier], formatScore(e.Score))
		}
		if e.NoPicks {
			line += " ❌ No Picks"
		}
		if e.PerfectWeek {
			line += " 🎯 Perfect Week"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
