// Package analytics summarizes each player's pick'em scores across the
// season: averages, consistency, trend and a next-week projection.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gonum.org/v1/gonum/stat"
)

const leaderboardSize = 10

type Player struct {
	UserID string
	Name   string
	Weekly map[int]float64

	Total       float64
	Average     float64
	Consistency float64
	// Trend is the least squares slope of score over week number.
	Trend float64
	// BestWeeks counts weeks that matched the player's own high.
	BestWeeks int
	ZeroWeeks int
}

func (p Player) series() (weeks, scores []float64) {
	keys := make([]int, 0, len(p.Weekly))
	for w := range p.Weekly {
		keys = append(keys, w)
	}
	sort.Ints(keys)
	for _, w := range keys {
		weeks = append(weeks, float64(w))
		scores = append(scores, p.Weekly[w])
	}
	return weeks, scores
}

func NewPlayer(userID, name string, weekly map[int]float64) Player {
	p := Player{UserID: userID, Name: name, Weekly: weekly, Consistency: 1}
	weeks, scores := p.series()
	if len(scores) == 0 {
		return p
	}

	high := math.Inf(-1)
	for _, s := range scores {
		p.Total += s
		high = math.Max(high, s)
		if s == 0 {
			p.ZeroWeeks++
		}
	}
	for _, s := range scores {
		if s == high {
			p.BestWeeks++
		}
	}
	p.Average = p.Total / float64(len(scores))

	if len(scores) > 1 {
		_, std := stat.PopMeanStdDev(scores, nil)
		p.Consistency = 1 / (std + 1)
		_, p.Trend = stat.LinearRegression(weeks, scores, nil, false)
	}
	return p
}

type League struct {
	Players        map[string]Player
	WeeksAnalyzed  int
	AverageScore   float64
	Distribution   map[float64]int
	TopPerformers  []Player
	MostImproved   []Player
	MostConsistent []Player
}

// Analyze builds league analytics from per-user weekly scores. Users with no
// scored weeks are left out.
func Analyze(history map[string]map[int]float64, names map[string]string) League {
	l := League{
		Players:      make(map[string]Player),
		Distribution: make(map[float64]int),
	}

	weeks := make(map[int]bool)
	var all []float64
	for id, weekly := range history {
		if len(weekly) == 0 {
			continue
		}
		name := names[id]
		if name == "" {
			name = "Unknown"
		}
		l.Players[id] = NewPlayer(id, name, weekly)
		for w, s := range weekly {
			weeks[w] = true
			all = append(all, s)
			l.Distribution[math.Round(s*10)/10]++
		}
	}
	l.WeeksAnalyzed = len(weeks)
	if len(all) > 0 {
		l.AverageScore = stat.Mean(all, nil)
	}

	l.TopPerformers = l.top(func(p Player) float64 { return p.Average })
	l.MostImproved = l.top(func(p Player) float64 { return p.Trend })
	l.MostConsistent = l.top(func(p Player) float64 { return p.Consistency })
	return l
}

func (l League) top(by func(Player) float64) []Player {
	players := make([]Player, 0, len(l.Players))
	for _, p := range l.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		a, b := by(players[i]), by(players[j])
		if a != b {
			return a > b
		}
		return players[i].Name < players[j].Name
	})
	if len(players) > leaderboardSize {
		players = players[:leaderboardSize]
	}
	return players
}

// Lookup finds a player by user id or name. Exact names win over fuzzy
// matches.
func (l League) Lookup(query string) (Player, error) {
	if p, ok := l.Players[query]; ok {
		return p, nil
	}
	var fuzzyMatches []Player
	for _, p := range l.Players {
		if strings.EqualFold(p.Name, query) {
			return p, nil
		}
		if fuzzy.MatchNormalizedFold(query, p.Name) {
			fuzzyMatches = append(fuzzyMatches, p)
		}
	}
	if len(fuzzyMatches) == 1 {
		return fuzzyMatches[0], nil
	}
	if len(fuzzyMatches) > 1 {
		return Player{}, fmt.Errorf("%w: %q matches %d players", ErrAmbiguousPlayer, query, len(fuzzyMatches))
	}
	return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, query)
}

type Prediction struct {
	Score      float64
	Confidence float64
	Trend      float64
	NextWeek   int
}

// Predict projects next week's score with a linear fit. Confidence is the
// fit's R squared clamped to [0.1, 0.9]; with fewer than two weeks the
// projection is the average at the floor confidence.
func (l League) Predict(userID string) (Prediction, error) {
	p, ok := l.Players[userID]
	if !ok {
		return Prediction{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	weeks, scores := p.series()
	if len(scores) < 2 {
		next := 1
		if len(weeks) == 1 {
			next = int(weeks[0]) + 1
		}
		return Prediction{Score: p.Average, Confidence: 0.1, NextWeek: next}, nil
	}

	alpha, beta := stat.LinearRegression(weeks, scores, nil, false)
	next := weeks[len(weeks)-1] + 1

	r2 := 0.0
	if stat.Variance(scores, nil) != 0 {
		r2 = stat.RSquared(weeks, scores, nil, alpha, beta)
	}

	return Prediction{
		Score:      math.Max(0, alpha+beta*next),
		Confidence: math.Max(0.1, math.Min(0.9, r2)),
		Trend:      beta,
		NextWeek:   int(next),
	}, nil
}

// Summary is the plain text league report.
func (l League) Summary() string {
	var sb strings.Builder
	sb.WriteString("🏈 LEAGUE PERFORMANCE SUMMARY 🏈\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString("📊 OVERALL STATISTICS:\n")
	sb.WriteString(fmt.Sprintf("• Total Players: %d\n", len(l.Players)))
	sb.WriteString(fmt.Sprintf("• Weeks Analyzed: %d\n", l.WeeksAnalyzed))
	sb.WriteString(fmt.Sprintf("• Average League Score: %.2f\n", l.AverageScore))

	sb.WriteString("\n🏆 TOP PERFORMERS (by average score):\n")
	for i, p := range first(l.TopPerformers, 5) {
		sb.WriteString(fmt.Sprintf("%d. %s: %.2f avg\n", i+1, p.Name, p.Average))
	}

	sb.WriteString("\n📈 MOST IMPROVED PLAYERS:\n")
	for i, p := range first(l.MostImproved, 5) {
		emoji := "📉"
		if p.Trend > 0 {
			emoji = "📈"
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s %+.2f trend\n", i+1, p.Name, emoji, p.Trend))
	}

	sb.WriteString("\n🎯 MOST CONSISTENT PLAYERS:\n")
	for i, p := range first(l.MostConsistent, 5) {
		sb.WriteString(fmt.Sprintf("%d. %s: %.3f consistency\n", i+1, p.Name, p.Consistency))
	}
	return sb.String()
}

func first(players []Player, n int) []Player {
	if len(players) > n {
		return players[:n]
	}
	return players
}
