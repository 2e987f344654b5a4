package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Tier string

const (
	TierHighest       Tier = "highest"
	TierSecondHighest Tier = "second_highest"
	TierThirdHighest  Tier = "third_highest"
	TierLowest        Tier = "lowest"
)

// Tiers lists the scoring tiers in display order.
var Tiers = []Tier{TierHighest, TierSecondHighest, TierThirdHighest, TierLowest}

// Group is one scoring tier for a week. More than one user id means a tie.
type Group struct {
	Tier    Tier
	UserIDs []string
	Score   float64
}

func (g Group) Empty() bool { return len(g.UserIDs) == 0 }

func (g Group) Tied() bool { return len(g.UserIDs) > 1 }

// Rankings is the partition of a week's users into tiers and abstainers.
type Rankings struct {
	Highest       Group
	SecondHighest Group
	ThirdHighest  Group
	Lowest        Group
	NoPicks       []string
}

func (r Rankings) Group(t Tier) Group {
	switch t {
	case TierHighest:
		return r.Highest
	case TierSecondHighest:
		return r.SecondHighest
	case TierThirdHighest:
		return r.ThirdHighest
	case TierLowest:
		return r.Lowest
	}
	return Group{Tier: t}
}

// IsEmpty reports a week with no data yet: nobody scored and nobody abstained.
func (r Rankings) IsEmpty() bool {
	return r.Highest.Empty() && r.SecondHighest.Empty() && r.ThirdHighest.Empty() &&
		r.Lowest.Empty() && len(r.NoPicks) == 0
}

type WeekKey struct {
	Week   int
	Season int
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-%d", k.Season, k.Week)
}

type TierIDs struct {
	Highest       []string `json:"highest"`
	SecondHighest []string `json:"second_highest"`
	ThirdHighest  []string `json:"third_highest"`
	Lowest        []string `json:"lowest"`
	NoPicks       []string `json:"no_picks"`
}

func (t TierIDs) Get(tier Tier) []string {
	switch tier {
	case TierHighest:
		return t.Highest
	case TierSecondHighest:
		return t.SecondHighest
	case TierThirdHighest:
		return t.ThirdHighest
	case TierLowest:
		return t.Lowest
	}
	return nil
}

type TierScores struct {
	Highest       float64 `json:"highest"`
	SecondHighest float64 `json:"second_highest"`
	ThirdHighest  float64 `json:"third_highest"`
	Lowest        float64 `json:"lowest"`
	NoPicks       float64 `json:"no_picks"`
}

func (t TierScores) Get(tier Tier) float64 {
	switch tier {
	case TierHighest:
		return t.Highest
	case TierSecondHighest:
		return t.SecondHighest
	case TierThirdHighest:
		return t.ThirdHighest
	case TierLowest:
		return t.Lowest
	}
	return 0
}

type WinnerNames struct {
	Highest       []string `json:"highest"`
	SecondHighest []string `json:"second_highest"`
	ThirdHighest  []string `json:"third_highest"`
	Lowest        []string `json:"lowest"`
	NoPicks       []string `json:"no_picks"`
	PerfectWeek   []string `json:"perfect_week"`
}

func (n WinnerNames) Get(tier Tier) []string {
	switch tier {
	case TierHighest:
		return n.Highest
	case TierSecondHighest:
		return n.SecondHighest
	case TierThirdHighest:
		return n.ThirdHighest
	case TierLowest:
		return n.Lowest
	}
	return nil
}

// WeekResult is the stored outcome of processing one (week, season).
type WeekResult struct {
	ID                 string        `json:"id,omitempty"`
	SchemaVersion      SchemaVersion `json:"schema_version"`
	Week               int           `json:"week"`
	Season             FlexInt       `json:"season"`
	ProcessedAt        Timestamp     `json:"date_processed"`
	Rankings           TierIDs       `json:"rankings"`
	Scores             TierScores    `json:"scores"`
	PerfectWeekWinners []string      `json:"perfect_week_winners"`
	WinnerNames        WinnerNames   `json:"winner_names"`
}

func (w WeekResult) Key() WeekKey {
	return WeekKey{Week: w.Week, Season: int(w.Season)}
}

// TierOf returns the tier a user landed in, or "" when the user is not in
// any tier. Highest wins when highest and lowest coincide.
func (w WeekResult) TierOf(userID string) (Tier, bool) {
	for _, t := range Tiers {
		for _, id := range w.Rankings.Get(t) {
			if id == userID {
				return t, true
			}
		}
	}
	return "", false
}

// NameOf resolves a display name from any list the result carries.
func (w WeekResult) NameOf(userID string) (string, bool) {
	lists := [][2][]string{
		{w.Rankings.Highest, w.WinnerNames.Highest},
		{w.Rankings.SecondHighest, w.WinnerNames.SecondHighest},
		{w.Rankings.ThirdHighest, w.WinnerNames.ThirdHighest},
		{w.Rankings.Lowest, w.WinnerNames.Lowest},
		{w.Rankings.NoPicks, w.WinnerNames.NoPicks},
		{w.PerfectWeekWinners, w.WinnerNames.PerfectWeek},
	}
	for _, l := range lists {
		for i, id := range l[0] {
			if id == userID && i < len(l[1]) {
				return l[1][i], true
			}
		}
	}
	return "", false
}

// UserIDs lists every user referenced by the rankings, without duplicates.
func (w WeekResult) UserIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, l := range [][]string{w.Rankings.Highest, w.Rankings.SecondHighest, w.Rankings.ThirdHighest, w.Rankings.Lowest, w.Rankings.NoPicks} {
		for _, id := range l {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// LegacyWeekResult is the high score / underdog record written before tiered
// rankings existed.
type LegacyWeekResult struct {
	Week               int               `json:"week"`
	Season             FlexInt           `json:"season"`
	ProcessedAt        Timestamp         `json:"date_processed"`
	HighScore          float64           `json:"high_score"`
	HighScoreWinners   []string          `json:"high_score_winners"`
	UnderdogWinners    []string          `json:"underdog_winners,omitempty"`
	UnderdogCorrect    int               `json:"underdog_correct,omitempty"`
	TotalUnderdogGames int               `json:"total_underdog_games,omitempty"`
	UnderdogPercentage *float64          `json:"underdog_percentage,omitempty"`
	WinnerNames        LegacyWinnerNames `json:"winner_names"`
}

type LegacyWinnerNames struct {
	HighScore []string `json:"high_score"`
	Underdog  []string `json:"underdog"`
}

func (l LegacyWeekResult) Key() WeekKey {
	return WeekKey{Week: l.Week, Season: int(l.Season)}
}

// FlexInt accepts a JSON number or a numeric string. Sleeper reports the
// season as a string and older result files kept it that way.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected integer, got %s", string(b))
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("expected integer, got %q", s)
	}
	*f = FlexInt(n)
	return nil
}

// Timestamp is an ISO-8601 processing time. It reads both RFC 3339 and the
// zone-less form older files contain, and always writes RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	// zone-less values were written in the machine's local time
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}
