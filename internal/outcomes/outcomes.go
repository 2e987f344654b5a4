// Package outcomes reads the per-week game results used for perfect week
// detection.
package outcomes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// Game is one team's result for the week.
type Game struct {
	Opponent   string `json:"opponent"`
	Won        *bool  `json:"won"`
	IsUnderdog bool   `json:"is_underdog,omitempty"`
}

// Outcomes maps a team abbreviation to its result.
type Outcomes struct {
	games map[string]Game
}

// Parse validates raw game results. Every entry needs an explicit "won".
func Parse(data []byte) (*Outcomes, error) {
	var games map[string]Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, &ValidationError{Reason: "malformed game results", Err: err}
	}
	for team, g := range games {
		if g.Won == nil {
			return nil, &ValidationError{Team: team, Reason: `missing required field "won"`}
		}
	}
	return &Outcomes{games: games}, nil
}

// Load reads game results from path. A missing file is not an error: it
// returns nil outcomes so callers can skip perfect week detection.
func Load(path string) (*Outcomes, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading game results %s: %w", path, err)
	}
	return Parse(data)
}

// Winners is the set of teams that won.
func (o *Outcomes) Winners() map[string]bool {
	winners := make(map[string]bool)
	for team, g := range o.games {
		if *g.Won {
			winners[team] = true
		}
	}
	return winners
}

// TotalGames is the number of entries in the results, which is the number of
// picks a perfect week requires.
func (o *Outcomes) TotalGames() int {
	return len(o.games)
}

func (o *Outcomes) Teams() []string {
	teams := make([]string, 0, len(o.games))
	for team := range o.games {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
