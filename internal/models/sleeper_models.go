package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type League struct {
	LeagueID string         `json:"league_id"`
	Name     string         `json:"name"`
	Season   string         `json:"season"`
	Status   string         `json:"status"`
	Metadata LeagueMetadata `json:"metadata"`
}

type LeagueMetadata struct {
	CurrentPickemLegID string `json:"current_pickem_leg_id"`
}

type User struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Metadata RosterMetadata `json:"metadata"`
}

type RosterMetadata struct {
	PointsByLeg   map[string]Points   `json:"points_by_leg"`
	PreviousPicks map[string][]string `json:"previous_picks"`
}

// Points is a leg score. Sleeper sends it either as a JSON number or as a
// numeric string.
type Points float64

func (p *Points) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*p = Points(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("points: unsupported value %s", string(b))
	}
	if s == "" {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("points: %w", err)
	}
	*p = Points(f)
	return nil
}
