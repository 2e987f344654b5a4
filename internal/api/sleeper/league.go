package sleeper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

const legPrefix = "v1:regular:"

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) GetLeague(ctx context.Context) (*models.League, error) {
	var league models.League
	endpoint := fmt.Sprintf("/league/%s", a.client.LeagueID)

	if err := a.client.Get(ctx, endpoint, &league); err != nil {
		return nil, fmt.Errorf("fetching league: %w", err)
	}
	return &league, nil
}

func (a *API) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	endpoint := fmt.Sprintf("/league/%s/users", a.client.LeagueID)

	if err := a.client.Get(ctx, endpoint, &users); err != nil {
		return nil, fmt.Errorf("fetching league users: %w", err)
	}
	return users, nil
}

func (a *API) GetRosters(ctx context.Context) ([]models.Roster, error) {
	var rosters []models.Roster
	endpoint := fmt.Sprintf("/league/%s/rosters", a.client.LeagueID)

	if err := a.client.Get(ctx, endpoint, &rosters); err != nil {
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}
	return rosters, nil
}

// LegKey is Sleeper's label for a regular season scoring week.
func LegKey(week int) string {
	return fmt.Sprintf("%s%d", legPrefix, week)
}

// ParseLegWeek extracts the week number from a leg label like
// "v1:regular:18".
func ParseLegWeek(leg string) (int, error) {
	parts := strings.Split(leg, ":")
	if len(parts) < 3 || parts[1] != "regular" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLeg, leg)
	}
	week, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLeg, leg)
	}
	return week, nil
}
