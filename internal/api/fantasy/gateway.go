package fantasy

import (
	"context"
	"log/slog"

	"github.com/omarshaarawi/skinsbot/internal/api/sleeper"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/memory"
)

// Upstream is the slice of the Sleeper API the gateway reads from.
type Upstream interface {
	GetLeague(ctx context.Context) (*models.League, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetRosters(ctx context.Context) ([]models.Roster, error)
}

// Gateway is the read-only view of one league. Each resource is fetched at
// most once per Gateway; build a fresh one (or Reset) for every run.
type Gateway struct {
	api   Upstream
	cache *memory.Repository
}

func NewGateway(api Upstream, cache *memory.Repository) *Gateway {
	return &Gateway{api: api, cache: cache}
}

func (g *Gateway) Reset() {
	g.cache.Reset()
}

func (g *Gateway) FetchLeague(ctx context.Context) (*models.League, error) {
	if league := g.cache.GetLeague(); league != nil {
		return league, nil
	}
	league, err := g.api.GetLeague(ctx)
	if err != nil {
		return nil, &GatewayError{Resource: ResourceLeague, Err: err}
	}
	g.cache.SaveLeague(league)
	return league, nil
}

func (g *Gateway) FetchUsers(ctx context.Context) (map[string]models.User, error) {
	if users := g.cache.GetUsers(); users != nil {
		return users, nil
	}
	list, err := g.api.GetUsers(ctx)
	if err != nil {
		return nil, &GatewayError{Resource: ResourceUsers, Err: err}
	}
	users := make(map[string]models.User, len(list))
	for _, u := range list {
		users[u.UserID] = u
	}
	g.cache.SaveUsers(users)
	return users, nil
}

func (g *Gateway) rosters(ctx context.Context) ([]models.Roster, error) {
	if rosters := g.cache.GetRosters(); rosters != nil {
		return rosters, nil
	}
	rosters, err := g.api.GetRosters(ctx)
	if err != nil {
		return nil, &GatewayError{Resource: ResourceRosters, Err: err}
	}
	if rosters == nil {
		rosters = []models.Roster{}
	}
	g.cache.SaveRosters(rosters)
	return rosters, nil
}

// FetchCurrentWeek reads the week from the league's current pick'em leg.
func (g *Gateway) FetchCurrentWeek(ctx context.Context) (int, error) {
	league, err := g.FetchLeague(ctx)
	if err != nil {
		return 0, err
	}
	week, err := sleeper.ParseLegWeek(league.Metadata.CurrentPickemLegID)
	if err != nil {
		return 0, &GatewayError{Resource: ResourceCurrentWeek, Err: err}
	}
	slog.Info("Current week", "week", week)
	return week, nil
}

// FetchWeekScores returns every owned roster's score for the week. Rosters
// without a score for the week count as 0.
func (g *Gateway) FetchWeekScores(ctx context.Context, week int) (map[string]float64, error) {
	rosters, err := g.rosters(ctx)
	if err != nil {
		return nil, err
	}
	key := sleeper.LegKey(week)
	scores := make(map[string]float64, len(rosters))
	for _, r := range rosters {
		if r.OwnerID == "" {
			continue
		}
		scores[r.OwnerID] = float64(r.Metadata.PointsByLeg[key])
	}
	return scores, nil
}

func (g *Gateway) FetchWeekPicks(ctx context.Context, week int) (map[string][]string, error) {
	rosters, err := g.rosters(ctx)
	if err != nil {
		return nil, err
	}
	key := sleeper.LegKey(week)
	picks := make(map[string][]string, len(rosters))
	for _, r := range rosters {
		if r.OwnerID == "" {
			continue
		}
		picks[r.OwnerID] = r.Metadata.PreviousPicks[key]
	}
	return picks, nil
}

// FetchScoreHistory returns each owner's score by week for every regular
// season leg the rosters report.
func (g *Gateway) FetchScoreHistory(ctx context.Context) (map[string]map[int]float64, error) {
	rosters, err := g.rosters(ctx)
	if err != nil {
		return nil, err
	}
	history := make(map[string]map[int]float64, len(rosters))
	for _, r := range rosters {
		if r.OwnerID == "" {
			continue
		}
		weeks := make(map[int]float64)
		for leg, pts := range r.Metadata.PointsByLeg {
			week, err := sleeper.ParseLegWeek(leg)
			if err != nil {
				continue
			}
			weeks[week] = float64(pts)
		}
		history[r.OwnerID] = weeks
	}
	return history, nil
}
