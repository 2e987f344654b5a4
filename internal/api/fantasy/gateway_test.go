package fantasy

import (
	"context"
	"errors"
	"testing"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	league  *models.League
	users   []models.User
	rosters []models.Roster
	err     error
	calls   map[string]int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		league: &models.League{
			Name:     "Pickem Pals",
			Season:   "2025",
			Metadata: models.LeagueMetadata{CurrentPickemLegID: "v1:regular:5"},
		},
		users: []models.User{
			{UserID: "u1", DisplayName: "Ann"},
			{UserID: "u2", DisplayName: "Bob"},
		},
		rosters: []models.Roster{
			{OwnerID: "u1", Metadata: models.RosterMetadata{
				PointsByLeg:   map[string]models.Points{"v1:regular:1": 12, "v1:regular:2": 8},
				PreviousPicks: map[string][]string{"v1:regular:1": {"ARI", "BUF"}},
			}},
			{OwnerID: "u2", Metadata: models.RosterMetadata{
				PointsByLeg: map[string]models.Points{"v1:regular:2": 10, "bogus": 99},
			}},
			{OwnerID: ""},
		},
		calls: map[string]int{},
	}
}

func (f *fakeUpstream) GetLeague(context.Context) (*models.League, error) {
	f.calls["league"]++
	return f.league, f.err
}

func (f *fakeUpstream) GetUsers(context.Context) ([]models.User, error) {
	f.calls["users"]++
	return f.users, f.err
}

func (f *fakeUpstream) GetRosters(context.Context) ([]models.Roster, error) {
	f.calls["rosters"]++
	return f.rosters, f.err
}

func TestGatewayMemoizesPerResource(t *testing.T) {
	up := newFakeUpstream()
	g := NewGateway(up, memory.NewRepository())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := g.FetchWeekScores(ctx, 1)
		require.NoError(t, err)
		_, err = g.FetchWeekPicks(ctx, 1)
		require.NoError(t, err)
		_, err = g.FetchUsers(ctx)
		require.NoError(t, err)
		_, err = g.FetchCurrentWeek(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, up.calls["rosters"])
	assert.Equal(t, 1, up.calls["users"])
	assert.Equal(t, 1, up.calls["league"])

	g.Reset()
	_, err := g.FetchUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, up.calls["users"])
}

func TestGatewayWeekData(t *testing.T) {
	g := NewGateway(newFakeUpstream(), memory.NewRepository())
	ctx := context.Background()

	scores, err := g.FetchWeekScores(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"u1": 12, "u2": 0}, scores)

	picks, err := g.FetchWeekPicks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ARI", "BUF"}, picks["u1"])
	assert.Empty(t, picks["u2"])
	assert.Len(t, picks, 2)

	week, err := g.FetchCurrentWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, week)

	users, err := g.FetchUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob", users["u2"].DisplayName)

	history, err := g.FetchScoreHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{1: 12, 2: 8}, history["u1"])
	assert.Equal(t, map[int]float64{2: 10}, history["u2"])
}

func TestGatewayErrors(t *testing.T) {
	up := newFakeUpstream()
	up.err = errors.New("connection refused")
	g := NewGateway(up, memory.NewRepository())

	_, err := g.FetchWeekScores(context.Background(), 1)
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ResourceRosters, gwErr.Resource)
	assert.ErrorIs(t, err, up.err)

	_, err = g.FetchUsers(context.Background())
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ResourceUsers, gwErr.Resource)
}

func TestGatewayCurrentWeekUnparseable(t *testing.T) {
	up := newFakeUpstream()
	up.league.Metadata.CurrentPickemLegID = ""
	g := NewGateway(up, memory.NewRepository())

	_, err := g.FetchCurrentWeek(context.Background())
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ResourceCurrentWeek, gwErr.Resource)
}
