package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/skinsbot/internal/api/fantasy"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/outcomes"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
)

type fakeGateway struct {
	league      *models.League
	users       map[string]models.User
	currentWeek int
	scores      map[string]float64
	picks       map[string][]string
	err         error
}

func (f *fakeGateway) FetchLeague(context.Context) (*models.League, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.league, nil
}

func (f *fakeGateway) FetchUsers(context.Context) (map[string]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeGateway) FetchCurrentWeek(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.currentWeek, nil
}

func (f *fakeGateway) FetchWeekScores(context.Context, int) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func (f *fakeGateway) FetchWeekPicks(context.Context, int) (map[string][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.picks, nil
}

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newFixture(t *testing.T) (*fakeGateway, *jsonfile.Store, *WeekProcessor) {
	t.Helper()
	gw := &fakeGateway{
		league:      &models.League{Name: "Pick Em", Season: "2025"},
		currentWeek: 4,
		users: map[string]models.User{
			"U1": {UserID: "U1", DisplayName: "Alice"},
			"U2": {UserID: "U2", DisplayName: "Bob"},
			"U3": {UserID: "U3", Username: "carol"},
			"U4": {UserID: "U4", DisplayName: "Dan"},
		},
		scores: map[string]float64{"U1": 12, "U2": 10, "U3": 10, "U4": 2},
		picks: map[string][]string{
			"U1": {"KC", "BUF"},
			"U2": {"KC"},
			"U3": {"PHI"},
			"U4": {"NYJ"},
		},
	}
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "results.json"))
	clock := &stepClock{t: time.Date(2025, 9, 9, 8, 0, 0, 0, time.UTC)}
	ids := 0
	p := NewWeekProcessor(gw, store, 2024,
		WithClock(clock.now),
		WithIDGenerator(func() string { ids++; return []string{"a", "b", "c", "d"}[ids-1] }),
	)
	return gw, store, p
}

func TestProcessWeekEndToEnd(t *testing.T) {
	_, store, p := newFixture(t)
	ctx := context.Background()

	result, err := p.ProcessWeek(ctx, ProcessRequest{Week: 1})
	require.NoError(t, err)

	assert.Equal(t, "a", result.ID)
	assert.Equal(t, models.WeekKey{Week: 1, Season: 2025}, result.Key())
	assert.Equal(t, []string{"U1"}, result.Rankings.Highest)
	assert.Equal(t, []string{"U2", "U3"}, result.Rankings.SecondHighest)
	assert.Empty(t, result.Rankings.ThirdHighest)
	assert.Equal(t, []string{"U4"}, result.Rankings.Lowest)
	assert.Empty(t, result.Rankings.NoPicks)

	assert.Equal(t, 12.0, result.Scores.Highest)
	assert.Equal(t, 10.0, result.Scores.SecondHighest)
	assert.Equal(t, 2.0, result.Scores.Lowest)
	assert.Equal(t, []string{"Bob", "carol"}, result.WinnerNames.SecondHighest)

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result, *records[0].Tiered)
}

func TestProcessWeekWithoutOutcomes(t *testing.T) {
	_, _, p := newFixture(t)

	result, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 2, Season: 2025})
	require.NoError(t, err)
	assert.NotNil(t, result.PerfectWeekWinners)
	assert.Empty(t, result.PerfectWeekWinners)
	assert.Empty(t, result.WinnerNames.PerfectWeek)
}

func TestProcessWeekPerfectWeek(t *testing.T) {
	_, _, p := newFixture(t)
	games, err := outcomes.Parse([]byte(`{
		"KC": {"opponent": "LAC", "won": true},
		"BUF": {"opponent": "MIA", "won": true}
	}`))
	require.NoError(t, err)

	result, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 2, Outcomes: games})
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, result.PerfectWeekWinners)
	assert.Equal(t, []string{"Alice"}, result.WinnerNames.PerfectWeek)
}

func TestProcessWeekUnknownNames(t *testing.T) {
	gw, _, p := newFixture(t)
	gw.scores["ghost"] = 1
	gw.picks["ghost"] = []string{"KC"}

	result, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, result.Rankings.Lowest)
	assert.Equal(t, []string{"Unknown"}, result.WinnerNames.Lowest)
}

func TestProcessWeekSeasonFallback(t *testing.T) {
	gw, _, p := newFixture(t)
	gw.league.Season = ""

	result, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 1})
	require.NoError(t, err)
	assert.Equal(t, 2024, int(result.Season))
}

func TestProcessWeekGatewayErrorAppendsNothing(t *testing.T) {
	gw, store, p := newFixture(t)
	gw.err = &fantasy.GatewayError{Resource: fantasy.ResourceRosters, Err: errors.New("boom")}

	_, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 1, Season: 2025})
	var gErr *fantasy.GatewayError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, fantasy.ResourceRosters, gErr.Resource)

	assert.False(t, store.Exists())
}

func TestProcessWeekEmptyData(t *testing.T) {
	gw, store, p := newFixture(t)
	gw.scores = map[string]float64{}
	gw.picks = map[string][]string{}

	result, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 9})
	require.NoError(t, err)
	assert.Empty(t, result.Rankings.Highest)
	assert.Empty(t, result.Rankings.Lowest)
	assert.True(t, store.Exists())
}

func TestReprocessThenDeduplicate(t *testing.T) {
	gw, store, p := newFixture(t)
	ctx := context.Background()

	first, err := p.ProcessWeek(ctx, ProcessRequest{Week: 1, Season: 2025})
	require.NoError(t, err)

	gw.scores["U4"] = 20
	second, err := p.ProcessWeek(ctx, ProcessRequest{Week: 1, Season: 2025})
	require.NoError(t, err)
	require.True(t, second.ProcessedAt.After(first.ProcessedAt.Time))

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	kept, removed, _, err := store.Deduplicate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.Len(t, kept, 1)
	assert.Equal(t, second.ID, kept[0].Tiered.ID)
	assert.Equal(t, []string{"U4"}, kept[0].Tiered.Rankings.Highest)
}

func TestResolveTargetWeek(t *testing.T) {
	gw, _, p := newFixture(t)
	ctx := context.Background()

	week, err := p.ResolveTargetWeek(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, week)

	week, err = p.ResolveTargetWeek(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, week)

	gw.currentWeek = 1
	week, err = p.ResolveTargetWeek(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, week)
}

func TestWeekSummary(t *testing.T) {
	gw, _, p := newFixture(t)
	ctx := context.Background()

	summary, err := p.WeekSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.Users, 4)
	assert.Equal(t, "Alice", summary.Users[0].Name)
	assert.Equal(t, "Bob", summary.Users[1].Name)
	assert.Equal(t, 12.0, summary.HighScore())
	assert.True(t, summary.HasData())

	gw.scores = map[string]float64{"U1": 0}
	summary, err = p.WeekSummary(ctx, 1)
	require.NoError(t, err)
	assert.False(t, summary.HasData())
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	_, _, p := newFixture(t)
	outcomesPath := func(week int) string { return filepath.Join(dir, "week.json") }
	next := time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC)
	WithOutcomesPath(outcomesPath)(p)
	WithNextRun(func(time.Time) (time.Time, error) { return next, nil })(p)

	_, err := p.ProcessWeek(context.Background(), ProcessRequest{Week: 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(outcomesPath(4), []byte(`{}`), 0o644))

	st, err := p.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pick Em", st.LeagueName)
	assert.Equal(t, "2025", st.Season)
	assert.Equal(t, 4, st.CurrentWeek)
	assert.Equal(t, 1, st.Records)
	assert.True(t, st.OutcomesAvailable)
	assert.Equal(t, next, st.NextRun)
	assert.Contains(t, st.String(), "Stored Results: 1")
}
