package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omarshaarawi/skinsbot/internal/metrics"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/outcomes"
	"github.com/omarshaarawi/skinsbot/internal/ranking"
)

const unknownName = "Unknown"

// LeagueGateway is the read side of the league data the processor needs.
type LeagueGateway interface {
	FetchLeague(ctx context.Context) (*models.League, error)
	FetchUsers(ctx context.Context) (map[string]models.User, error)
	FetchCurrentWeek(ctx context.Context) (int, error)
	FetchWeekScores(ctx context.Context, week int) (map[string]float64, error)
	FetchWeekPicks(ctx context.Context, week int) (map[string][]string, error)
}

type ResultStore interface {
	Append(ctx context.Context, result models.WeekResult) error
	LoadAll(ctx context.Context) ([]models.Record, error)
}

type WeekProcessor struct {
	gateway       LeagueGateway
	store         ResultStore
	defaultSeason int
	now           func() time.Time
	newID         func() string
	outcomesPath  func(week int) string
	nextRun       func(time.Time) (time.Time, error)
	metrics       *metrics.Metrics
}

type Option func(*WeekProcessor)

func WithClock(now func() time.Time) Option {
	return func(p *WeekProcessor) { p.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(p *WeekProcessor) { p.newID = newID }
}

// WithOutcomesPath tells Status where a week's game results file lives.
func WithOutcomesPath(path func(week int) string) Option {
	return func(p *WeekProcessor) { p.outcomesPath = path }
}

func WithNextRun(next func(time.Time) (time.Time, error)) Option {
	return func(p *WeekProcessor) { p.nextRun = next }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *WeekProcessor) { p.metrics = m }
}

// NewWeekProcessor wires a processor. defaultSeason is used when neither the
// request nor the league metadata yields a season.
func NewWeekProcessor(gateway LeagueGateway, store ResultStore, defaultSeason int, opts ...Option) *WeekProcessor {
	p := &WeekProcessor{
		gateway:       gateway,
		store:         store,
		defaultSeason: defaultSeason,
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type ProcessRequest struct {
	Week int
	// Season is resolved from the league when zero.
	Season int
	// Outcomes enables perfect week detection when non-nil.
	Outcomes *outcomes.Outcomes
}

// ProcessWeek ranks one week, appends the result to the store and returns it.
// A gateway or store failure aborts without appending anything. A week with
// no data still produces a result; check Rankings emptiness before persisting
// if that matters to the caller.
func (p *WeekProcessor) ProcessWeek(ctx context.Context, req ProcessRequest) (models.WeekResult, error) {
	start := p.now()

	season, err := p.resolveSeason(ctx, req.Season)
	if err != nil {
		p.metrics.ProcessingFailed("gateway")
		return models.WeekResult{}, err
	}

	scores, err := p.gateway.FetchWeekScores(ctx, req.Week)
	if err != nil {
		p.metrics.ProcessingFailed("gateway")
		return models.WeekResult{}, fmt.Errorf("error fetching week %d scores: %w", req.Week, err)
	}
	picks, err := p.gateway.FetchWeekPicks(ctx, req.Week)
	if err != nil {
		p.metrics.ProcessingFailed("gateway")
		return models.WeekResult{}, fmt.Errorf("error fetching week %d picks: %w", req.Week, err)
	}
	users, err := p.gateway.FetchUsers(ctx)
	if err != nil {
		p.metrics.ProcessingFailed("gateway")
		return models.WeekResult{}, fmt.Errorf("error fetching users: %w", err)
	}

	rankings := ranking.Compute(scores, picks)
	perfect := []string{}
	if req.Outcomes != nil {
		perfect = nonNil(ranking.PerfectWeek(picks, req.Outcomes.Winners(), req.Outcomes.TotalGames()))
	} else {
		slog.Info("No game results, skipping perfect week", "week", req.Week)
	}

	result := buildResult(rankings, perfect, users)
	result.ID = p.newID()
	result.SchemaVersion = models.SchemaTiered
	result.Week = req.Week
	result.Season = models.FlexInt(season)
	result.ProcessedAt = models.Timestamp{Time: p.now()}

	if err := p.store.Append(ctx, result); err != nil {
		p.metrics.ProcessingFailed("store")
		return models.WeekResult{}, fmt.Errorf("error saving week %d: %w", req.Week, err)
	}

	p.metrics.WeekProcessed(req.Week, p.now().Sub(start))
	slog.Info("Processed week", "week", req.Week, "season", season,
		"highest", result.WinnerNames.Highest, "perfect_week", result.WinnerNames.PerfectWeek)
	return result, nil
}

func (p *WeekProcessor) resolveSeason(ctx context.Context, season int) (int, error) {
	if season != 0 {
		return season, nil
	}
	league, err := p.gateway.FetchLeague(ctx)
	if err != nil {
		return 0, fmt.Errorf("error resolving season: %w", err)
	}
	if s, err := strconv.Atoi(strings.TrimSpace(league.Season)); err == nil && s > 0 {
		return s, nil
	}
	slog.Warn("League has no usable season, using default", "season", league.Season, "default", p.defaultSeason)
	return p.defaultSeason, nil
}

func buildResult(r models.Rankings, perfect []string, users map[string]models.User) models.WeekResult {
	names := func(ids []string) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = displayName(users, id)
		}
		return out
	}

	return models.WeekResult{
		Rankings: models.TierIDs{
			Highest:       nonNil(r.Highest.UserIDs),
			SecondHighest: nonNil(r.SecondHighest.UserIDs),
			ThirdHighest:  nonNil(r.ThirdHighest.UserIDs),
			Lowest:        nonNil(r.Lowest.UserIDs),
			NoPicks:       nonNil(r.NoPicks),
		},
		Scores: models.TierScores{
			Highest:       r.Highest.Score,
			SecondHighest: r.SecondHighest.Score,
			ThirdHighest:  r.ThirdHighest.Score,
			Lowest:        r.Lowest.Score,
		},
		PerfectWeekWinners: perfect,
		WinnerNames: models.WinnerNames{
			Highest:       names(r.Highest.UserIDs),
			SecondHighest: names(r.SecondHighest.UserIDs),
			ThirdHighest:  names(r.ThirdHighest.UserIDs),
			Lowest:        names(r.Lowest.UserIDs),
			NoPicks:       names(r.NoPicks),
			PerfectWeek:   names(perfect),
		},
	}
}

func displayName(users map[string]models.User, id string) string {
	u, ok := users[id]
	switch {
	case !ok:
		return unknownName
	case u.DisplayName != "":
		return u.DisplayName
	case u.Username != "":
		return u.Username
	}
	return unknownName
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ResolveTargetWeek returns week when set, otherwise the most recently
// completed week: the league's current week minus one, never below 1.
func (p *WeekProcessor) ResolveTargetWeek(ctx context.Context, week int) (int, error) {
	if week > 0 {
		return week, nil
	}
	current, err := p.gateway.FetchCurrentWeek(ctx)
	if err != nil {
		return 0, fmt.Errorf("error fetching current week: %w", err)
	}
	if current <= 1 {
		return 1, nil
	}
	return current - 1, nil
}

type UserWeek struct {
	UserID string
	Name   string
	Score  float64
	Picks  []string
}

type WeekSummary struct {
	Week  int
	Users []UserWeek
}

// HasData reports whether anyone has scored yet. Weeks that have not been
// played return false and should not be persisted.
func (s WeekSummary) HasData() bool {
	for _, u := range s.Users {
		if u.Score > 0 {
			return true
		}
	}
	return false
}

func (s WeekSummary) HighScore() float64 {
	var high float64
	for _, u := range s.Users {
		if u.Score > high {
			high = u.Score
		}
	}
	return high
}

// WeekSummary lists every user's score and picks for a week, highest first.
func (p *WeekProcessor) WeekSummary(ctx context.Context, week int) (WeekSummary, error) {
	scores, err := p.gateway.FetchWeekScores(ctx, week)
	if err != nil {
		return WeekSummary{}, fmt.Errorf("error fetching week %d scores: %w", week, err)
	}
	picks, err := p.gateway.FetchWeekPicks(ctx, week)
	if err != nil {
		return WeekSummary{}, fmt.Errorf("error fetching week %d picks: %w", week, err)
	}
	users, err := p.gateway.FetchUsers(ctx)
	if err != nil {
		return WeekSummary{}, fmt.Errorf("error fetching users: %w", err)
	}

	seen := make(map[string]bool)
	summary := WeekSummary{Week: week}
	add := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		summary.Users = append(summary.Users, UserWeek{
			UserID: id,
			Name:   displayName(users, id),
			Score:  scores[id],
			Picks:  picks[id],
		})
	}
	for id := range scores {
		add(id)
	}
	for id := range picks {
		add(id)
	}

	sort.Slice(summary.Users, func(i, j int) bool {
		a, b := summary.Users[i], summary.Users[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Name < b.Name
	})
	return summary, nil
}

type Status struct {
	LeagueName        string
	Season            string
	CurrentWeek       int
	Records           int
	OutcomesFile      string
	OutcomesAvailable bool
	NextRun           time.Time
}

// Status reports where the league stands without processing anything.
func (p *WeekProcessor) Status(ctx context.Context) (Status, error) {
	league, err := p.gateway.FetchLeague(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("error fetching league: %w", err)
	}
	week, err := p.gateway.FetchCurrentWeek(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("error fetching current week: %w", err)
	}
	records, err := p.store.LoadAll(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("error loading results: %w", err)
	}

	st := Status{
		LeagueName:  league.Name,
		Season:      league.Season,
		CurrentWeek: week,
		Records:     len(records),
	}
	if p.outcomesPath != nil {
		st.OutcomesFile = p.outcomesPath(week)
		_, statErr := os.Stat(st.OutcomesFile)
		st.OutcomesAvailable = statErr == nil
	}
	if p.nextRun != nil {
		next, err := p.nextRun(p.now())
		if err != nil {
			slog.Warn("Could not compute next scheduled run", "error", err)
		} else {
			st.NextRun = next
		}
	}
	return st, nil
}

func (s Status) String() string {
	var sb strings.Builder
	sb.WriteString("🔍 *Status*\n\n")
	name := s.LeagueName
	if name == "" {
		name = unknownName
	}
	sb.WriteString(fmt.Sprintf("League: %s\n", name))
	sb.WriteString(fmt.Sprintf("Season: %s\n", s.Season))
	sb.WriteString(fmt.Sprintf("Current Week: %d\n", s.CurrentWeek))
	sb.WriteString(fmt.Sprintf("Stored Results: %d\n", s.Records))
	if s.OutcomesFile != "" {
		if s.OutcomesAvailable {
			sb.WriteString(fmt.Sprintf("Game Results: %s\n", s.OutcomesFile))
		} else {
			sb.WriteString(fmt.Sprintf("Game Results: missing (%s)\n", s.OutcomesFile))
		}
	}
	if !s.NextRun.IsZero() {
		sb.WriteString(fmt.Sprintf("Next Run: %s\n", s.NextRun.Format("Mon Jan 2 15:04 MST")))
	}
	return sb.String()
}
