package ranking

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/stretchr/testify/assert"
)

func picked(ids ...string) map[string][]string {
	p := make(map[string][]string, len(ids))
	for _, id := range ids {
		p[id] = []string{"ARI"}
	}
	return p
}

func TestComputeTiePreservation(t *testing.T) {
	r := Compute(map[string]float64{"A": 10, "B": 10, "C": 5}, picked("A", "B", "C"))

	assert.Equal(t, []string{"A", "B"}, r.Highest.UserIDs)
	assert.Equal(t, 10.0, r.Highest.Score)
	assert.True(t, r.Highest.Tied())
	assert.Empty(t, r.SecondHighest.UserIDs)
	assert.Equal(t, []string{"C"}, r.Lowest.UserIDs)
	assert.Equal(t, 5.0, r.Lowest.Score)
	assert.Empty(t, r.ThirdHighest.UserIDs)
}

func TestComputeNoPicksExclusion(t *testing.T) {
	r := Compute(map[string]float64{"A": 10, "B": 0}, picked("A"))

	assert.Equal(t, []string{"B"}, r.NoPicks)
	assert.Equal(t, []string{"A"}, r.Highest.UserIDs)
	assert.Equal(t, []string{"A"}, r.Lowest.UserIDs)
	assert.Empty(t, r.SecondHighest.UserIDs)
}

func TestComputeZeroScoreWithPicksCompetes(t *testing.T) {
	r := Compute(map[string]float64{"A": 4, "B": 0}, picked("A", "B"))

	assert.Empty(t, r.NoPicks)
	assert.Equal(t, []string{"B"}, r.Lowest.UserIDs)
	assert.Equal(t, 0.0, r.Lowest.Score)
}

func TestComputeSingleDistinctScore(t *testing.T) {
	r := Compute(map[string]float64{"A": 7, "B": 7}, nil)

	assert.Equal(t, []string{"A", "B"}, r.Highest.UserIDs)
	assert.Equal(t, []string{"A", "B"}, r.Lowest.UserIDs)
	assert.Equal(t, r.Highest.Score, r.Lowest.Score)
	assert.Empty(t, r.SecondHighest.UserIDs)
	assert.Empty(t, r.ThirdHighest.UserIDs)
}

func TestComputeEndToEndScenario(t *testing.T) {
	r := Compute(
		map[string]float64{"U1": 12, "U2": 10, "U3": 10, "U4": 2},
		picked("U1", "U2", "U3", "U4"),
	)

	assert.Equal(t, models.Group{Tier: models.TierHighest, UserIDs: []string{"U1"}, Score: 12}, r.Highest)
	assert.Equal(t, models.Group{Tier: models.TierSecondHighest, UserIDs: []string{"U2", "U3"}, Score: 10}, r.SecondHighest)
	assert.Empty(t, r.ThirdHighest.UserIDs)
	assert.Equal(t, models.Group{Tier: models.TierLowest, UserIDs: []string{"U4"}, Score: 2}, r.Lowest)
	assert.Empty(t, r.NoPicks)
}

func TestComputeFourDistinctScores(t *testing.T) {
	r := Compute(
		map[string]float64{"A": 12, "B": 10, "C": 8, "D": 2},
		picked("A", "B", "C", "D"),
	)

	assert.Equal(t, []string{"A"}, r.Highest.UserIDs)
	assert.Equal(t, []string{"B"}, r.SecondHighest.UserIDs)
	assert.Equal(t, []string{"C"}, r.ThirdHighest.UserIDs)
	assert.Equal(t, []string{"D"}, r.Lowest.UserIDs)
}

func TestComputeMoreThanFourDistinctScores(t *testing.T) {
	r := Compute(
		map[string]float64{"A": 12, "B": 10, "C": 8, "D": 6, "E": 2},
		picked("A", "B", "C", "D", "E"),
	)

	assert.Equal(t, []string{"A"}, r.Highest.UserIDs)
	assert.Equal(t, []string{"B"}, r.SecondHighest.UserIDs)
	assert.Equal(t, []string{"C"}, r.ThirdHighest.UserIDs)
	assert.Equal(t, []string{"E"}, r.Lowest.UserIDs)
}

func TestComputeEmptyInputs(t *testing.T) {
	r := Compute(nil, nil)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, models.TierLowest, r.Lowest.Tier)

	r = Compute(map[string]float64{"A": 0, "B": 0}, map[string][]string{"A": {}})
	assert.Equal(t, []string{"A", "B"}, r.NoPicks)
	assert.True(t, r.Highest.Empty())
	assert.True(t, r.Lowest.Empty())
	assert.False(t, r.IsEmpty())
}

func TestComputeExactFloatEquality(t *testing.T) {
	a, b := 0.1, 0.2
	r := Compute(map[string]float64{"A": a + b, "B": 0.3}, picked("A", "B"))

	assert.Equal(t, []string{"A"}, r.Highest.UserIDs)
	assert.Equal(t, []string{"B"}, r.Lowest.UserIDs)
}

func TestComputePartitionCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		scores := make(map[string]float64)
		picks := make(map[string][]string)
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("u%d", i)
			scores[id] = float64(rng.Intn(4))
			if rng.Intn(3) > 0 {
				picks[id] = []string{"ARI"}
			}
		}

		r := Compute(scores, picks)

		placed := map[string]int{}
		groups := []models.Group{r.Highest, r.SecondHighest, r.ThirdHighest}
		if !r.Highest.Empty() && r.Lowest.Score != r.Highest.Score {
			groups = append(groups, r.Lowest)
		}
		for _, g := range groups {
			for _, id := range g.UserIDs {
				placed[id]++
			}
		}
		for _, id := range r.NoPicks {
			placed[id]++
		}

		// at most four distinct scores, so every user lands somewhere
		for id := range scores {
			assert.Equal(t, 1, placed[id], "user %s placed %d times", id, placed[id])
		}
		assert.Len(t, placed, len(scores))
	}
}

func TestPerfectWeek(t *testing.T) {
	winners := func(teams ...string) map[string]bool {
		m := make(map[string]bool)
		for _, t := range teams {
			m[t] = true
		}
		return m
	}

	tests := []struct {
		name       string
		picks      map[string][]string
		winners    map[string]bool
		totalGames int
		want       []string
	}{
		{
			name:       "missed one game",
			picks:      map[string][]string{"A": {"x", "y", "z"}},
			winners:    winners("x", "y"),
			totalGames: 3,
		},
		{
			name:       "all correct",
			picks:      map[string][]string{"A": {"x", "y", "z"}},
			winners:    winners("x", "y", "z"),
			totalGames: 3,
			want:       []string{"A"},
		},
		{
			name:       "all correct but incomplete",
			picks:      map[string][]string{"A": {"x", "y"}},
			winners:    winners("x", "y", "z"),
			totalGames: 3,
		},
		{
			name:       "too many picks",
			picks:      map[string][]string{"A": {"x", "y", "z", "w"}},
			winners:    winners("x", "y", "z", "w"),
			totalGames: 3,
		},
		{
			name:       "several perfect",
			picks:      map[string][]string{"B": {"x", "y"}, "A": {"y", "x"}, "C": {"x", "q"}},
			winners:    winners("x", "y"),
			totalGames: 2,
			want:       []string{"A", "B"},
		},
		{
			name:       "no games",
			picks:      map[string][]string{"A": {}},
			winners:    winners(),
			totalGames: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PerfectWeek(tt.picks, tt.winners, tt.totalGames))
		})
	}
}
