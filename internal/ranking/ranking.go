// Package ranking turns one week of scores and picks into scoring tiers.
//
// Everything here is pure: no I/O and no errors. Ties are always kept whole,
// and users who neither scored nor picked are set aside as abstainers.
package ranking

import (
	"sort"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

// Compute partitions users into no-picks and scored, groups scored users by
// exact score and assigns tiers from the distinct scores in descending order:
// the first is highest, the last is lowest, and the second and third fill the
// middle tiers only when they are not already the lowest. With a single
// distinct score the same group is both highest and lowest.
func Compute(scores map[string]float64, picks map[string][]string) models.Rankings {
	var noPicks []string
	groups := make(map[float64][]string)

	for userID, score := range scores {
		if score == 0 && len(picks[userID]) == 0 {
			noPicks = append(noPicks, userID)
			continue
		}
		groups[score] = append(groups[score], userID)
	}

	// a user with picks but no score entry competed and scored zero
	for userID, p := range picks {
		if _, ok := scores[userID]; ok || len(p) == 0 {
			continue
		}
		groups[0] = append(groups[0], userID)
	}

	distinct := make([]float64, 0, len(groups))
	for score, ids := range groups {
		sort.Strings(ids)
		distinct = append(distinct, score)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	sort.Strings(noPicks)

	r := models.Rankings{
		Highest:       models.Group{Tier: models.TierHighest},
		SecondHighest: models.Group{Tier: models.TierSecondHighest},
		ThirdHighest:  models.Group{Tier: models.TierThirdHighest},
		Lowest:        models.Group{Tier: models.TierLowest},
		NoPicks:       noPicks,
	}
	if len(distinct) == 0 {
		return r
	}

	tier := func(t models.Tier, i int) models.Group {
		return models.Group{Tier: t, UserIDs: groups[distinct[i]], Score: distinct[i]}
	}

	last := len(distinct) - 1
	r.Highest = tier(models.TierHighest, 0)
	if last > 1 {
		r.SecondHighest = tier(models.TierSecondHighest, 1)
	}
	if last > 2 {
		r.ThirdHighest = tier(models.TierThirdHighest, 2)
	}
	r.Lowest = tier(models.TierLowest, last)

	return r
}

// PerfectWeek returns the users whose picks cover exactly totalGames games
// and all of them won.
func PerfectWeek(picks map[string][]string, winners map[string]bool, totalGames int) []string {
	var perfect []string
	for userID, p := range picks {
		if len(p) != totalGames || totalGames == 0 {
			continue
		}
		correct := 0
		for _, pick := range p {
			if winners[pick] {
				correct++
			}
		}
		if correct == totalGames {
			perfect = append(perfect, userID)
		}
	}
	sort.Strings(perfect)
	return perfect
}
