// Package skins tracks the weekly pots for each scoring tier.
//
// A tier with exactly one member pays its pot to that user and the pot resets
// to the base amount. Any other outcome (a tie or nobody) carries the pot into
// the next week, where the base amount is added again. Pots reset at the start
// of each season.
package skins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
)

type Payouts struct {
	Tiers       map[models.Tier]decimal.Decimal
	PerfectWeek decimal.Decimal
}

// NewPayouts builds the payout table. Tiers with a zero base are not tracked.
func NewPayouts(highest, second, third, lowest, perfect decimal.Decimal) Payouts {
	p := Payouts{Tiers: make(map[models.Tier]decimal.Decimal), PerfectWeek: perfect}
	for tier, amount := range map[models.Tier]decimal.Decimal{
		models.TierHighest:       highest,
		models.TierSecondHighest: second,
		models.TierThirdHighest:  third,
		models.TierLowest:        lowest,
	} {
		if amount.IsPositive() {
			p.Tiers[tier] = amount
		}
	}
	return p
}

type TierSkin struct {
	Tier       models.Tier
	Pot        decimal.Decimal
	Winner     string
	WinnerName string
	Carried    bool
}

type WeekSkins struct {
	Key         models.WeekKey
	Tiers       []TierSkin
	PerfectWeek []string
	// PerfectWeekPaid is the amount paid to each perfect week winner.
	PerfectWeekPaid decimal.Decimal
}

type Standing struct {
	UserID       string
	Name         string
	Won          decimal.Decimal
	Skins        int
	PerfectWeeks int
}

type Report struct {
	Weeks     []WeekSkins
	Standings []Standing
	// Pots holds what each tier is worth for the week after the last one.
	Pots map[models.Tier]decimal.Decimal
}

type Ledger struct {
	payouts Payouts
}

func NewLedger(p Payouts) *Ledger {
	return &Ledger{payouts: p}
}

// Run replays the processed weeks in order. Only the latest record per week
// counts and legacy records are ignored.
func (l *Ledger) Run(records []models.Record) Report {
	report := Report{Pots: l.basePots()}
	standings := make(map[string]*Standing)
	standing := func(id, name string) *Standing {
		s, ok := standings[id]
		if !ok {
			s = &Standing{UserID: id, Won: decimal.Zero}
			standings[id] = s
		}
		if name != "" {
			s.Name = name
		}
		return s
	}

	season := 0
	for _, r := range jsonfile.Latest(records) {
		if r.Version != models.SchemaTiered {
			continue
		}
		w := r.Tiered
		if int(w.Season) != season {
			season = int(w.Season)
			report.Pots = l.basePots()
		}

		week := WeekSkins{Key: w.Key(), PerfectWeekPaid: decimal.Zero}
		for _, tier := range models.Tiers {
			base, tracked := l.payouts.Tiers[tier]
			if !tracked {
				continue
			}
			pot := report.Pots[tier]
			ids := w.Rankings.Get(tier)
			skin := TierSkin{Tier: tier, Pot: pot, Carried: len(ids) != 1}

			if skin.Carried {
				report.Pots[tier] = pot.Add(base)
			} else {
				skin.Winner = ids[0]
				skin.WinnerName, _ = w.NameOf(ids[0])
				s := standing(skin.Winner, skin.WinnerName)
				s.Won = s.Won.Add(pot)
				s.Skins++
				report.Pots[tier] = base
			}
			week.Tiers = append(week.Tiers, skin)
		}

		if len(w.PerfectWeekWinners) > 0 && l.payouts.PerfectWeek.IsPositive() {
			week.PerfectWeek = w.PerfectWeekWinners
			week.PerfectWeekPaid = l.payouts.PerfectWeek
			for i, id := range w.PerfectWeekWinners {
				name := ""
				if i < len(w.WinnerNames.PerfectWeek) {
					name = w.WinnerNames.PerfectWeek[i]
				}
				s := standing(id, name)
				s.Won = s.Won.Add(l.payouts.PerfectWeek)
				s.PerfectWeeks++
			}
		}
		report.Weeks = append(report.Weeks, week)
	}

	for _, s := range standings {
		report.Standings = append(report.Standings, *s)
	}
	sort.Slice(report.Standings, func(i, j int) bool {
		a, b := report.Standings[i], report.Standings[j]
		if !a.Won.Equal(b.Won) {
			return a.Won.GreaterThan(b.Won)
		}
		return a.UserID < b.UserID
	})
	return report
}

func (l *Ledger) basePots() map[models.Tier]decimal.Decimal {
	pots := make(map[models.Tier]decimal.Decimal, len(l.payouts.Tiers))
	for tier, base := range l.payouts.Tiers {
		pots[tier] = base
	}
	return pots
}

var tierNames = map[models.Tier]string{
	models.TierHighest:       "Highest",
	models.TierSecondHighest: "Second",
	models.TierThirdHighest:  "Third",
	models.TierLowest:        "Lowest",
}

func (r Report) String() string {
	var sb strings.Builder
	sb.WriteString("💰 *Skins*\n")
	if len(r.Weeks) == 0 {
		sb.WriteString("\nNo weeks processed yet.\n")
		return sb.String()
	}

	for _, w := range r.Weeks {
		sb.WriteString(fmt.Sprintf("\n%d Week %d\n", w.Key.Season, w.Key.Week))
		for _, t := range w.Tiers {
			if t.Carried {
				sb.WriteString(fmt.Sprintf("  %s: $%s carried over\n", tierNames[t.Tier], t.Pot.StringFixed(2)))
			} else {
				sb.WriteString(fmt.Sprintf("  %s: $%s to %s\n", tierNames[t.Tier], t.Pot.StringFixed(2), t.WinnerName))
			}
		}
		if len(w.PerfectWeek) > 0 {
			sb.WriteString(fmt.Sprintf("  Perfect Week: $%s each to %d winner(s)\n", w.PerfectWeekPaid.StringFixed(2), len(w.PerfectWeek)))
		}
	}

	sb.WriteString("\n*Standings*\n")
	for i, s := range r.Standings {
		name := s.Name
		if name == "" {
			name = s.UserID
		}
		sb.WriteString(fmt.Sprintf("%d. %s $%s (%d skins", i+1, name, s.Won.StringFixed(2), s.Skins))
		if s.PerfectWeeks > 0 {
			sb.WriteString(fmt.Sprintf(", %d perfect", s.PerfectWeeks))
		}
		sb.WriteString(")\n")
	}

	sb.WriteString("\n*Next week*\n")
	for _, tier := range models.Tiers {
		if pot, ok := r.Pots[tier]; ok {
			sb.WriteString(fmt.Sprintf("  %s: $%s\n", tierNames[tier], pot.StringFixed(2)))
		}
	}
	return sb.String()
}
