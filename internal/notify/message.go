package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

// Payload is what every channel renders: one processed week and the league
// it belongs to.
type Payload struct {
	LeagueName string
	Result     models.WeekResult
}

func (p Payload) week() int   { return p.Result.Week }
func (p Payload) season() int { return int(p.Result.Season) }

func score(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type tierLine struct {
	emoji string
	label string
	names []string
	score float64
}

func (p Payload) tierLines() []tierLine {
	r := p.Result
	lines := []tierLine{
		{"🥇", "Highest Scorer", r.WinnerNames.Highest, r.Scores.Highest},
		{"🥈", "Second Highest", r.WinnerNames.SecondHighest, r.Scores.SecondHighest},
		{"🥉", "Third Highest", r.WinnerNames.ThirdHighest, r.Scores.ThirdHighest},
		{"📉", "Lowest Scorer", r.WinnerNames.Lowest, r.Scores.Lowest},
	}
	out := lines[:0]
	for _, l := range lines {
		if len(l.names) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// LongMessage is the full text used for SMS.
func LongMessage(p Payload) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 %s - Week %d Results 🏈\n\n", p.LeagueName, p.week()))
	for _, l := range p.tierLines() {
		sb.WriteString(fmt.Sprintf("%s %s: %s\n", l.emoji, strings.ToUpper(l.label), strings.Join(l.names, ", ")))
		sb.WriteString(fmt.Sprintf("Score: %s points\n\n", score(l.score)))
	}
	if names := p.Result.WinnerNames.NoPicks; len(names) > 0 {
		sb.WriteString(fmt.Sprintf("❌ NO PICKS SUBMITTED: %s\n\n", strings.Join(names, ", ")))
	}
	if names := p.Result.WinnerNames.PerfectWeek; len(names) > 0 {
		sb.WriteString(fmt.Sprintf("🎯 PERFECT WEEK: %s\nCongratulations! 🎉\n\n", strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Season %d • Week %d\nGood luck next week! 🍀", p.season(), p.week()))
	return sb.String()
}

// ShortMessage fits carrier email-to-SMS gateways, which truncate long
// bodies.
func ShortMessage(p Payload) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 %s W%d Results\n\n", p.LeagueName, p.week()))
	for _, l := range p.tierLines() {
		if l.emoji == "🥉" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %s: %spts\n", l.emoji, strings.Join(l.names, ", "), score(l.score)))
	}
	if names := p.Result.WinnerNames.PerfectWeek; len(names) > 0 {
		sb.WriteString(fmt.Sprintf("🎯 Perfect: %s\n", strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\nS%dW%d 🍀", p.season(), p.week()))
	return sb.String()
}

// MarkdownMessage is shared by Slack and Telegram, which both bold with
// single asterisks.
func MarkdownMessage(p Payload) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *%s - Week %d Results* 🏈\n\n", p.LeagueName, p.week()))
	for _, l := range p.tierLines() {
		sb.WriteString(fmt.Sprintf("%s *%s:* %s - %s points\n", l.emoji, l.label, strings.Join(l.names, ", "), score(l.score)))
	}
	if names := p.Result.WinnerNames.NoPicks; len(names) > 0 {
		sb.WriteString(fmt.Sprintf("❌ *No Picks Submitted:* %s\n", strings.Join(names, ", ")))
	}
	if names := p.Result.WinnerNames.PerfectWeek; len(names) > 0 {
		sb.WriteString(fmt.Sprintf("🎯 *Perfect Week:* %s 🎉\n", strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\nSeason %d • Week %d\nGood luck next week! 🍀", p.season(), p.week()))
	return sb.String()
}

// PlainMessage is the iMessage-ready text handed to Apple Shortcuts.
func PlainMessage(p Payload) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 %s - Week %d Results 🏈\n\n", p.LeagueName, p.week()))
	for _, l := range p.tierLines() {
		sb.WriteString(fmt.Sprintf("%s %s: %s - %s points\n", l.emoji, l.label, strings.Join(l.names, ", "), score(l.score)))
	}
	if names := p.Result.WinnerNames.PerfectWeek; len(names) > 0 {
		sb.WriteString(fmt.Sprintf("🎯 Perfect Week: %s 🎉\n", strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\nSeason %d • Week %d\nGood luck next week! 🍀", p.season(), p.week()))
	return sb.String()
}

const testMessage = "🧪 Test Message\n\nThis is a test message from the skins game bot.\n\n✅ Notifications are working correctly!"

// SamplePayload is a made-up week for previews and integration checks.
func SamplePayload(leagueName string, week int, now time.Time) Payload {
	return Payload{
		LeagueName: leagueName,
		Result: models.WeekResult{
			SchemaVersion: models.SchemaTiered,
			Week:          week,
			Season:        models.FlexInt(now.Year()),
			ProcessedAt:   models.Timestamp{Time: now},
			Rankings: models.TierIDs{
				Highest:       []string{"user1"},
				SecondHighest: []string{"user2"},
				ThirdHighest:  []string{"user3"},
				Lowest:        []string{"user4"},
				NoPicks:       []string{},
			},
			Scores:             models.TierScores{Highest: 12, SecondHighest: 10, ThirdHighest: 8, Lowest: 2},
			PerfectWeekWinners: []string{},
			WinnerNames: models.WinnerNames{
				Highest:       []string{"John"},
				SecondHighest: []string{"Sarah"},
				ThirdHighest:  []string{"Mike"},
				Lowest:        []string{"Tom"},
				NoPicks:       []string{},
				PerfectWeek:   []string{},
			},
		},
	}
}
