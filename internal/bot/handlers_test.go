package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/service"
	"github.com/omarshaarawi/skinsbot/internal/skins"
)

type fakeStore struct {
	records []models.Record
	err     error
}

func (f fakeStore) LoadAll(ctx context.Context) ([]models.Record, error) {
	return f.records, f.err
}

type fakeStatus struct{}

func (fakeStatus) Status(ctx context.Context) (service.Status, error) {
	return service.Status{LeagueName: "Pick League", Season: "2025", CurrentWeek: 3}, nil
}

func weekOne() models.Record {
	return models.NewRecord(models.WeekResult{
		SchemaVersion: models.SchemaTiered,
		Week:          1,
		Season:        2025,
		ProcessedAt:   models.Timestamp{Time: time.Date(2025, 9, 9, 8, 0, 0, 0, time.UTC)},
		Rankings: models.TierIDs{
			Highest: []string{"u1"},
			Lowest:  []string{"u2"},
		},
		Scores:             models.TierScores{Highest: 11.5, Lowest: 4},
		PerfectWeekWinners: []string{},
		WinnerNames: models.WinnerNames{
			Highest:     []string{"Alice"},
			Lowest:      []string{"Bob"},
			PerfectWeek: []string{},
		},
	})
}

func newTestHandler(store ResultStore) *Handler {
	ten := decimal.NewFromInt(10)
	ledger := skins.NewLedger(skins.NewPayouts(ten, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero))
	return NewHandler(store, fakeStatus{}, ledger)
}

func command(text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: 42},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func TestHandleCommand(t *testing.T) {
	h := newTestHandler(fakeStore{records: []models.Record{weekOne()}})

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "start", text: "/start", want: "Welcome to SkinsBot"},
		{name: "help", text: "/help", want: "/history <name>"},
		{name: "all results", text: "/results", want: "SKINS GAME RESULTS SUMMARY"},
		{name: "one week", text: "/results 1", want: "🥇 Highest: Alice - 11.5 pts"},
		{name: "missing week", text: "/results 9", want: "No results stored for week 9"},
		{name: "bad week", text: "/results soon", want: "Usage: /results [week]"},
		{name: "summary", text: "/summary", want: "Weeks processed: 1"},
		{name: "status", text: "/status", want: "League: Pick League"},
		{name: "skins", text: "/skins", want: "Highest: $10.00 to Alice"},
		{name: "history", text: "/history alice", want: "📜 *Alice*"},
		{name: "history no args", text: "/history", want: "Usage: /history <name>"},
		{name: "history unknown", text: "/history Zebulon", want: `No player matching "Zebulon"`},
		{name: "unknown", text: "/trade", want: "Unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := h.HandleCommand(context.Background(), command(tt.text))
			assert.Equal(t, int64(42), msg.ChatID)
			assert.Equal(t, "Markdown", msg.ParseMode)
			assert.Contains(t, msg.Text, tt.want)
		})
	}
}

func TestHandleCommandStoreError(t *testing.T) {
	h := newTestHandler(fakeStore{err: errors.New("disk gone")})

	msg := h.HandleCommand(context.Background(), command("/skins"))
	assert.Equal(t, "Error loading results: disk gone", msg.Text)
}
