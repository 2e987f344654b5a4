package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ShortcutsData is the file an Apple Shortcut reads to text the group chat.
type ShortcutsData struct {
	Week        int                `json:"week"`
	Season      int                `json:"season"`
	Winners     map[string]string  `json:"winners"`
	Scores      map[string]float64 `json:"scores"`
	MessageText string             `json:"message_text"`
	Timestamp   string             `json:"timestamp"`
}

func NewShortcutsData(p Payload, now time.Time) ShortcutsData {
	r := p.Result
	joined := func(names []string) string {
		if len(names) == 0 {
			return "None"
		}
		return strings.Join(names, ", ")
	}
	return ShortcutsData{
		Week:   p.week(),
		Season: p.season(),
		Winners: map[string]string{
			"highest":        joined(r.WinnerNames.Highest),
			"second_highest": joined(r.WinnerNames.SecondHighest),
			"third_highest":  joined(r.WinnerNames.ThirdHighest),
			"lowest":         joined(r.WinnerNames.Lowest),
			"perfect_week":   joined(r.WinnerNames.PerfectWeek),
		},
		Scores: map[string]float64{
			"highest":        r.Scores.Highest,
			"second_highest": r.Scores.SecondHighest,
			"third_highest":  r.Scores.ThirdHighest,
			"lowest":         r.Scores.Lowest,
		},
		MessageText: PlainMessage(p),
		Timestamp:   now.Format(time.RFC3339),
	}
}

// Shortcuts writes the latest week to a JSON file instead of sending it.
type Shortcuts struct {
	path string
	now  func() time.Time
}

func NewShortcuts(path string) *Shortcuts {
	return &Shortcuts{path: path, now: time.Now}
}

func (s *Shortcuts) Name() string { return "shortcuts" }

func (s *Shortcuts) Configured() bool { return s.path != "" }

func (s *Shortcuts) Path() string { return s.path }

func (s *Shortcuts) Preview(p Payload) string {
	return PlainMessage(p)
}

func (s *Shortcuts) Send(ctx context.Context, p Payload) (Delivery, error) {
	return s.write(ctx, NewShortcutsData(p, s.now()))
}

// SendTest writes a sample week so the shortcut can be built before the
// season starts.
func (s *Shortcuts) SendTest(ctx context.Context) (Delivery, error) {
	now := s.now()
	return s.write(ctx, NewShortcutsData(SamplePayload("Test League", 1, now), now))
}

func (s *Shortcuts) write(ctx context.Context, data ShortcutsData) (Delivery, error) {
	return sendEach(ctx, s.Name(), []string{s.path}, func(_ context.Context, path string) error {
		body, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding shortcuts data: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, body, 0o644)
	})
}
