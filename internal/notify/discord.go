package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	discordGreen = 0x00ff00
	discordBlue  = 0x0099ff
)

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      discordFooter  `json:"footer"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type discordMessage struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

type Discord struct {
	webhookURL string
	httpClient *http.Client
}

func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Configured() bool { return d.webhookURL != "" }

func discordResults(p Payload) discordMessage {
	embed := discordEmbed{
		Title:  fmt.Sprintf("🏈 %s - Week %d Results", p.LeagueName, p.week()),
		Color:  discordGreen,
		Fields: []discordField{},
		Footer: discordFooter{Text: fmt.Sprintf("Season %d • Week %d", p.season(), p.week())},
	}
	if !p.Result.ProcessedAt.IsZero() {
		embed.Timestamp = p.Result.ProcessedAt.Format(time.RFC3339)
	}
	for _, l := range p.tierLines() {
		embed.Fields = append(embed.Fields, discordField{
			Name:   l.emoji + " " + l.label,
			Value:  fmt.Sprintf("**%s** - %s points", strings.Join(l.names, ", "), score(l.score)),
			Inline: true,
		})
	}
	if names := p.Result.WinnerNames.NoPicks; len(names) > 0 {
		embed.Fields = append(embed.Fields, discordField{Name: "❌ No Picks Submitted", Value: "**" + strings.Join(names, ", ") + "**"})
	}
	if names := p.Result.WinnerNames.PerfectWeek; len(names) > 0 {
		embed.Fields = append(embed.Fields, discordField{Name: "🎯 Perfect Week!", Value: "**" + strings.Join(names, ", ") + "** 🎉"})
	}
	return discordMessage{
		Content: fmt.Sprintf("📊 **Week %d Results are in!** Good luck next week! 🍀", p.week()),
		Embeds:  []discordEmbed{embed},
	}
}

func (d *Discord) Preview(p Payload) string {
	embed := discordResults(p).Embeds[0]
	var sb strings.Builder
	sb.WriteString("Title: " + embed.Title + "\n")
	for _, f := range embed.Fields {
		sb.WriteString(f.Name + ": " + f.Value + "\n")
	}
	return sb.String()
}

func (d *Discord) Send(ctx context.Context, p Payload) (Delivery, error) {
	return d.post(ctx, discordResults(p))
}

func (d *Discord) SendTest(ctx context.Context) (Delivery, error) {
	return d.post(ctx, discordMessage{
		Content: "🧪 **Test Message** - If you see this, Discord notifications are working!",
		Embeds: []discordEmbed{{
			Title:       "🧪 Test Message",
			Description: "This is a test message from the skins game bot.",
			Color:       discordBlue,
			Fields:      []discordField{{Name: "Status", Value: "✅ Discord notifications are working correctly!"}},
			Footer:      discordFooter{Text: "Test completed successfully"},
		}},
	})
}

func (d *Discord) post(ctx context.Context, msg discordMessage) (Delivery, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return Delivery{}, fmt.Errorf("error encoding discord message: %w", err)
	}
	return sendEach(ctx, d.Name(), []string{d.webhookURL}, func(ctx context.Context, url string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("discord returned status %d", resp.StatusCode)
		}
		return nil
	})
}
