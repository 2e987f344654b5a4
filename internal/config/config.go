package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	Sleeper   Sleeper
	Storage   Storage
	Runtime   Runtime
	Skins     Skins
	Twilio    Twilio
	Email     Email
	Slack     Slack
	Discord   Discord
	Telegram  Telegram
	Shortcuts Shortcuts
}

type Sleeper struct {
	LeagueID   string `envconfig:"SLEEPER_LEAGUE_ID" required:"true"`
	LeagueName string `envconfig:"LEAGUE_NAME" default:"Fantasy League"`
	Season     int    `envconfig:"CURRENT_SEASON" default:"2025"`
}

type Storage struct {
	DataDir     string `envconfig:"DATA_DIRECTORY" default:"data"`
	ResultsFile string `envconfig:"RESULTS_FILE" default:"skins_game_results.json"`
	ExportDir   string `envconfig:"EXPORT_DIRECTORY" default:"."`
}

type Runtime struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Timezone string `envconfig:"TIMEZONE" default:"America/Chicago"`
	Schedule string `envconfig:"SCHEDULE" default:"0 8 * * 2"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Skins holds the base pot per tier. Amounts are decimal strings so that
// carry-overs add up to the cent.
type Skins struct {
	Highest       string `envconfig:"SKIN_HIGHEST" default:"10"`
	SecondHighest string `envconfig:"SKIN_SECOND_HIGHEST" default:"0"`
	ThirdHighest  string `envconfig:"SKIN_THIRD_HIGHEST" default:"0"`
	Lowest        string `envconfig:"SKIN_LOWEST" default:"0"`
	PerfectWeek   string `envconfig:"SKIN_PERFECT_WEEK" default:"40"`
}

type Twilio struct {
	AccountSID string   `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken  string   `envconfig:"TWILIO_AUTH_TOKEN"`
	FromNumber string   `envconfig:"TWILIO_FROM_NUMBER"`
	ToNumbers  []string `envconfig:"TWILIO_TO_NUMBERS"`
}

type Email struct {
	SMTPServer    string   `envconfig:"SMTP_SERVER"`
	SMTPPort      int      `envconfig:"SMTP_PORT" default:"587"`
	User          string   `envconfig:"EMAIL_USER"`
	Password      string   `envconfig:"EMAIL_PASSWORD"`
	CarrierDomain string   `envconfig:"SMS_GATEWAY_DOMAIN" default:"txt.att.net"`
	PhoneNumbers  []string `envconfig:"SMS_PHONE_NUMBERS"`
}

type Slack struct {
	WebhookURL string `envconfig:"SLACK_WEBHOOK_URL"`
}

type Discord struct {
	WebhookURL string `envconfig:"DISCORD_WEBHOOK_URL"`
}

type Telegram struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type Shortcuts struct {
	OutputFile string `envconfig:"SHORTCUTS_OUTPUT_FILE" default:"shortcuts_data.json"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values envconfig cannot: cron syntax, time zone and
// payout amounts.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Sleeper.LeagueID) == "" {
		return fmt.Errorf("%w: SLEEPER_LEAGUE_ID must not be empty", ErrInvalidConfig)
	}
	if _, err := cron.ParseStandard(c.Runtime.Schedule); err != nil {
		return fmt.Errorf("%w: SCHEDULE %q: %v", ErrInvalidConfig, c.Runtime.Schedule, err)
	}
	if _, err := time.LoadLocation(c.Runtime.Timezone); err != nil {
		return fmt.Errorf("%w: TIMEZONE %q: %v", ErrInvalidConfig, c.Runtime.Timezone, err)
	}
	for name, v := range map[string]string{
		"SKIN_HIGHEST":        c.Skins.Highest,
		"SKIN_SECOND_HIGHEST": c.Skins.SecondHighest,
		"SKIN_THIRD_HIGHEST":  c.Skins.ThirdHighest,
		"SKIN_LOWEST":         c.Skins.Lowest,
		"SKIN_PERFECT_WEEK":   c.Skins.PerfectWeek,
	} {
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("%w: %s %q is not a number", ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// ResultsPath is the full path of the results store file.
func (s Storage) ResultsPath() string {
	return filepath.Join(s.DataDir, s.ResultsFile)
}

// OutcomesPath is where the game results for a week are expected.
func (s Storage) OutcomesPath(week int) string {
	return filepath.Join(s.DataDir, fmt.Sprintf("week_%d_game_results.json", week))
}

// NextRun reports when the configured schedule fires next after t.
func (r Runtime) NextRun(t time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	sched, err := cron.ParseStandard(r.Schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(t.In(loc)), nil
}

// Payouts parses the skin amounts. Validate has already vetted them.
func (s Skins) Payouts() (highest, second, third, lowest, perfect decimal.Decimal) {
	return decimal.RequireFromString(s.Highest),
		decimal.RequireFromString(s.SecondHighest),
		decimal.RequireFromString(s.ThirdHighest),
		decimal.RequireFromString(s.Lowest),
		decimal.RequireFromString(s.PerfectWeek)
}
