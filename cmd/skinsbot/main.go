package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omarshaarawi/skinsbot/internal/api/fantasy"
	"github.com/omarshaarawi/skinsbot/internal/api/sleeper"
	"github.com/omarshaarawi/skinsbot/internal/bot"
	"github.com/omarshaarawi/skinsbot/internal/config"
	"github.com/omarshaarawi/skinsbot/internal/export"
	"github.com/omarshaarawi/skinsbot/internal/metrics"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/notify"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
	"github.com/omarshaarawi/skinsbot/internal/repository/memory"
	"github.com/omarshaarawi/skinsbot/internal/service"
	"github.com/omarshaarawi/skinsbot/internal/skins"
)

var errNoResults = errors.New("no stored results")

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	a := &app{}
	root := &cobra.Command{
		Use:           "skinsbot",
		Short:         "Sleeper pick'em skins game automation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.OutOrStdout())
		},
	}

	root.AddCommand(
		processCmd(a),
		viewCmd(a),
		summaryCmd(a),
		statusCmd(a),
		exportCmd(a),
		dedupeCmd(a),
		skinsCmd(a),
		historyCmd(a),
		analyticsCmd(a),
		notifyCmd(a),
		shortcutsCmd(a),
		serveCmd(a),
	)

	return root.Execute()
}

// app holds the wiring shared by every command.
type app struct {
	cfg       *config.Config
	out       io.Writer
	metrics   *metrics.Metrics
	gateway   *fantasy.Gateway
	store     *jsonfile.Store
	processor *service.WeekProcessor

	botOnce sync.Once
	bot     *bot.TelegramBot
	botErr  error
}

func (a *app) init(out io.Writer) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg
	a.out = out

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Runtime.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	client := sleeper.NewClient(cfg.Sleeper.LeagueID)
	a.gateway = fantasy.NewGateway(sleeper.NewAPI(client), memory.NewRepository())
	a.store = jsonfile.NewStore(cfg.Storage.ResultsPath())
	a.metrics = metrics.New()
	a.processor = service.NewWeekProcessor(a.gateway, a.store, cfg.Sleeper.Season,
		service.WithOutcomesPath(cfg.Storage.OutcomesPath),
		service.WithNextRun(cfg.Runtime.NextRun),
		service.WithMetrics(a.metrics),
	)
	return nil
}

func (a *app) ledger() *skins.Ledger {
	return skins.NewLedger(skins.NewPayouts(a.cfg.Skins.Payouts()))
}

func (a *app) exporter() *export.Exporter {
	return export.NewExporter(a.cfg.Storage.ExportDir)
}

// telegramBot connects on first use so commands that never talk to
// Telegram do not need the network.
func (a *app) telegramBot() (*bot.TelegramBot, error) {
	a.botOnce.Do(func() {
		handler := bot.NewHandler(a.store, a.processor, a.ledger())
		a.bot, a.botErr = bot.NewTelegramBot(a.cfg.Telegram.Token, a.cfg.Telegram.ChatID, handler)
	})
	return a.bot, a.botErr
}

func (a *app) notifiers() []notify.Notifier {
	cfg := a.cfg
	var telegramSend func(string) error
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		telegramSend = func(text string) error {
			b, err := a.telegramBot()
			if err != nil {
				return err
			}
			return b.SendMessage(text)
		}
	}

	notifiers := []notify.Notifier{
		notify.NewTwilioSMS(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.ToNumbers),
		notify.NewSlack(cfg.Slack.WebhookURL),
		notify.NewDiscord(cfg.Discord.WebhookURL),
		notify.NewTelegram(telegramSend),
		notify.NewShortcuts(cfg.Shortcuts.OutputFile),
	}
	email, err := notify.NewEmailSMS(notify.EmailConfig{
		Host:     cfg.Email.SMTPServer,
		Port:     cfg.Email.SMTPPort,
		User:     cfg.Email.User,
		Password: cfg.Email.Password,
		Domain:   cfg.Email.CarrierDomain,
		Phones:   cfg.Email.PhoneNumbers,
	})
	if err != nil {
		slog.Warn("Email notifications disabled", "error", err)
	} else {
		notifiers = append(notifiers, email)
	}
	return notifiers
}

func (a *app) dispatcher(confirm notify.Confirmer) *notify.Dispatcher {
	return notify.NewDispatcher(confirm, a.out, a.metrics, a.notifiers()...)
}

// latestResult returns the newest stored tiered result for week, or for the
// most recent week when week is zero.
func (a *app) latestResult(ctx context.Context, week int) (models.WeekResult, error) {
	records, err := a.store.LoadAll(ctx)
	if err != nil {
		return models.WeekResult{}, err
	}
	latest := jsonfile.Latest(records)
	for i := len(latest) - 1; i >= 0; i-- {
		r := latest[i]
		if r.Version != models.SchemaTiered {
			continue
		}
		if week == 0 || r.Key().Week == week {
			return *r.Tiered, nil
		}
	}
	if week == 0 {
		return models.WeekResult{}, errNoResults
	}
	return models.WeekResult{}, fmt.Errorf("%w for week %d", errNoResults, week)
}
