package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/omarshaarawi/skinsbot/internal/analytics"
	"github.com/omarshaarawi/skinsbot/internal/export"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/notify"
	"github.com/omarshaarawi/skinsbot/internal/outcomes"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
	"github.com/omarshaarawi/skinsbot/internal/service"
)

func weekArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, nil
	}
	week, err := strconv.Atoi(args[i])
	if err != nil || week < 1 {
		return 0, fmt.Errorf("invalid week %q", args[i])
	}
	return week, nil
}

func processCmd(a *app) *cobra.Command {
	var (
		season       int
		outcomesPath string
		showAll      bool
		noExport     bool
	)
	cmd := &cobra.Command{
		Use:   "process [week]",
		Short: "Rank a completed week and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			week, err := weekArg(args, 0)
			if err != nil {
				return err
			}
			week, err = a.processor.ResolveTargetWeek(ctx, week)
			if err != nil {
				return err
			}

			summary, err := a.processor.WeekSummary(ctx, week)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, service.FormatWeekSummary(summary))
			if !summary.HasData() {
				fmt.Fprintf(a.out, "\n⚠️ No scores for week %d yet, nothing to process\n", week)
				return nil
			}

			games, err := loadOutcomes(a, week, outcomesPath)
			if err != nil {
				return err
			}

			result, err := a.processor.ProcessWeek(ctx, service.ProcessRequest{
				Week:     week,
				Season:   season,
				Outcomes: games,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\n✅ Week %d processed\n\n", week)
			fmt.Fprint(a.out, service.FormatResult(models.NewRecord(result)))

			records, err := a.store.LoadAll(ctx)
			if err != nil {
				return err
			}
			if showAll {
				fmt.Fprintln(a.out)
				fmt.Fprint(a.out, service.FormatAllResults(jsonfile.Latest(records)))
			}
			if !noExport {
				if err := exportRecords(a, a.exporter(), records); err != nil {
					slog.Error("Failed to export results", "error", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season to record (defaults to the league's season)")
	cmd.Flags().StringVar(&outcomesPath, "outcomes", "", "Game results file (defaults to the data directory)")
	cmd.Flags().BoolVar(&showAll, "show-all", false, "Print every stored result afterwards")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip the CSV and XLSX export")
	return cmd
}

// loadOutcomes reads game results for perfect week detection. An explicit
// path must load; the default location is optional.
func loadOutcomes(a *app, week int, explicit string) (*outcomes.Outcomes, error) {
	if explicit != "" {
		games, err := outcomes.Load(explicit)
		if err != nil {
			return nil, err
		}
		if games == nil {
			return nil, fmt.Errorf("game results file %s does not exist", explicit)
		}
		return games, nil
	}

	path := a.cfg.Storage.OutcomesPath(week)
	games, err := outcomes.Load(path)
	if err != nil {
		slog.Warn("Ignoring unreadable game results", "path", path, "error", err)
		return nil, nil
	}
	if games == nil {
		fmt.Fprintf(a.out, "\n⚠️ No game results at %s, perfect week skipped\n", path)
	}
	return games, nil
}

func exportRecords(a *app, e *export.Exporter, records []models.Record) error {
	paths, err := e.ExportAll(records)
	if errors.Is(err, export.ErrNothingToExport) {
		fmt.Fprintln(a.out, "📊 Nothing to export yet")
		return nil
	}
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(a.out, "📁 Exported %s\n", p)
	}
	return nil
}

func viewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print every stored result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.Exists() {
				fmt.Fprintf(a.out, "❌ No results file found at %s\n", a.store.Path())
				return nil
			}
			records, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, service.FormatAllResults(records))
			return nil
		},
	}
}

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print per-season totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, service.FormatSeasonSummary(jsonfile.Latest(records)))
			return nil
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show league, storage and schedule status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.processor.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, st.String())
			fmt.Fprintf(a.out, "Results File: %s\n", a.store.Path())
			fmt.Fprintf(a.out, "Configured Channels: %v\n", a.dispatcher(notify.AutoConfirm).Configured())
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the season report as CSV and XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			e := a.exporter()
			if dir != "" {
				e = export.NewExporter(dir)
			}
			return exportRecords(a, e, records)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (defaults to EXPORT_DIRECTORY)")
	return cmd
}

func dedupeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Keep only the latest result per week, backing up the file first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kept, removed, backup, err := a.store.Deduplicate(cmd.Context())
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintf(a.out, "✅ No duplicates found (%d results)\n", len(kept))
				return nil
			}
			fmt.Fprintf(a.out, "💾 Backup written to %s\n", backup)
			fmt.Fprintf(a.out, "🧹 Removed %d duplicate(s), %d results kept\n", removed, len(kept))
			return nil
		},
	}
}

func skinsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "skins",
		Short: "Show skins pots, carry-overs and standings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, a.ledger().Run(records).String())
			return nil
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "Show one player's placements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			player, err := service.FindUser(records, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, service.FormatHistory(player, service.UserHistory(records, player.UserID)))
			return nil
		},
	}
}

func analyticsCmd(a *app) *cobra.Command {
	var predict string
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Season performance analytics from league scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			history, err := a.gateway.FetchScoreHistory(ctx)
			if err != nil {
				return err
			}
			users, err := a.gateway.FetchUsers(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(users))
			for id, u := range users {
				names[id] = u.DisplayName
				if names[id] == "" {
					names[id] = u.Username
				}
			}

			league := analytics.Analyze(history, names)
			if predict == "" {
				fmt.Fprint(a.out, league.Summary())
				return nil
			}

			player, err := league.Lookup(predict)
			if err != nil {
				return err
			}
			p, err := league.Predict(player.UserID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "🔮 %s, week %d\n", player.Name, p.NextWeek)
			fmt.Fprintf(a.out, "  Predicted score: %.2f\n", p.Score)
			fmt.Fprintf(a.out, "  Confidence: %.0f%%\n", p.Confidence*100)
			fmt.Fprintf(a.out, "  Trend: %+.2f per week\n", p.Trend)
			return nil
		},
	}
	cmd.Flags().StringVar(&predict, "predict", "", "Predict next week's score for a player")
	return cmd
}

func notifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send results to a notification channel",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test <channel>",
		Short: "Send a test message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(notify.AutoConfirm).Test(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "✅ Test message sent to %s recipients\n", d)
			return nil
		},
	})

	var yes bool
	send := &cobra.Command{
		Use:   "send <channel> [week]",
		Short: "Send a stored week's results",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := weekArg(args, 1)
			if err != nil {
				return err
			}
			result, err := a.latestResult(cmd.Context(), week)
			if err != nil {
				return err
			}

			var confirm notify.Confirmer = notify.NewPromptConfirmer(os.Stdin, a.out)
			if yes {
				confirm = notify.AutoConfirm
			}
			payload := notify.Payload{LeagueName: a.cfg.Sleeper.LeagueName, Result: result}
			_, err = a.dispatcher(confirm).Dispatch(cmd.Context(), args[0], payload)
			if errors.Is(err, notify.ErrCancelled) {
				return nil
			}
			return err
		},
	}
	send.Flags().BoolVarP(&yes, "yes", "y", false, "Send without asking for confirmation")
	cmd.AddCommand(send)
	return cmd
}

func shortcutsCmd(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "shortcuts [week]",
		Short: "Write the Apple Shortcuts data file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := notify.NewShortcuts(a.cfg.Shortcuts.OutputFile)

			var payload notify.Payload
			if sample {
				payload = notify.SamplePayload(a.cfg.Sleeper.LeagueName, 1, time.Now())
			} else {
				week, err := weekArg(args, 0)
				if err != nil {
					return err
				}
				result, err := a.latestResult(cmd.Context(), week)
				if err != nil {
					return err
				}
				payload = notify.Payload{LeagueName: a.cfg.Sleeper.LeagueName, Result: result}
			}

			if _, err := s.Send(cmd.Context(), payload); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "📱 Shortcuts data written to %s\n", s.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "Write sample data instead of a stored week")
	return cmd
}
