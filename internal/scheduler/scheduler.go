package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/notify"
	"github.com/omarshaarawi/skinsbot/internal/outcomes"
	"github.com/omarshaarawi/skinsbot/internal/service"
)

const jobTimeout = 5 * time.Minute

type Processor interface {
	ResolveTargetWeek(ctx context.Context, week int) (int, error)
	WeekSummary(ctx context.Context, week int) (service.WeekSummary, error)
	ProcessWeek(ctx context.Context, req service.ProcessRequest) (models.WeekResult, error)
}

type Dispatcher interface {
	DispatchAll(ctx context.Context, p notify.Payload) map[string]notify.Delivery
}

// Job processes the most recently completed week and announces it.
type Job struct {
	Processor    Processor
	Dispatcher   Dispatcher
	LeagueName   string
	OutcomesPath func(week int) string
	// Reset drops cached league data so each run sees fresh scores.
	Reset func()
	// Export runs after a week has been stored. Optional.
	Export func(ctx context.Context) error
}

// Run returns the processed week, or zero when there was nothing to process.
func (j *Job) Run(ctx context.Context) (int, error) {
	if j.Reset != nil {
		j.Reset()
	}

	week, err := j.Processor.ResolveTargetWeek(ctx, 0)
	if err != nil {
		return 0, err
	}

	summary, err := j.Processor.WeekSummary(ctx, week)
	if err != nil {
		return 0, err
	}
	if !summary.HasData() {
		slog.Info("No scores for week yet, skipping", "week", week)
		return 0, nil
	}

	var games *outcomes.Outcomes
	if j.OutcomesPath != nil {
		games, err = outcomes.Load(j.OutcomesPath(week))
		if err != nil {
			slog.Warn("Ignoring unreadable game results", "week", week, "error", err)
			games = nil
		}
	}

	result, err := j.Processor.ProcessWeek(ctx, service.ProcessRequest{Week: week, Outcomes: games})
	if err != nil {
		return 0, err
	}

	if j.Export != nil {
		if err := j.Export(ctx); err != nil {
			slog.Error("Failed to export results", "error", err)
		}
	}

	if j.Dispatcher != nil {
		deliveries := j.Dispatcher.DispatchAll(ctx, notify.Payload{LeagueName: j.LeagueName, Result: result})
		for channel, d := range deliveries {
			slog.Info("Notification delivered", "channel", channel, "sent", d.String())
		}
	}
	return week, nil
}

type Scheduler struct {
	s   gocron.Scheduler
	job *Job
	// schedule is a standard five field cron expression.
	schedule string
}

func NewScheduler(schedule, timezone string, job *Job) (*Scheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("error loading location %q: %w", timezone, err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		job:      job,
		schedule: schedule,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.schedule, false),
		gocron.NewTask(s.processWeek),
		gocron.WithName("process-week"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create process week job: %w", err)
	}

	s.s.Start()
	slog.Info("Scheduler started", "schedule", s.schedule)
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) processWeek() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	week, err := s.job.Run(ctx)
	if err != nil {
		slog.Error("Failed to process week", "error", err)
		return
	}
	if week > 0 {
		slog.Info("Scheduled run complete", "week", week)
	}
}
