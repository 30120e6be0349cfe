package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderengine/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleOrderCanceller is implemented by commands.CancelStaleOrdersCommandHandler.
type StaleOrderCanceller interface {
	Handle(ctx context.Context, cmd commands.CancelStaleOrdersCommand) (int, error)
}

// StaleOrderCancellationJob periodically cancels PENDING orders older than ttl.
// A run that is still going when the next tick fires causes that tick to be skipped.
type StaleOrderCancellationJob struct {
	handler   StaleOrderCanceller
	cron      *cron.Cron
	schedule  string
	ttl       time.Duration
	batchSize int
	timeout   time.Duration
	logger    *slog.Logger
}

func NewStaleOrderCancellationJob(
	handler StaleOrderCanceller,
	schedule string,
	ttl time.Duration,
	batchSize int,
	logger *slog.Logger,
) *StaleOrderCancellationJob {
	logger = logger.With("component", "stale_order_cancellation_job")
	cronLogger := slogCronLogger{logger: logger}

	return &StaleOrderCancellationJob{
		handler: handler,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedule:  schedule,
		ttl:       ttl,
		batchSize: batchSize,
		timeout:   time.Minute,
		logger:    logger,
	}
}

func (j *StaleOrderCancellationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("Stale order cancellation job started",
		"schedule", j.schedule, "ttl", j.ttl.String(), "batch_size", j.batchSize)
	return nil
}

// Stop halts scheduling and waits for a running pass to finish or ctx to end.
func (j *StaleOrderCancellationJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
	j.logger.Info("Stale order cancellation job stopped")
}

func (j *StaleOrderCancellationJob) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewCancelStaleOrdersCommand(j.ttl, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid stale order cancellation settings", "error", err)
		return
	}

	cancelled, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order cancellation failed", "cancelled", cancelled, "error", err)
		return
	}
	if cancelled > 0 {
		j.logger.InfoContext(ctx, "Cancelled stale orders", "cancelled", cancelled)
	}
}

// slogCronLogger routes cron's own messages into slog.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
