package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"formfield-server/internal/infra/async"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	_metricKeyMigratedFields = "migrated_fields"
)

func NewMigrationWorker(
	ticker *time.Ticker,
	schedule string,
	migrationService MigrationService,
) *MigrationWorker {
	return &MigrationWorker{
		ticker:           ticker,
		schedule:         schedule,
		migrationService: migrationService,
		metricCounters:   make(map[string]metric.Float64Counter),
		cronParser:       cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

var _ async.Worker = &MigrationWorker{}

// MigrationWorker sweeps unmigrated fields in the background. Each tick is
// gated by a cron expression so operators can confine sweeps to a quiet
// window; an empty schedule means every tick sweeps.
type MigrationWorker struct {
	ticker           *time.Ticker
	schedule         string
	migrationService MigrationService
	metricCounters   map[string]metric.Float64Counter
	cronParser       cron.Parser
}

func (w *MigrationWorker) Run(ctx context.Context, done func()) {
	slog.Debug("migration worker started")
	defer done()
	var wg sync.WaitGroup
	w.setupOtelCounters()

	for {
		select {
		case <-ctx.Done():
			slog.Info("migration worker cancelled")
			wg.Wait()
			return
		case <-w.ticker.C:
			due, err := w.sweepIsDue(time.Now())
			if err != nil {
				slog.Error("evaluating migration schedule",
					slog.String("schedule", w.schedule),
					slog.Any("error", err))
				continue
			}
			if !due {
				continue
			}

			wg.Add(1)
			w.sweep(context.Background(), wg.Done)
		}
	}
}

func (w *MigrationWorker) setupOtelCounters() {
	meter := otel.Meter("formfield_server")
	migratedCounter, _ := meter.Float64Counter(
		fmt.Sprintf("%s.%s", "formfield_server", "migrated_fields"),
		metric.WithDescription("formfield_server migrated field counter"),
	)

	w.metricCounters[_metricKeyMigratedFields] = migratedCounter
}

func (w *MigrationWorker) sweepIsDue(now time.Time) (bool, error) {
	if w.schedule == "" {
		return true, nil
	}

	scheduleSpec, err := w.cronParser.Parse(w.schedule)
	if err != nil {
		return false, fmt.Errorf("parsing cron schedule: %w", err)
	}

	nextRun := scheduleSpec.Next(now.Add(-time.Minute))
	return nextRun.Before(now) || nextRun.Equal(now), nil
}

func (w *MigrationWorker) sweep(ctx context.Context, done func()) {
	slog.Debug("migration sweep starting", slog.Time("time", time.Now()))
	defer done()

	report, err := w.migrationService.MigrateAll(ctx)
	if err != nil {
		slog.Error("migration sweep failed", slog.Any("error", err))
		return
	}

	if report.Migrated > 0 {
		attributes := []attribute.KeyValue{
			semconv.ServiceNameKey.String("formfield_server"),
		}
		w.metricCounters[_metricKeyMigratedFields].Add(ctx, float64(report.Migrated), metric.WithAttributes(attributes...))
	}

	slog.Debug("migration sweep completed", slog.Time("time", time.Now()))
}

func (w *MigrationWorker) Shutdown() {
	w.ticker.Stop()
}
