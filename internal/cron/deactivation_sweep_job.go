package cron

import (
	"context"
	"fmt"

	"github.com/moodpath/moodpath-backend/internal/lifecycle"
	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/metrics"
)

// DeactivationSweepJobParams configure the grace-period sweep job.
type DeactivationSweepJobParams struct {
	Logger    *logger.Logger
	Lifecycle expiredGraceProcessor
	Metrics   *metrics.CronJobMetrics
}

type expiredGraceProcessor interface {
	ProcessExpiredGracePeriods(ctx context.Context) (lifecycle.SweepResult, error)
}

// NewDeactivationSweepJob builds the hourly job that finalizes lapsed
// pending deactivations.
func NewDeactivationSweepJob(params DeactivationSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lifecycle == nil {
		return nil, fmt.Errorf("lifecycle service required")
	}
	return &deactivationSweepJob{
		logg:      params.Logger,
		lifecycle: params.Lifecycle,
		metrics:   params.Metrics,
	}, nil
}

type deactivationSweepJob struct {
	logg      *logger.Logger
	lifecycle expiredGraceProcessor
	metrics   *metrics.CronJobMetrics
}

func (j *deactivationSweepJob) Name() string { return "deactivation-sweep" }

func (j *deactivationSweepJob) Run(ctx context.Context) error {
	result, err := j.lifecycle.ProcessExpiredGracePeriods(ctx)
	if err != nil {
		return fmt.Errorf("process expired grace periods: %w", err)
	}
	if result.Skipped {
		j.logg.Info(ctx, "deactivation sweep already running; skipped")
		return nil
	}
	if j.metrics != nil {
		j.metrics.AddProcessed(j.Name(), result.Processed)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"processed": result.Processed})
	j.logg.Info(logCtx, "deactivation sweep complete")
	return nil
}
