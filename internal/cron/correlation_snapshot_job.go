package cron

import (
	"context"
	"fmt"

	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/metrics"
)

// CorrelationSnapshotJobParams configure the weekly snapshot job.
type CorrelationSnapshotJobParams struct {
	Logger      *logger.Logger
	Correlation weekSnapshotter
	Metrics     *metrics.CronJobMetrics
}

type weekSnapshotter interface {
	SnapshotWeek(ctx context.Context) (int, error)
}

// NewCorrelationSnapshotJob builds the job that persists the current week's
// statistics for every user with logs, skipping users already snapshotted.
func NewCorrelationSnapshotJob(params CorrelationSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Correlation == nil {
		return nil, fmt.Errorf("correlation service required")
	}
	return &correlationSnapshotJob{
		logg:        params.Logger,
		correlation: params.Correlation,
		metrics:     params.Metrics,
	}, nil
}

type correlationSnapshotJob struct {
	logg        *logger.Logger
	correlation weekSnapshotter
	metrics     *metrics.CronJobMetrics
}

func (j *correlationSnapshotJob) Name() string { return "correlation-snapshot" }

func (j *correlationSnapshotJob) Run(ctx context.Context) error {
	processed, err := j.correlation.SnapshotWeek(ctx)
	if err != nil {
		return fmt.Errorf("snapshot week: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddProcessed(j.Name(), processed)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"processed": processed})
	j.logg.Info(logCtx, "correlation snapshot complete")
	return nil
}
