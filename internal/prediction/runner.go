package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/moodpath/moodpath-backend/pkg/config"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
)

// LogInput is one mood log handed to the prediction process.
type LogInput struct {
	Mood       string   `json:"mood"`
	Timestamp  string   `json:"timestamp"`
	Activities []string `json:"activities"`
}

// Output is the prediction process response.
type Output struct {
	DailyPredictions []DailyPrediction `json:"daily_predictions"`
	Insights         []string          `json:"insights"`
}

// DailyPrediction is a predicted mood for one upcoming day.
type DailyPrediction struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
}

// Runner shells out to the configured prediction command, feeding mood logs
// on stdin and reading the prediction payload from stdout.
type Runner struct {
	command string
}

// NewRunner constructs a runner for the configured prediction command.
func NewRunner(cfg config.PredictionConfig) *Runner {
	return &Runner{command: cfg.Command}
}

// Predict invokes the prediction process once. The process reads a JSON array
// of logs from stdin and writes a single JSON object to stdout. A missing
// command, non-zero exit, or malformed output all surface as dependency
// errors; stderr is attached to the error detail for operators.
func (r *Runner) Predict(ctx context.Context, logs []models.MoodLog) (*Output, error) {
	parts := strings.Fields(r.command)
	if len(parts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "prediction service is not configured")
	}

	inputs := make([]LogInput, 0, len(logs))
	for _, log := range logs {
		inputs = append(inputs, LogInput{
			Mood:       string(log.Mood),
			Timestamp:  log.LoggedAt.UTC().Format(time.RFC3339),
			Activities: []string(log.Activities),
		})
	}

	payload, err := json.Marshal(inputs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode prediction input")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prediction process failed").
			WithDetails(map[string]any{"stderr": strings.TrimSpace(stderr.String())})
	}

	var out Output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode prediction output")
	}
	return &out, nil
}
