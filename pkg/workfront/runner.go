package workfront

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/guhesse/script-wf-sub001/pkg/logging"
)

// Executor is the operation surface a Runner drives. Client implements
// it; tests swap in a fake.
type Executor interface {
	OpenProject(ctx context.Context, projectID string) error
	UploadDocuments(ctx context.Context, target Target, patterns []string) ([]UploadResult, error)
	DownloadDocument(ctx context.Context, target Target, name, destDir string) (string, error)
	ShareDocument(ctx context.Context, target Target, name string, opts ShareOptions) error
	AddComment(ctx context.Context, target Target, text string, mentions []string) error
	ListComments(ctx context.Context, target Target, limit int) ([]Comment, error)
	UpdateStatus(ctx context.Context, target Target, status string) error
	LogHours(ctx context.Context, target Target, entry HourEntry) error
}

var _ Executor = (*Client)(nil)

// StepResult records the outcome of one executed job step.
type StepResult struct {
	ID         string         `json:"id"`
	Operation  string         `json:"operation"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Status     string         `json:"status"` // ok, failed, skipped
	Error      string         `json:"error,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// Runner executes job steps in order against an Executor.
type Runner struct {
	exec Executor
	log  *logging.Logger
}

// NewRunner creates a runner over the given executor.
func NewRunner(exec Executor) *Runner {
	log, _ := logging.NewLogger("runner")
	return &Runner{exec: exec, log: log}
}

// Run executes every step of the job in order. When a step fails and the
// job does not set continue_on_error, the remaining steps are recorded as
// skipped. The returned error is the first step failure, if any.
func (r *Runner) Run(ctx context.Context, job *Job) ([]StepResult, error) {
	results := make([]StepResult, 0, len(job.Steps))
	var firstErr error

	for i, step := range job.Steps {
		result := StepResult{
			ID:         uuid.NewString(),
			Operation:  step.Operation,
			TargetType: string(step.Target().Type),
			TargetID:   step.Target().ID,
		}

		if firstErr != nil && !job.ContinueOnError {
			result.Status = "skipped"
			results = append(results, result)
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Status = "skipped"
			result.Error = err.Error()
			results = append(results, result)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		r.log.Infof("step %d/%d: %s on %s %s", i+1, len(job.Steps),
			step.Operation, result.TargetType, result.TargetID)

		result.StartedAt = time.Now()
		details, err := r.runStep(ctx, step)
		result.FinishedAt = time.Now()
		result.Details = details

		if err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			r.log.Errorf("step %d (%s) failed: %v", i+1, step.Operation, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("step %d (%s): %w", i+1, step.Operation, err)
			}
		} else {
			result.Status = "ok"
		}
		results = append(results, result)
	}

	return results, firstErr
}

func (r *Runner) runStep(ctx context.Context, step JobStep) (map[string]any, error) {
	target := step.Target()

	switch step.Operation {
	case OpOpenProject:
		return nil, r.exec.OpenProject(ctx, target.ID)

	case OpUpload:
		uploads, err := r.exec.UploadDocuments(ctx, target, step.Files)
		if err != nil {
			return nil, err
		}
		return map[string]any{"uploads": uploads}, nil

	case OpDownload:
		dest := step.DestDir
		if dest == "" {
			dest = "downloads"
		}
		path, err := r.exec.DownloadDocument(ctx, target, step.Document, dest)
		if err != nil {
			return nil, err
		}
		return map[string]any{"path": path}, nil

	case OpShare:
		opts := ShareOptions{Recipients: step.Recipients, AccessLevel: step.AccessLevel}
		return nil, r.exec.ShareDocument(ctx, target, step.Document, opts)

	case OpComment:
		return nil, r.exec.AddComment(ctx, target, step.Text, step.Mentions)

	case OpListComments:
		comments, err := r.exec.ListComments(ctx, target, step.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"comments": comments}, nil

	case OpUpdateStatus:
		return nil, r.exec.UpdateStatus(ctx, target, step.Status)

	case OpLogHours:
		entry, err := step.HourEntry()
		if err != nil {
			return nil, err
		}
		return nil, r.exec.LogHours(ctx, target, entry)

	default:
		return nil, fmt.Errorf("unknown operation %q", step.Operation)
	}
}

// WriteSummary dumps step results as indented JSON.
func WriteSummary(path string, results []StepResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create summary dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
