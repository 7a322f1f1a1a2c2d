package workfront

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Job operations accepted in job files.
const (
	OpOpenProject  = "open-project"
	OpUpload       = "upload"
	OpDownload     = "download"
	OpShare        = "share"
	OpComment      = "comment"
	OpListComments = "list-comments"
	OpUpdateStatus = "update-status"
	OpLogHours     = "log-hours"
)

// Job is a named sequence of operations loaded from a YAML file.
type Job struct {
	Name            string    `yaml:"name"`
	ContinueOnError bool      `yaml:"continue_on_error"`
	Steps           []JobStep `yaml:"steps"`
}

// JobStep is one operation in a job. Which fields matter depends on the
// operation; Validate enforces the pairing.
type JobStep struct {
	Operation  string `yaml:"operation"`
	TargetType string `yaml:"target_type"`
	TargetID   string `yaml:"target_id"`

	// upload
	Files []string `yaml:"files,omitempty"`

	// download / share
	Document    string   `yaml:"document,omitempty"`
	DestDir     string   `yaml:"dest_dir,omitempty"`
	Recipients  []string `yaml:"recipients,omitempty"`
	AccessLevel string   `yaml:"access_level,omitempty"`

	// comment / list-comments
	Text     string   `yaml:"text,omitempty"`
	Mentions []string `yaml:"mentions,omitempty"`
	Limit    int      `yaml:"limit,omitempty"`

	// update-status
	Status string `yaml:"status,omitempty"`

	// log-hours
	Date  string  `yaml:"date,omitempty"`
	Hours float64 `yaml:"hours,omitempty"`
	Note  string  `yaml:"note,omitempty"`
}

// Target builds the step's target. The type defaults to project.
func (s JobStep) Target() Target {
	t := Target{Type: TargetType(s.TargetType), ID: s.TargetID}
	if t.Type == "" {
		t.Type = TargetProject
	}
	return t
}

// Validate checks the step carries what its operation needs.
func (s JobStep) Validate() error {
	if err := s.Target().Validate(); err != nil {
		return err
	}

	switch s.Operation {
	case OpOpenProject, OpListComments:
	case OpUpload:
		if len(s.Files) == 0 {
			return fmt.Errorf("upload step needs files")
		}
	case OpDownload:
		if s.Document == "" {
			return fmt.Errorf("download step needs a document name")
		}
	case OpShare:
		if s.Document == "" {
			return fmt.Errorf("share step needs a document name")
		}
		if len(s.Recipients) == 0 {
			return fmt.Errorf("share step needs recipients")
		}
	case OpComment:
		if strings.TrimSpace(s.Text) == "" && len(s.Mentions) == 0 {
			return fmt.Errorf("comment step needs text or mentions")
		}
	case OpUpdateStatus:
		if strings.TrimSpace(s.Status) == "" {
			return fmt.Errorf("update-status step needs a status")
		}
	case OpLogHours:
		entry, err := s.HourEntry()
		if err != nil {
			return err
		}
		return entry.Validate()
	default:
		return fmt.Errorf("unknown operation %q", s.Operation)
	}
	return nil
}

// HourEntry parses the step's time-log fields. Dates are accepted in ISO
// (2026-08-31) or US (08/31/2026) form.
func (s JobStep) HourEntry() (HourEntry, error) {
	var date time.Time
	var err error
	for _, layout := range []string{"2006-01-02", hoursDateLayout} {
		if date, err = time.Parse(layout, s.Date); err == nil {
			break
		}
	}
	if err != nil {
		return HourEntry{}, fmt.Errorf("bad date %q, want YYYY-MM-DD", s.Date)
	}
	return HourEntry{Date: date, Hours: s.Hours, Note: s.Note}, nil
}

// LoadJobFile reads and validates a job from a YAML file.
func LoadJobFile(path string) (*Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}

	if len(job.Steps) == 0 {
		return nil, fmt.Errorf("job file %s has no steps", path)
	}
	for i, step := range job.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Operation, err)
		}
	}
	return &job, nil
}
