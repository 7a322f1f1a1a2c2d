// Package main provides the scriptwf command, a headless driver for
// Workfront UI automation. It runs one operation from flags or a whole
// job file, against a browser session authenticated through an injected
// storage state.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/guhesse/script-wf-sub001/pkg/browser"
	appconfig "github.com/guhesse/script-wf-sub001/pkg/config"
	"github.com/guhesse/script-wf-sub001/pkg/locator"
	"github.com/guhesse/script-wf-sub001/pkg/logging"
	"github.com/guhesse/script-wf-sub001/pkg/workfront"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConfigFile   string
	BaseURL      string
	StorageState string
	Headed       bool
	Timeout      time.Duration
	SummaryFile  string
	ShowVersion  bool

	// Job file mode
	JobFile string

	// Single-operation mode
	Operation  string
	TargetType string
	TargetID   string
	Files      string
	Document   string
	DestDir    string
	Recipients string
	Access     string
	Text       string
	Mentions   string
	Limit      int
	Status     string
	Date       string
	Hours      float64
	Note       string
}

func main() {
	// .env is optional; flags and real env vars win over it.
	_ = godotenv.Load()

	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("scriptwf v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Printf("Execution failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags, with environment fallbacks for
// the tenant settings.
func parseFlags() *CLIConfig {
	config := &CLIConfig{}

	flag.StringVar(&config.ConfigFile, "config", "", "Path to configuration file (JSON)")
	flag.StringVar(&config.BaseURL, "base-url", os.Getenv("WORKFRONT_BASE_URL"), "Workfront tenant base URL")
	flag.StringVar(&config.StorageState, "storage-state", os.Getenv("WORKFRONT_STORAGE_STATE"), "Path to a captured browser storage state file")
	flag.BoolVar(&config.Headed, "headed", false, "Run the browser with a visible window")
	flag.DurationVar(&config.Timeout, "timeout", 10*time.Minute, "Overall execution timeout")
	flag.StringVar(&config.SummaryFile, "summary", "", "Write a JSON step summary to this file")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.StringVar(&config.JobFile, "job", "", "Path to a YAML job file (overrides single-operation flags)")

	flag.StringVar(&config.Operation, "op", "", "Operation: open-project, upload, download, share, comment, list-comments, update-status, log-hours")
	flag.StringVar(&config.TargetType, "target-type", "project", "Target type: project, task, or issue")
	flag.StringVar(&config.TargetID, "target-id", "", "Target object ID")
	flag.StringVar(&config.Files, "files", "", "Comma-separated upload paths or glob patterns")
	flag.StringVar(&config.Document, "document", "", "Document name for download and share")
	flag.StringVar(&config.DestDir, "dest", "downloads", "Directory for downloaded files")
	flag.StringVar(&config.Recipients, "recipients", "", "Comma-separated share recipients")
	flag.StringVar(&config.Access, "access", "", "Access level for shared documents")
	flag.StringVar(&config.Text, "text", "", "Comment text")
	flag.StringVar(&config.Mentions, "mentions", "", "Comma-separated users to mention")
	flag.IntVar(&config.Limit, "limit", 0, "Maximum comments to list (0 = all)")
	flag.StringVar(&config.Status, "status", "", "Status label for update-status")
	flag.StringVar(&config.Date, "date", "", "Date for log-hours (YYYY-MM-DD)")
	flag.Float64Var(&config.Hours, "hours", 0, "Hours for log-hours")
	flag.StringVar(&config.Note, "note", "", "Note for log-hours")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scriptwf - Workfront UI automation\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scriptwf [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Upload final assets to a project\n")
		fmt.Fprintf(os.Stderr, "  scriptwf -op upload -target-id 6123abc -files 'assets/**/*.pdf'\n\n")
		fmt.Fprintf(os.Stderr, "  # Comment with a mention\n")
		fmt.Fprintf(os.Stderr, "  scriptwf -op comment -target-id 6123abc -text 'Ready for review' -mentions 'Dana Reyes'\n\n")
		fmt.Fprintf(os.Stderr, "  # Run a whole job file\n")
		fmt.Fprintf(os.Stderr, "  scriptwf -job handoff.yaml -summary summary.json\n\n")
	}

	flag.Parse()
	return config
}

func run(ctx context.Context, cliConfig *CLIConfig) error {
	if err := appconfig.Initialize(cliConfig.ConfigFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// CLI args override config file values.
	wfSection := appconfig.GetWorkfront()
	if cliConfig.BaseURL != "" {
		wfSection.SetBaseURL(cliConfig.BaseURL)
	}
	if cliConfig.StorageState != "" {
		wfSection.SetStorageStatePath(cliConfig.StorageState)
	}

	job, err := loadJob(cliConfig)
	if err != nil {
		return err
	}

	if cliConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliConfig.Timeout)
		defer cancel()
	}

	manager := browser.NewSessionManager()
	if err := manager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize browser runtime: %w", err)
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			log.Printf("Browser shutdown: %v", err)
		}
	}()

	browserSettings := appconfig.GetBrowser().Snapshot()
	wfSettings := wfSection.Snapshot()
	retrySettings := appconfig.GetRetry().Snapshot()

	opts := browser.SessionOptions{
		Headless: browserSettings.Headless && !cliConfig.Headed,
		Viewport: &browser.Viewport{
			Width:  browserSettings.ViewportWidth,
			Height: browserSettings.ViewportHeight,
		},
		SlowMoMS:         browserSettings.SlowMoMS,
		TimeoutMS:        browserSettings.TimeoutMS,
		StorageStatePath: wfSettings.StorageStatePath,
		DownloadsDir:     browserSettings.DownloadsDir,
	}

	session, err := manager.StartSession("workfront", opts)
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	resolver := locator.NewResolver(locator.RetryPolicy{
		Attempts:      retrySettings.Attempts,
		Delay:         time.Duration(retrySettings.DelayMS) * time.Millisecond,
		Backoff:       retrySettings.Backoff,
		PerTryTimeout: time.Duration(retrySettings.PerTryTimeoutMS) * time.Millisecond,
	}, retrySettings.HeuristicThreshold)

	client, err := workfront.NewClient(session, resolver, wfSettings)
	if err != nil {
		return err
	}

	runner := workfront.NewRunner(client)
	results, runErr := runner.Run(ctx, job)

	// Cookies refresh while the session runs; saving them back keeps the
	// storage state usable for the next invocation.
	if err := session.SaveState(); err != nil {
		log.Printf("Storage state not saved: %v", err)
	}

	printResults(results)

	if cliConfig.SummaryFile != "" {
		if err := workfront.WriteSummary(cliConfig.SummaryFile, results); err != nil {
			log.Printf("Summary not written: %v", err)
		}
	}

	if runErr != nil {
		fmt.Printf("\nLog file: %s\n", logPathHint())
		return runErr
	}
	return nil
}

// loadJob builds the job to run, from a job file or from the
// single-operation flags.
func loadJob(cliConfig *CLIConfig) (*workfront.Job, error) {
	if cliConfig.JobFile != "" {
		return workfront.LoadJobFile(cliConfig.JobFile)
	}

	if cliConfig.Operation == "" {
		return nil, fmt.Errorf("either -job or -op is required (see -help)")
	}

	step := workfront.JobStep{
		Operation:   cliConfig.Operation,
		TargetType:  cliConfig.TargetType,
		TargetID:    cliConfig.TargetID,
		Files:       splitList(cliConfig.Files),
		Document:    cliConfig.Document,
		DestDir:     cliConfig.DestDir,
		Recipients:  splitList(cliConfig.Recipients),
		AccessLevel: cliConfig.Access,
		Text:        cliConfig.Text,
		Mentions:    splitList(cliConfig.Mentions),
		Limit:       cliConfig.Limit,
		Status:      cliConfig.Status,
		Date:        cliConfig.Date,
		Hours:       cliConfig.Hours,
		Note:        cliConfig.Note,
	}
	if err := step.Validate(); err != nil {
		return nil, err
	}

	return &workfront.Job{Name: cliConfig.Operation, Steps: []workfront.JobStep{step}}, nil
}

// splitList splits a comma-separated flag value, trimming blanks.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func printResults(results []workfront.StepResult) {
	for i, res := range results {
		line := fmt.Sprintf("[%d/%d] %-13s %s %s: %s",
			i+1, len(results), res.Operation, res.TargetType, res.TargetID, res.Status)
		if res.Error != "" {
			line += " (" + res.Error + ")"
		}
		fmt.Println(line)
	}
}

func logPathHint() string {
	dir, err := logging.GetLogDirectory()
	if err != nil {
		return "unavailable"
	}
	return dir
}
