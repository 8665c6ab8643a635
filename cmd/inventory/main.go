// Package main is the entry point for the inventory application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/file-inventory/internal/config"
	"github.com/joe/file-inventory/internal/discover"
	"github.com/joe/file-inventory/internal/report"
	"github.com/joe/file-inventory/internal/scan"
	"github.com/joe/file-inventory/internal/session"
	"github.com/joe/file-inventory/internal/store"
	"github.com/joe/file-inventory/internal/tui"
	"github.com/joe/file-inventory/internal/tui/shared"
	"github.com/joe/file-inventory/pkg/filesystem"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse configuration
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}
	defer closeLog()

	var warnings []error

	theme, err := config.LoadTheme(cfg.ThemePath)
	if err != nil && !errors.Is(err, config.ErrThemeNotFound) {
		warnings = append(warnings, err)
	}

	shared.ApplyTheme(theme)

	system := discover.Local()
	if cfg.Host == "" {
		cfg.Host = system.HostLabel(cfg.FQDN)
	}

	sess, err := openSession(cfg, system, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}
	defer func() { _ = sess.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := sess.Load(ctx); err != nil {
		if !errors.Is(err, store.ErrCorruptStore) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)

			return 1
		}

		warnings = append(warnings, err)
	}

	if !cfg.InteractiveMode {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", warning)
		}

		if err := runCommand(ctx, cfg, sess, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)

			return 1
		}

		return 0
	}

	return runInteractive(cfg, sess, system, logger, warnings)
}

func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogPath == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: cfg.Level}))

	return logger, func() { _ = file.Close() }, nil
}

func openSession(cfg *config.Config, system *discover.System, logger *slog.Logger) (*session.Session, error) {
	filter, err := scan.NewPatternFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	scanner := scan.NewScanner(filesystem.NewRealFileSystem())
	scanner.Filter = filter
	scanner.Logger = logger

	st, err := store.Open(cfg.StorePath, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return session.New(session.Config{
		Store:       st,
		Scanner:     scanner,
		Marker:      store.NewMarker(cfg.MarkerPath),
		ErrorLog:    store.NewErrorLog(cfg.ErrorLogPath),
		Host:        cfg.Host,
		Mounts:      system.Mounts,
		Logger:      logger,
		SaveBackoff: session.DefaultSaveBackoff,
	}), nil
}

func runInteractive(
	cfg *config.Config, sess *session.Session, system *discover.System, logger *slog.Logger, warnings []error,
) int {
	watcher, err := store.Watch(sess.Location(), logger)
	if err != nil {
		logger.Warn("not watching the inventory for outside changes", "error", err)
	} else {
		defer func() { _ = watcher.Close() }()
	}

	// Create and run TUI
	model := tui.NewAppModel(tui.Options{
		Session:  sess,
		Config:   cfg,
		System:   system,
		Watcher:  watcher,
		Logger:   logger,
		Warnings: warnings,
	})

	// Only use alt screen if stdout is a TTY
	var opts []tea.ProgramOption
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(model, opts...)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

// runCommand runs one of the non-interactive subcommands.
func runCommand(ctx context.Context, cfg *config.Config, sess *session.Session, out io.Writer) error {
	switch {
	case cfg.Scan != nil:
		root := cfg.Scan.Path
		if root == "" {
			root = cfg.DefaultRoot
		}

		outcome, err := sess.Scan(ctx, root)
		if outcome != nil {
			printScan(out, outcome, cfg.ErrorLogPath)
		}

		return err
	case cfg.Summary != nil:
		stats := report.ComputeStats(sess.Records())
		for _, line := range report.StatsLines(stats, time.Now()) {
			fmt.Fprintln(out, line)
		}

		return nil
	case cfg.Remove != nil:
		var (
			removed int
			err     error
		)

		if cfg.Remove.Host != "" {
			removed, err = sess.RemoveHost(ctx, cfg.Remove.Host)
		} else {
			removed, err = sess.RemoveDrive(ctx, cfg.Remove.Drive)
		}

		fmt.Fprintf(out, "Removed %d records\n", removed)

		return err
	case cfg.Tree != nil:
		return printTree(out, sess, cfg.Tree.Markdown)
	}

	return nil
}

func printScan(out io.Writer, outcome *session.ScanOutcome, errorLogPath string) {
	result := outcome.Result

	status := "Scan complete"
	if result.Partial {
		status = "Scan stopped"
	}

	fmt.Fprintf(out, "%s: %d files (%s) in %s\n",
		status, len(result.Records), report.Size(result.TotalBytes), result.Duration().Round(time.Millisecond))
	fmt.Fprintf(out, "Added %d, updated %d\n", outcome.Merge.Added, outcome.Merge.Replaced)

	if outcome.ErrorLogWritten {
		fmt.Fprintf(out, "%d files could not be read, see %s\n", len(result.Failures), errorLogPath)
	}
}

func printTree(out io.Writer, sess *session.Session, markdownPath string) error {
	root := report.BuildTree(sess.Records())

	if err := report.RenderTree(out, root); err != nil {
		return err
	}

	if markdownPath == "" {
		return nil
	}

	if err := report.WriteMarkdownFile(markdownPath, root); err != nil {
		return err
	}

	fmt.Fprintf(out, "Folder structure written to %s\n", markdownPath)

	return nil
}
