// Package main is the entry point for the dircpy command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/dircpy/internal/config"
	"github.com/joe/dircpy/internal/report"
	"github.com/joe/dircpy/pkg/dircpy"
	"github.com/joe/dircpy/pkg/filesystem"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitInvalidArg = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	theme := newTheme(stdout)

	cfg, err := config.Parse(args, stdout)
	if errors.Is(err, arg.ErrHelp) || errors.Is(err, arg.ErrVersion) {
		return exitOK
	}

	if err != nil {
		fmt.Fprintln(stderr, report.RenderFailure(newTheme(stderr), err, dircpy.Stats{}))
		return exitInvalidArg
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer closeLog()

	sourceFS, destFS, srcPath, dstPath, closer, err := filesystem.CreateFileSystemPair(cfg.SourcePath, cfg.DestPath)
	if err != nil {
		logger.Error().Err(err).Msg("cannot open filesystems")
		fmt.Fprintln(stderr, report.RenderFailure(newTheme(stderr), err, dircpy.Stats{}))

		return exitFailure
	}
	defer closer()

	builder := dircpy.NewBuilder(srcPath, dstPath).
		Overwrite(cfg.Overwrite).
		OverwriteIfNewer(cfg.OverwriteIfNewer).
		OverwriteIfSizeDiffers(cfg.OverwriteIfSizeDiffers).
		WithPattern(cfg.Pattern).
		WithFileSystems(sourceFS, destFS).
		WithLogger(logger)

	for _, pattern := range cfg.Exclude {
		builder = builder.WithExcludeFilter(pattern)
	}

	for _, pattern := range cfg.Include {
		builder = builder.WithIncludeFilter(pattern)
	}

	start := time.Now()
	stats, err := builder.Execute()

	if err != nil {
		fmt.Fprintln(stderr, report.RenderFailure(newTheme(stderr), err, stats))

		if dircpy.KindOf(err) == dircpy.KindInvalidArgument {
			return exitInvalidArg
		}

		return exitFailure
	}

	fmt.Fprintln(stdout, report.RenderSummary(theme, report.Summary{
		Source:   cfg.SourcePath,
		Dest:     cfg.DestPath,
		Stats:    stats,
		Duration: time.Since(start),
	}))

	return exitOK
}

func isTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

func newTheme(out *os.File) report.Theme {
	renderer := lipgloss.NewRenderer(out)
	if !isTerminal(out) {
		return report.PlainTheme(renderer)
	}

	return report.NewTheme(renderer)
}

// newLogger logs human-readable lines to stderr and, with --log-file,
// JSON lines to the file as well.
func newLogger(cfg *config.Config, stderr *os.File) (zerolog.Logger, func(), error) {
	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        stderr,
		NoColor:    !isTerminal(stderr),
		TimeFormat: time.Kitchen,
	}

	writers := []io.Writer{&zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: console},
		Level:  level,
	}}
	closeLog := func() {}

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 - path is a user flag
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}

		writers = append(writers, file)
		closeLog = func() { _ = file.Close() }
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(zerolog.DebugLevel).
		With().Timestamp().Logger(), closeLog, nil
}
