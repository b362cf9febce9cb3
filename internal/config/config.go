// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/dircpy/pkg/filesystem"
)

// Exported variables.
var (
	ErrMissingSource = errors.New("source path is required")
	ErrMissingDest   = errors.New("destination path is required")
	ErrInvalidGlob   = errors.New("invalid glob pattern")
)

// Config holds the application configuration
type Config struct {
	SourcePath             string   `arg:"-s,--source" help:"Source directory path or sftp://user@host[:port]/path URL"`
	DestPath               string   `arg:"-d,--dest" help:"Destination directory path or sftp://user@host[:port]/path URL"`
	Overwrite              bool     `arg:"-o,--overwrite" help:"Replace existing destination files"`
	OverwriteIfNewer       bool     `arg:"-n,--overwrite-if-newer" help:"Replace destination files older than their source"`
	OverwriteIfSizeDiffers bool     `arg:"-z,--overwrite-if-size-differs" help:"Replace destination files whose size differs from their source"`
	Exclude                []string `arg:"-x,--exclude,separate" help:"Skip entries whose relative path contains PATTERN (repeatable)"`
	Include                []string `arg:"-i,--include,separate" help:"Only copy files whose relative path contains PATTERN (repeatable)"`
	Pattern                string   `arg:"-g,--glob" help:"Only copy files matching this glob, e.g. '**/*.{jpg,png}'"`
	Verbose                bool     `arg:"-v,--verbose" help:"Log every copy decision"`
	LogFile                string   `arg:"--log-file" help:"Also write JSON logs to this file"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Copy a directory tree, with overwrite policies and path filters"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "dircpy 1.0.0"
}

// Parse parses command-line arguments (without the program name).
// Help and version requests are reported as arg.ErrHelp and arg.ErrVersion
// after the text has been written to out.
func Parse(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}

	parser, err := arg.NewParser(arg.Config{Program: "dircpy", Out: out}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	err = parser.Parse(args)

	switch {
	case errors.Is(err, arg.ErrHelp):
		parser.WriteHelp(out)
		return nil, err
	case errors.Is(err, arg.ErrVersion):
		_, _ = fmt.Fprintln(out, cfg.Version())
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}

	if cfg.Pattern != "" && !doublestar.ValidatePattern(cfg.Pattern) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGlob, cfg.Pattern)
	}

	return cfg, nil
}

// ValidatePaths checks that both paths are given and that SFTP URLs are well formed.
// Whether the source exists is left to the copy, which reports it precisely.
func (cfg *Config) ValidatePaths() error {
	if cfg.SourcePath == "" {
		return ErrMissingSource
	}

	if cfg.DestPath == "" {
		return ErrMissingDest
	}

	if _, err := filesystem.ParsePath(cfg.SourcePath); err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}

	if _, err := filesystem.ParsePath(cfg.DestPath); err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}

	return nil
}
