package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/zxp-packager/internal/archive"
	"github.com/oshokin/zxp-packager/internal/config"
	"github.com/oshokin/zxp-packager/internal/logger"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to a YAML settings file.
	ConfigPath string
	// LogLevel overrides the level from the settings file when not empty.
	LogLevel string
	// SourceDir is the extension folder to package.
	SourceDir string
	// OutputPath is where the .zxp archive is written.
	OutputPath string
	// Output receives the progress lines. Defaults to os.Stdout.
	Output io.Writer
}

// packager builds a single ZXP bundle.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type packager struct {
	// cfg holds the effective settings.
	cfg *config.Config
	// opts are the caller's inputs.
	opts *Options
	// out receives the progress lines.
	out io.Writer
}

var (
	// errSourceRequired is returned when no extension folder is given.
	errSourceRequired = errors.New("extension folder must be provided")
	// errOutputRequired is returned when no destination is given.
	errOutputRequired = errors.New("output path must be provided")
)

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "zxp-packager")

	pkg, err := newPackager(opts)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "source", opts.SourceDir)

	return pkg.Run(ctx)
}

// newPackager validates the options and loads settings.
func newPackager(opts *Options) (*packager, error) {
	if opts.SourceDir == "" {
		return nil, errSourceRequired
	}

	if opts.OutputPath == "" {
		return nil, errOutputRequired
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
		if err = config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	return &packager{
		cfg:  cfg,
		opts: opts,
		out:  out,
	}, nil
}

// Run builds the archive and prints the progress lines.
func (p *packager) Run(ctx context.Context) error {
	logger.DebugKV(ctx, "Packaging extension", "output", p.opts.OutputPath)

	var writeErr error

	result, err := archive.Build(ctx, p.opts.SourceDir, p.opts.OutputPath,
		archive.WithFollowSymlinks(p.cfg.ShouldFollowSymlinks()),
		archive.WithProgress(func(name string) {
			if writeErr == nil {
				_, writeErr = fmt.Fprintf(p.out, "Added: %s\n", name)
			}
		}),
	)
	if errors.Is(err, archive.ErrSourceNotFound) {
		return fmt.Errorf("extension folder '%s' not found: %w", p.opts.SourceDir, archive.ErrSourceNotFound)
	}

	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}

	logger.InfoKV(ctx, "Package written",
		"files", len(result.Entries),
		"size", humanize.IBytes(result.Size()),
		"compressed", humanize.IBytes(result.CompressedSize()),
	)

	if _, err = fmt.Fprintf(p.out, "\nZXP package created: %s\n", p.opts.OutputPath); err != nil {
		return err
	}

	if writeErr != nil {
		return writeErr
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}
