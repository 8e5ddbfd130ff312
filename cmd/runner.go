package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/liketab/internal/services"
	"github.com/desertthunder/liketab/internal/shared"
	"github.com/desertthunder/liketab/internal/sources"
	"github.com/desertthunder/liketab/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.MusicService
	source  sources.Source
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.MusicService
	Source  sources.Source
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		source:  opts.Source,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, syncCommand, tableCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveService returns the configured music service or an actionable error.
func (r *Runner) resolveService() (services.MusicService, error) {
	if r.service == nil {
		return nil, fmt.Errorf("%w: no music service configured, set credentials.yandex.token in config.toml", shared.ErrServiceUnavailable)
	}
	return r.service, nil
}

// resolveSource builds the table source named by the config's table.backend,
// caching it for the rest of the invocation.
func (r *Runner) resolveSource(ctx context.Context) (sources.Source, error) {
	if r.source != nil {
		return r.source, nil
	}

	table := r.config.Table
	switch table.Backend {
	case "", "xlsx":
		path := table.Path
		if path == "" {
			path = "likes.xlsx"
		}
		r.source = sources.NewXlsxSource(path, r.logger)
	case "sheets":
		google := r.config.Credentials.Google
		creds, err := sources.LoadGoogleCredentials(google.CredentialsFile)
		if err != nil {
			return nil, err
		}
		src, err := sources.NewSheetsSource(ctx, sources.SheetsOpts{
			SpreadsheetURL: table.SpreadsheetURL,
			Credentials:    creds,
			ClientID:       google.ClientID,
			ClientSecret:   google.ClientSecret,
			OnTokenRefresh: sources.FileRefreshCallback(google.CredentialsFile),
		}, r.logger)
		if err != nil {
			return nil, err
		}
		r.source = src
	case "sqlite":
		db, err := shared.NewDatabase(table.Path)
		if err != nil {
			return nil, err
		}
		src, err := sources.NewSqliteSource(db, r.logger)
		if err != nil {
			return nil, err
		}
		r.source = src
	default:
		return nil, fmt.Errorf("%w: %q (must be xlsx, sheets or sqlite)", shared.ErrUnknownBackend, table.Backend)
	}

	r.logger.Debug("table source resolved", "backend", r.source.Name())
	return r.source, nil
}

// newEngine wires the engine from the resolved service and source, verifying
// credentials first so engine errors are API errors rather than auth noise.
func (r *Runner) newEngine(ctx context.Context) (*tasks.LikeEngine, error) {
	service, err := r.resolveService()
	if err != nil {
		return nil, err
	}
	if err := service.Authenticate(ctx, nil); err != nil {
		return nil, err
	}
	source, err := r.resolveSource(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewLikeEngine(service, source, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
