package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rfaisal/noteminder/internal/engine"
	"github.com/rfaisal/noteminder/internal/scheduler"
	"github.com/rfaisal/noteminder/internal/shared"
	"github.com/rfaisal/noteminder/internal/store"
	"github.com/rfaisal/noteminder/internal/wizard"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
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
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, noteCommand, categoryCommand, remindCommand, runCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore opens the configured note store.
func (r *Runner) openStore() (*store.Store, error) {
	return store.Open(store.Config{
		Dir:             r.config.Storage.Dir,
		Filename:        r.config.Storage.Filename,
		BackupRetention: r.config.Storage.BackupRetention,
		Logger:          r.logger,
	})
}

// openEngine wires a store and a scheduler together for commands that touch
// reminders.
func (r *Runner) openEngine() (*engine.Engine, error) {
	st, err := r.openStore()
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(scheduler.Config{
		DispatchRate:  r.config.Scheduler.DispatchRate,
		DispatchBurst: r.config.Scheduler.DispatchBurst,
		Logger:        r.logger,
	})
	return engine.New(st, sched, r.logger), nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// resolveWhen turns the remind command's flags into an absolute UTC fire
// time: --at takes an RFC 3339 timestamp, --in one of the quick preset keys.
func resolveWhen(at, in string) (time.Time, error) {
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse --at: %w", err)
		}
		return parsed.UTC(), nil
	}

	flow := wizard.New(nil)
	if err := flow.PickPreset(wizard.Preset(in)); err != nil {
		return time.Time{}, fmt.Errorf("unknown preset %q: %w", in, err)
	}
	resolved, ok := flow.Result()
	if !ok {
		return time.Time{}, fmt.Errorf("preset %q selects no time", in)
	}
	return resolved, nil
}
