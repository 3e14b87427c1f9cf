package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/repositories"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
	"github.com/cryptd777/linuxcloudsync/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	client *rclone.Client
	store  *profiles.Store
	engine tasks.Engine // pre-built engine, otherwise constructed per run
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Client *rclone.Client
	Store  *profiles.Store
	Engine tasks.Engine
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
		client: opts.Client,
		store:  opts.Store,
		engine: opts.Engine,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger swaps the runner's logger, used to redirect output while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, remoteCommand, profileCommand, historyCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireClient fails commands that shell out when rclone was not found at startup.
func (r *Runner) requireClient() error {
	if r.client == nil {
		return fmt.Errorf("%w: install rclone or set engine.binary in config.toml", shared.ErrEngineNotFound)
	}
	return nil
}

// requireStore fails profile-dependent commands when the config directory is unusable.
func (r *Runner) requireStore() error {
	if r.store == nil {
		return fmt.Errorf("%w: profile store unavailable", shared.ErrMissingConfig)
	}
	return nil
}

// openDB opens the history database and applies pending migrations.
func (r *Runner) openDB() (*sql.DB, error) {
	path := r.config.Database.Path
	if path == "" {
		var err error
		if path, err = shared.HistoryDBPath(); err != nil {
			return nil, err
		}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// newEngine builds a sync engine with history recording. The returned database
// handle is non-nil when the caller must close it.
func (r *Runner) newEngine() (tasks.Engine, *sql.DB, error) {
	if r.engine != nil {
		return r.engine, nil, nil
	}
	if err := r.requireClient(); err != nil {
		return nil, nil, err
	}

	var recorder tasks.RunRecorder
	db, err := r.openDB()
	if err != nil {
		r.logger.Warn("history recording disabled", "error", err)
		db = nil
	} else {
		recorder = repositories.NewSyncRunRepository(db)
	}

	engine, err := tasks.NewRcloneEngine(tasks.EngineOpts{
		Client:        r.client,
		Recorder:      recorder,
		Logger:        r.logger,
		SyncTimeout:   r.config.Engine.SyncTimeout(),
		ResyncTimeout: r.config.Engine.ResyncTimeout(),
	})
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}
	return engine, db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
