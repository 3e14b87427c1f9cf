// package tasks implements sync operations between local folders and cloud remotes.
//
// The core abstraction is Engine, which orchestrates rclone runs: validation,
// stale lock cleanup, subprocess launch, output streaming, and history recording.
// Operations emit progress updates via channels for non-blocking status reporting
// to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

const (
	// DefaultSyncTimeout bounds a normal sync run.
	DefaultSyncTimeout = time.Hour
	// DefaultResyncTimeout bounds a baseline rebuild, which only lists both sides.
	DefaultResyncTimeout = 5 * time.Minute

	stopGracePeriod = 5 * time.Second
)

// RunSpec describes a single sync invocation.
type RunSpec struct {
	Profile         string      // Profile name for history, may be empty for ad-hoc runs
	Remote          string      // rclone remote, e.g. "gdrive:Documents"
	LocalPath       string      // Local directory to sync
	Mode            rclone.Mode // bisync, pull, or push
	BandwidthLimit  string      // rclone --bwlimit value, empty for unlimited
	DryRun          bool
	ExcludePatterns []string
	ExtraFlags      []string
	Timeout         time.Duration // overrides the engine's configured deadline when positive
}

// RunResult contains the outcome of a finished run.
type RunResult struct {
	Status   models.RunStatus
	ExitCode int
	Stats    rclone.TransferStats
	Duration time.Duration
	Dropped  []string // Flags removed because bisync does not support them
	RunID    string   // History record ID, empty when recording is disabled
}

// RunRecorder persists finished runs. Satisfied by repositories.SyncRunRepository.
type RunRecorder interface {
	Create(run *models.SyncRun) error
}

// Engine defines sync operations against a cloud remote.
type Engine interface {
	// Run performs a sync according to spec and streams progress until it finishes.
	Run(ctx context.Context, spec RunSpec, progress chan<- ProgressUpdate) (*RunResult, error)

	// Resync rebuilds the bisync baseline for spec, required after the first run
	// of a pair or after bisync aborts with a missing listing.
	Resync(ctx context.Context, spec RunSpec, progress chan<- ProgressUpdate) (*RunResult, error)

	// Stop terminates the in-flight run, if any.
	Stop() error
}

// RcloneEngine implements Engine by shelling out to rclone.
type RcloneEngine struct {
	client        *rclone.Client
	recorder      RunRecorder
	logger        *log.Logger
	workdir       string
	syncTimeout   time.Duration
	resyncTimeout time.Duration

	mu      sync.Mutex
	current *rclone.Process
	stopped bool
}

// EngineOpts configures a new RcloneEngine. Zero values pick defaults.
type EngineOpts struct {
	Client        *rclone.Client
	Recorder      RunRecorder // nil disables history recording
	Logger        *log.Logger
	Workdir       string // bisync state directory, defaults to the config dir
	SyncTimeout   time.Duration
	ResyncTimeout time.Duration
}

// NewRcloneEngine creates an engine around an existing rclone client.
func NewRcloneEngine(opts EngineOpts) (*RcloneEngine, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("%w: rclone client is required", shared.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Workdir == "" {
		workdir, err := shared.BisyncWorkdir()
		if err != nil {
			return nil, err
		}
		opts.Workdir = workdir
	}
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = DefaultSyncTimeout
	}
	if opts.ResyncTimeout <= 0 {
		opts.ResyncTimeout = DefaultResyncTimeout
	}

	return &RcloneEngine{
		client:        opts.Client,
		recorder:      opts.Recorder,
		logger:        opts.Logger,
		workdir:       opts.Workdir,
		syncTimeout:   opts.SyncTimeout,
		resyncTimeout: opts.ResyncTimeout,
	}, nil
}

// Run performs a sync according to spec.
func (e *RcloneEngine) Run(ctx context.Context, spec RunSpec, progress chan<- ProgressUpdate) (*RunResult, error) {
	return e.run(ctx, spec, progress, false)
}

// Resync rebuilds the bisync baseline for spec.
func (e *RcloneEngine) Resync(ctx context.Context, spec RunSpec, progress chan<- ProgressUpdate) (*RunResult, error) {
	spec.Mode = rclone.ModeBisync
	return e.run(ctx, spec, progress, true)
}

// Stop terminates the current run. Safe to call when nothing is running.
func (e *RcloneEngine) Stop() error {
	e.mu.Lock()
	proc := e.current
	e.stopped = proc != nil
	e.mu.Unlock()

	if proc == nil {
		return nil
	}
	return proc.Terminate(syscall.SIGTERM, stopGracePeriod)
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *RcloneEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func (e *RcloneEngine) run(ctx context.Context, spec RunSpec, progress chan<- ProgressUpdate, resync bool) (*RunResult, error) {
	e.sendProgress(progress, validateUpdate(1, 4))

	if err := rclone.ValidateRemote(spec.Remote); err != nil {
		return nil, err
	}
	localPath, err := rclone.ValidateLocalPath(spec.LocalPath)
	if err != nil {
		return nil, err
	}

	version, err := e.client.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEngineNotFound, err)
	}
	e.sendProgress(progress, engineCheckUpdate(2, 4, version))

	// Stale bisync locks block every subsequent run, so clear them here.
	// This is the only point where removal is safe: nothing is syncing yet.
	if spec.Mode == rclone.ModeBisync {
		removed, err := rclone.ClearLocks(e.workdir)
		if err != nil {
			e.logger.Warn("failed to clear stale locks", "error", err)
		}
		if removed > 0 {
			e.logger.Warn("removed stale bisync locks", "count", removed)
			e.sendProgress(progress, clearLocksUpdate(3, 4, removed))
		}
	}

	req := rclone.Request{
		Remote:          spec.Remote,
		LocalPath:       localPath,
		Mode:            spec.Mode,
		Workdir:         e.workdir,
		BandwidthLimit:  spec.BandwidthLimit,
		DryRun:          spec.DryRun,
		ExcludePatterns: spec.ExcludePatterns,
		ExtraFlags:      spec.ExtraFlags,
		Resync:          resync,
	}
	args, dropped := req.Args()
	if len(dropped) > 0 {
		e.logger.Warn("dropped flags unsupported by bisync", "flags", dropped)
		e.sendProgress(progress, droppedFlagsUpdate(4, 4, dropped))
	}

	timeout := e.syncTimeout
	if resync {
		timeout = e.resyncTimeout
	}
	if spec.Timeout > 0 {
		timeout = spec.Timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	e.sendProgress(progress, launchUpdate(4, 4, spec.Mode.String(), resync))
	e.logger.Info("starting sync", "mode", spec.Mode.String(), "remote", spec.Remote, "local", localPath, "resync", resync)

	started := time.Now()
	proc, err := rclone.StartProcess(runCtx, e.client.Binary(), args, e.client.Env())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEngineFailed, err)
	}
	e.setCurrent(proc)
	defer e.setCurrent(nil)

	// Raw output is throttled so a chatty transfer cannot flood the UI;
	// stats lines always pass through because they carry the percentage.
	var tracker rclone.StatsTracker
	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 5)

	for line := range proc.Lines() {
		e.logger.Debug("engine output", "line", line)
		if tracker.Observe(line) {
			e.sendProgress(progress, statsUpdate(line, tracker.Stats()))
		} else if limiter.Allow() {
			e.sendProgress(progress, outputUpdate(line))
		}
	}

	waitErr := proc.Wait()
	duration := time.Since(started)
	code := rclone.ExitCode(waitErr)

	status, runErr := e.classify(runCtx, waitErr, code, spec.Mode, resync, timeout)

	stats := tracker.Stats()
	result := &RunResult{
		Status:   status,
		ExitCode: code,
		Stats:    stats,
		Duration: duration,
		Dropped:  dropped,
	}

	run := models.NewSyncRun(spec.Profile, spec.Remote, localPath, spec.Mode.String(), spec.DryRun, started)
	run.SetStatus(status)
	run.SetExitCode(code)
	run.SetBytesTransferred(stats.BytesDone)
	run.SetFilesTransferred(stats.FilesDone)
	run.SetDuration(duration)

	if e.recorder != nil {
		if err := e.recorder.Create(run); err != nil {
			e.logger.Warn("failed to record run", "error", err)
		} else {
			result.RunID = run.ID()
		}
	}

	e.sendProgress(progress, recordUpdate(1, 1, string(status)))
	e.logger.Info("sync finished", "status", string(status), "exit_code", code, "duration", duration)

	return result, runErr
}

// classify maps a process outcome onto a run status and its matching error.
func (e *RcloneEngine) classify(ctx context.Context, waitErr error, code int, mode rclone.Mode, resync bool, timeout time.Duration) (models.RunStatus, error) {
	switch {
	case waitErr == nil:
		return models.RunSuccess, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.RunTimeout, fmt.Errorf("%w after %s", shared.ErrSyncTimeout, timeout)
	case e.wasStopped() || errors.Is(ctx.Err(), context.Canceled):
		return models.RunStopped, shared.ErrSyncStopped
	case mode == rclone.ModeBisync && !resync && code == 2:
		return models.RunNeedsResync, shared.ErrBaselineMissing
	default:
		return models.RunFailed, fmt.Errorf("%w: exit code %d", shared.ErrEngineFailed, code)
	}
}

func (e *RcloneEngine) setCurrent(proc *rclone.Process) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = proc
	if proc != nil {
		e.stopped = false
	}
}

func (e *RcloneEngine) wasStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

var _ Engine = (*RcloneEngine)(nil)
