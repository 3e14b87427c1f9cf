package models

import (
	"fmt"
	"time"
)

// RunStatus enumerates terminal states of a sync run.
type RunStatus string

const (
	RunSuccess     RunStatus = "success"      // rclone exited 0
	RunFailed      RunStatus = "failed"       // rclone exited non-zero
	RunStopped     RunStatus = "stopped"      // cancelled by the user
	RunTimeout     RunStatus = "timeout"      // hit the run deadline
	RunNeedsResync RunStatus = "needs_resync" // bisync exit 2, baseline missing
)

// SyncRun records a single rclone invocation and its outcome.
type SyncRun struct {
	id               string
	sequence         int
	profile          string
	remote           string
	localPath        string
	mode             string
	status           RunStatus
	exitCode         int
	dryRun           bool
	bytesTransferred int64
	filesTransferred int64
	startedAt        time.Time
	duration         time.Duration
	createdAt        time.Time
	updatedAt        time.Time
	deletedAt        *time.Time
}

// NewSyncRun creates an unsaved run record for the given invocation.
// ID and sequence are assigned by the repository on Create.
func NewSyncRun(profile, remote, localPath, mode string, dryRun bool, startedAt time.Time) *SyncRun {
	now := time.Now()
	return &SyncRun{
		profile:   profile,
		remote:    remote,
		localPath: localPath,
		mode:      mode,
		dryRun:    dryRun,
		startedAt: startedAt,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *SyncRun) ID() string { return r.id }
func (r *SyncRun) Sequence() int { return r.sequence }
func (r *SyncRun) Profile() string { return r.profile }
func (r *SyncRun) Remote() string { return r.remote }
func (r *SyncRun) LocalPath() string { return r.localPath }
func (r *SyncRun) Mode() string { return r.mode }
func (r *SyncRun) Status() RunStatus { return r.status }
func (r *SyncRun) ExitCode() int { return r.exitCode }
func (r *SyncRun) DryRun() bool { return r.dryRun }
func (r *SyncRun) BytesTransferred() int64 { return r.bytesTransferred }
func (r *SyncRun) FilesTransferred() int64 { return r.filesTransferred }
func (r *SyncRun) StartedAt() time.Time { return r.startedAt }
func (r *SyncRun) Duration() time.Duration { return r.duration }
func (r *SyncRun) CreatedAt() time.Time { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time { return r.updatedAt }
func (r *SyncRun) DeletedAt() *time.Time { return r.deletedAt }

func (r *SyncRun) SetID(id string) { r.id = id }
func (r *SyncRun) SetSequence(seq int) { r.sequence = seq }
func (r *SyncRun) SetStatus(s RunStatus) { r.status = s }
func (r *SyncRun) SetExitCode(code int) { r.exitCode = code }
func (r *SyncRun) SetBytesTransferred(n int64) { r.bytesTransferred = n }
func (r *SyncRun) SetFilesTransferred(n int64) { r.filesTransferred = n }
func (r *SyncRun) SetDuration(d time.Duration) { r.duration = d }
func (r *SyncRun) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *SyncRun) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *SyncRun) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *SyncRun) SetStartedAt(t time.Time) { r.startedAt = t }

// Restore rebuilds a run from persisted columns.
func (r *SyncRun) Restore(id string, sequence int, profile, remote, localPath, mode string, status RunStatus, exitCode int, dryRun bool, bytes, files int64, startedAt time.Time, duration time.Duration, createdAt, updatedAt time.Time, deletedAt *time.Time) {
	r.id = id
	r.sequence = sequence
	r.profile = profile
	r.remote = remote
	r.localPath = localPath
	r.mode = mode
	r.status = status
	r.exitCode = exitCode
	r.dryRun = dryRun
	r.bytesTransferred = bytes
	r.filesTransferred = files
	r.startedAt = startedAt
	r.duration = duration
	r.createdAt = createdAt
	r.updatedAt = updatedAt
	r.deletedAt = deletedAt
}

// Validate checks that required fields are set and the status is known.
func (r *SyncRun) Validate() error {
	if r.id == "" {
		return fmt.Errorf("sync run ID is required")
	}
	if r.remote == "" {
		return fmt.Errorf("sync run remote is required")
	}
	if r.localPath == "" {
		return fmt.Errorf("sync run local path is required")
	}
	if r.mode == "" {
		return fmt.Errorf("sync run mode is required")
	}
	switch r.status {
	case RunSuccess, RunFailed, RunStopped, RunTimeout, RunNeedsResync, "":
	default:
		return fmt.Errorf("unknown run status %q", r.status)
	}
	return nil
}

var _ Model = (*SyncRun)(nil)
