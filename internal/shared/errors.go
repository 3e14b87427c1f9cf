package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Engine errors
	ErrEngineNotFound  = fmt.Errorf("rclone binary not found")
	ErrEngineFailed    = fmt.Errorf("rclone command failed")
	ErrBaselineMissing = fmt.Errorf("bisync baseline missing, resync required")
	ErrSyncTimeout     = fmt.Errorf("sync timed out")
	ErrSyncStopped     = fmt.Errorf("sync stopped")
	ErrRemoteNotFound  = fmt.Errorf("remote not configured")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// Profile errors
	ErrProfileNotFound = fmt.Errorf("profile not found")

	// Input validation errors
	ErrInvalidRemote   = fmt.Errorf("invalid remote name")
	ErrUnsafePath      = fmt.Errorf("path outside allowed directories")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
