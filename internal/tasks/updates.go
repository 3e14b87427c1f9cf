package tasks

import (
	"fmt"

	"github.com/cryptd777/linuxcloudsync/internal/rclone"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	CheckEngine
	ClearLocks
	Launch
	Stream
	Record
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case CheckEngine:
		return "check_engine"
	case ClearLocks:
		return "clear_locks"
	case Launch:
		return "launch"
	case Stream:
		return "stream"
	case Record:
		return "record"
	default:
		return ""
	}
}

func validateUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    step,
		Total:   total,
		Message: "Validating remote and local path...",
	}
}

func engineCheckUpdate(step, total int, version string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckEngine,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Using %s", version),
	}
}

func clearLocksUpdate(step, total, removed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClearLocks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Removed %d stale lock file(s)", removed),
	}
}

func launchUpdate(step, total int, mode string, resync bool) ProgressUpdate {
	message := fmt.Sprintf("Starting %s...", mode)
	if resync {
		message = fmt.Sprintf("Starting %s (baseline rebuild)...", mode)
	}
	return ProgressUpdate{
		Phase:   Launch,
		Step:    step,
		Total:   total,
		Message: message,
	}
}

func droppedFlagsUpdate(step, total int, dropped []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Launch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Dropped flags unsupported by bisync: %v", dropped),
		Data:    dropped,
	}
}

func outputUpdate(line string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Stream,
		Message: line,
	}
}

func statsUpdate(line string, stats rclone.TransferStats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Stream,
		Step:    stats.Percent,
		Total:   100,
		Message: line,
		Data:    stats,
	}
}

func recordUpdate(step, total int, status string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Run finished: %s", status),
	}
}
