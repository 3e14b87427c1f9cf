package rclone

import (
	"fmt"
	"strings"

	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// Mode selects the direction of a sync run.
type Mode int

const (
	ModeBisync Mode = iota // bidirectional via rclone bisync
	ModePull               // cloud to local via rclone copy
	ModePush               // local to cloud via rclone copy
)

func (m Mode) String() string {
	switch m {
	case ModeBisync:
		return "bisync"
	case ModePull:
		return "pull"
	case ModePush:
		return "push"
	default:
		return ""
	}
}

// ParseMode converts a mode name to a Mode. Accepts the short names used in
// profiles as well as the descriptive names from older profile files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bisync", "bidirectional", "bidirectional (bisync)":
		return ModeBisync, nil
	case "pull", "cloud-to-local", "cloud to local (copy)":
		return ModePull, nil
	case "push", "local-to-cloud", "local to cloud (copy)":
		return ModePush, nil
	default:
		return 0, fmt.Errorf("%w: unknown sync mode %q", shared.ErrInvalidInput, s)
	}
}

// bisyncUnsupported lists flags rclone bisync rejects; they are stripped from
// extra flags with a warning rather than failing the run.
var bisyncUnsupported = map[string]bool{
	"--compare":             true,
	"--slow-hash-sync-only": true,
}

// Request describes one rclone sync invocation.
type Request struct {
	Remote          string
	LocalPath       string
	Mode            Mode
	Workdir         string // bisync baseline/lock directory
	BandwidthLimit  string
	DryRun          bool
	ExcludePatterns []string
	ExtraFlags      []string
	Resync          bool // rebuild the bisync baseline
}

// Args builds the rclone argument list for the request, and reports any extra
// flags that were dropped because the mode does not support them.
func (r Request) Args() (args []string, dropped []string) {
	switch r.Mode {
	case ModeBisync:
		args = []string{"bisync", r.Remote, r.LocalPath, "--workdir", r.Workdir}
		if r.Resync {
			args = append(args, "--resync")
		}
		args = append(args, "--create-empty-src-dirs", "--resilient", "-v")
	case ModePull:
		args = []string{"copy", r.Remote, r.LocalPath, "-v"}
	case ModePush:
		args = []string{"copy", r.LocalPath, r.Remote, "-v"}
	}

	if r.BandwidthLimit != "" {
		args = append(args, "--bwlimit", r.BandwidthLimit)
	}

	if r.DryRun {
		args = append(args, "--dry-run")
	}

	for _, pattern := range r.ExcludePatterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		args = append(args, "--exclude", pattern)
	}

	for _, flag := range r.ExtraFlags {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}
		if r.Mode == ModeBisync && bisyncUnsupported[flag] {
			dropped = append(dropped, flag)
			continue
		}
		args = append(args, flag)
	}

	return args, dropped
}

// DefaultExcludes returns the exclude patterns applied when a run specifies
// none of its own.
func DefaultExcludes() []string {
	return []string{"*.tmp", "*.log", ".git/", "node_modules/"}
}

// MergeExcludes combines pattern lists, dropping blanks, comments, and
// duplicates while preserving order.
func MergeExcludes(lists ...[]string) []string {
	seen := map[string]bool{}
	var merged []string
	for _, list := range lists {
		for _, pattern := range list {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" || strings.HasPrefix(pattern, "#") || seen[pattern] {
				continue
			}
			seen[pattern] = true
			merged = append(merged, pattern)
		}
	}
	return merged
}
