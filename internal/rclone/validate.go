package rclone

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// Remote names start with an alphanumeric, carry a colon, and may include a
// path suffix ("gdrive:" or "gdrive:/folder"). Everything else is rejected
// before it can reach a shell-adjacent boundary.
var remotePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*:[/a-zA-Z0-9_.-]*$`)

// ValidateRemote checks the remote identifier format.
func ValidateRemote(remote string) error {
	if remote == "" {
		return fmt.Errorf("%w: remote is required", shared.ErrMissingArgument)
	}
	if !remotePattern.MatchString(remote) {
		return fmt.Errorf("%w: %q (expected e.g. gdrive: or gdrive:/folder)", shared.ErrInvalidRemote, remote)
	}
	return nil
}

// safeBases returns the directory roots sync folders may live under.
func safeBases() []string {
	bases := []string{"/mnt", "/media", "/tmp/linuxcloudsync"}
	if home, err := os.UserHomeDir(); err == nil {
		bases = append([]string{home}, bases...)
	}
	return bases
}

// ValidateLocalPath checks that path exists, is a directory, and lives under
// an allowed root. Returns the absolute path on success.
func ValidateLocalPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: local folder is required", shared.ErrMissingArgument)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: path does not exist: %s", shared.ErrInvalidInput, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", shared.ErrInvalidInput, abs)
	}

	for _, base := range safeBases() {
		if abs == base || strings.HasPrefix(abs, base+string(filepath.Separator)) {
			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: %s (must be within home, /mnt, or /media)", shared.ErrUnsafePath, abs)
}
