package shared

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultVersion is the compiled-in fallback when no .build_version file is
// present (the build pipeline stamps one next to the binary).
const defaultVersion = "3.0.2"

// Version returns the application version.
//
// A .build_version file next to the executable (or in the working directory)
// overrides the compiled-in default.
func Version() string {
	candidates := []string{}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".build_version"))
	}
	candidates = append(candidates, ".build_version")

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			return v
		}
	}

	return defaultVersion
}
