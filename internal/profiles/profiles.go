// Package profiles persists named sync parameter presets.
//
// Profiles live in a single profiles.json file, a JSON object keyed by
// profile name, matching the layout older releases shipped. The last-used
// profile name is tracked in a separate plain-text marker file so startup can
// restore it without parsing the store.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// Profile is a named set of sync parameters.
type Profile struct {
	Remote          string   `json:"remote"`
	LocalPath       string   `json:"local_path"`
	Mode            string   `json:"sync_mode"`
	BandwidthLimit  string   `json:"bandwidth,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
	ExtraFlags      []string `json:"additional_flags,omitempty"`
	DryRun          bool     `json:"dry_run,omitempty"`
	LogLevel        string   `json:"log_level,omitempty"`
}

// Validate checks the fields a run would need.
func (p Profile) Validate() error {
	if p.Remote == "" {
		return fmt.Errorf("%w: profile remote is required", shared.ErrInvalidInput)
	}
	if p.LocalPath == "" {
		return fmt.Errorf("%w: profile local path is required", shared.ErrInvalidInput)
	}
	return nil
}

// Store reads and writes the profile file and the last-used marker.
type Store struct {
	path     string
	lastPath string
}

// NewStore creates a Store over the given profiles.json and marker paths.
func NewStore(path, lastPath string) *Store {
	return &Store{path: path, lastPath: lastPath}
}

// DefaultStore creates a Store in the per-user config directory.
func DefaultStore() (*Store, error) {
	path, err := shared.ProfilesPath()
	if err != nil {
		return nil, err
	}
	lastPath, err := shared.LastProfilePath()
	if err != nil {
		return nil, err
	}
	return NewStore(path, lastPath), nil
}

// Load reads all profiles. A missing file yields an empty map.
func (s *Store) Load() (map[string]Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	profiles := map[string]Profile{}
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	return profiles, nil
}

// Get returns a single profile by name.
func (s *Store) Get(name string) (Profile, error) {
	profiles, err := s.Load()
	if err != nil {
		return Profile{}, err
	}

	profile, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", shared.ErrProfileNotFound, name)
	}
	return profile, nil
}

// Save inserts or overwrites the named profile. Names are unique keys.
func (s *Store) Save(name string, profile Profile) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: profile name is required", shared.ErrMissingArgument)
	}

	profiles, err := s.Load()
	if err != nil {
		return err
	}

	profiles[name] = profile
	return s.write(profiles)
}

// Delete removes the named profile. Deleting the last-used profile clears the
// marker.
func (s *Store) Delete(name string) error {
	profiles, err := s.Load()
	if err != nil {
		return err
	}

	if _, ok := profiles[name]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrProfileNotFound, name)
	}

	delete(profiles, name)
	if err := s.write(profiles); err != nil {
		return err
	}

	if last, _ := s.Last(); last == name {
		_ = os.Remove(s.lastPath)
	}
	return nil
}

// Names returns all profile names in sorted order.
func (s *Store) Names() ([]string, error) {
	profiles, err := s.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SetLast records name as the last-used profile.
func (s *Store) SetLast(name string) error {
	if _, err := s.Get(name); err != nil {
		return err
	}
	if err := os.WriteFile(s.lastPath, []byte(name+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write last-profile marker: %w", err)
	}
	return nil
}

// Last returns the last-used profile name, or "" when the marker is missing
// or names a profile that no longer exists.
func (s *Store) Last() (string, error) {
	data, err := os.ReadFile(s.lastPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last-profile marker: %w", err)
	}

	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", nil
	}

	profiles, err := s.Load()
	if err != nil {
		return "", err
	}
	if _, ok := profiles[name]; !ok {
		return "", nil
	}
	return name, nil
}

// write replaces the store atomically so a crash never truncates it.
func (s *Store) write(profiles map[string]Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace profiles: %w", err)
	}
	return nil
}
