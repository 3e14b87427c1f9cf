package shared

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger instance")
		}
	})

	t.Run("NewLogger writes to provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "logs", "lcsync.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("file entry")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "file entry") {
			t.Errorf("expected log file to contain message, got %q", string(data))
		}
	})

	t.Run("SetLogLevel filters output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if strings.Contains(buf.String(), "hidden") {
			t.Error("info entries should be filtered at error level")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(a))
	}
}

func TestPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	t.Run("ConfigDir honors XDG_CONFIG_HOME", func(t *testing.T) {
		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("failed to resolve config dir: %v", err)
		}
		if dir != filepath.Join(tmp, "linuxcloudsync") {
			t.Errorf("unexpected config dir %s", dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("config dir should exist: %v", err)
		}
		if info.Mode().Perm() != 0o700 {
			t.Errorf("expected 0700 permissions, got %o", info.Mode().Perm())
		}
	})

	t.Run("subpaths live under the config dir", func(t *testing.T) {
		dir, _ := ConfigDir()

		rcloneConf, err := RcloneConfigPath()
		if err != nil {
			t.Fatalf("failed to resolve rclone config path: %v", err)
		}
		if rcloneConf != filepath.Join(dir, "rclone.conf") {
			t.Errorf("unexpected rclone config path %s", rcloneConf)
		}

		workdir, err := BisyncWorkdir()
		if err != nil {
			t.Fatalf("failed to resolve bisync workdir: %v", err)
		}
		if _, err := os.Stat(workdir); err != nil {
			t.Errorf("bisync workdir should exist: %v", err)
		}

		logs, err := LogsDir()
		if err != nil {
			t.Fatalf("failed to resolve logs dir: %v", err)
		}
		if _, err := os.Stat(logs); err != nil {
			t.Errorf("logs dir should exist: %v", err)
		}
	})
}

func TestMigrations(t *testing.T) {
	newDB := func(t *testing.T) *sql.DB {
		t.Helper()
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	}

	t.Run("RunMigrations creates sync_runs", func(t *testing.T) {
		db := newDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='sync_runs'").Scan(&name)
		if err != nil {
			t.Fatalf("sync_runs table should exist: %v", err)
		}

		var seq int
		if err := db.QueryRow("SELECT value FROM sync_runs_sequence WHERE id = 1").Scan(&seq); err != nil {
			t.Fatalf("sequence row should exist: %v", err)
		}
		if seq != 0 {
			t.Errorf("expected initial sequence 0, got %d", seq)
		}
	})

	t.Run("RunMigrations is idempotent", func(t *testing.T) {
		db := newDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}
	})

	t.Run("RollbackMigration drops tables", func(t *testing.T) {
		db := newDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback: %v", err)
		}

		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='sync_runs'").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query sqlite_master: %v", err)
		}
		if count != 0 {
			t.Error("sync_runs should be dropped after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("rollback with no applied migrations should fail")
		}
	})
}

func TestVersion(t *testing.T) {
	t.Run("falls back to compiled default", func(t *testing.T) {
		tmp := t.TempDir()
		t.Chdir(tmp)

		if v := Version(); v != defaultVersion {
			t.Errorf("expected %s, got %s", defaultVersion, v)
		}
	})

	t.Run("reads .build_version from working directory", func(t *testing.T) {
		tmp := t.TempDir()
		t.Chdir(tmp)

		if err := os.WriteFile(".build_version", []byte("9.9.9\n"), 0644); err != nil {
			t.Fatalf("failed to write version file: %v", err)
		}

		if v := Version(); v != "9.9.9" {
			t.Errorf("expected 9.9.9, got %s", v)
		}
	})
}
