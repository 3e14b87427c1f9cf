package ui

import (
	"context"
	"testing"
	"time"

	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/tasks"
	tu "github.com/cryptd777/linuxcloudsync/internal/testing"
)

// drainSync pumps the progress command chain until the sync finishes, the way
// the bubbletea runtime would.
func drainSync(t *testing.T, m *Model) syncCompleteMsg {
	t.Helper()

	cmd := m.startSync(false)
	if cmd == nil {
		t.Fatalf("expected a progress command, got nil (err: %v)", m.err)
	}

	for i := 0; i < 1000; i++ {
		switch msg := cmd().(type) {
		case syncCompleteMsg:
			return msg
		case progressUpdateMsg:
			_, next := m.Update(msg)
			cmd = next
		default:
			t.Fatalf("unexpected message %T", msg)
		}
	}
	t.Fatal("sync never completed")
	return syncCompleteMsg{}
}

func TestStartSync(t *testing.T) {
	t.Run("result arrives via the completion message", func(t *testing.T) {
		engine := &tu.MockEngine{
			Result: &tasks.RunResult{Status: models.RunSuccess, Duration: time.Second},
			Updates: []tasks.ProgressUpdate{
				{Phase: tasks.Stream, Message: "Transferred: 1 / 1, 100%"},
			},
		}
		m := NewModel(context.Background(), nil, engine)
		m.selectedName = "work"
		m.selected = profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"}

		complete := drainSync(t, m)
		if complete.result == nil || complete.result.Status != models.RunSuccess {
			t.Fatalf("unexpected result %+v", complete.result)
		}

		model, _ := m.Update(complete)
		updated := model.(*Model)
		if updated.view != ResultView {
			t.Errorf("expected result view, got %d", updated.view)
		}
		if updated.result == nil || updated.result.Status != models.RunSuccess {
			t.Errorf("expected result on the model, got %+v", updated.result)
		}
	})

	t.Run("profile runs carry the default excludes", func(t *testing.T) {
		engine := &tu.MockEngine{
			Result: &tasks.RunResult{Status: models.RunSuccess},
		}
		m := NewModel(context.Background(), nil, engine)
		m.selectedName = "work"
		m.selected = profiles.Profile{
			Remote:          "gdrive:",
			LocalPath:       "/home/user",
			Mode:            "bisync",
			ExcludePatterns: []string{"secrets/"},
		}

		drainSync(t, m)

		if len(engine.Specs) != 1 {
			t.Fatalf("expected 1 engine invocation, got %d", len(engine.Specs))
		}
		got := map[string]bool{}
		for _, pattern := range engine.Specs[0].ExcludePatterns {
			got[pattern] = true
		}
		for _, want := range append(rclone.DefaultExcludes(), "secrets/") {
			if !got[want] {
				t.Errorf("expected exclude %q, got %v", want, engine.Specs[0].ExcludePatterns)
			}
		}
	})

	t.Run("invalid mode fails before launching", func(t *testing.T) {
		engine := &tu.MockEngine{}
		m := NewModel(context.Background(), nil, engine)
		m.selected = profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "sideways"}

		if cmd := m.startSync(false); cmd != nil {
			t.Error("expected no command for an invalid mode")
		}
		if m.err == nil {
			t.Error("expected a mode error on the model")
		}
		if len(engine.Specs) != 0 {
			t.Error("engine must not be invoked")
		}
	})
}
