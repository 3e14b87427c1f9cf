package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/tasks"
)

// maxLogLines bounds the engine output tail kept on screen.
const maxLogLines = 8

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProfileListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	store        *profiles.Store
	engine       tasks.Engine
	width        int
	height       int
	profileList  list.Model
	selectedName string
	selected     profiles.Profile
	resync       bool
	progressChan chan tasks.ProgressUpdate
	doneChan     chan syncCompleteMsg
	progress     tasks.ProgressUpdate
	stats        rclone.TransferStats
	logLines     []string
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

type profilesLoadedMsg struct {
	items []profileItem
	err   error
}

type progressUpdateMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.RunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store *profiles.Store, engine tasks.Engine) *Model {
	return &Model{
		ctx:    ctx,
		view:   ProfileListView,
		store:  store,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading saved profiles.
func (m *Model) Init() tea.Cmd {
	return m.loadProfiles()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.profileList.Width() == 0 {
			m.profileList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProfileListView:
			return m.handleProfileListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case profilesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = item
		}
		m.profileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.profileList.Title = "Sync Profiles"
		m.profileList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		if stats, ok := m.progress.Data.(rclone.TransferStats); ok {
			m.stats = stats
		}
		if m.progress.Phase == tasks.Stream && m.progress.Message != "" {
			m.logLines = append(m.logLines, m.progress.Message)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
		}
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ProfileListView:
		return m.renderProfileList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleProfileListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.profileList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(profileItem); ok {
				m.selectedName = item.name
				m.selected = item.profile
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.profileList, cmd = m.profileList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ProfileListView
		return m, nil
	case "y", "enter":
		m.view = SyncView
		return m, m.startSync(false)
	}
	return m, nil
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "q", "ctrl+c":
		// The run keeps streaming until the engine confirms termination,
		// so the record always lands in history.
		_ = m.engine.Stop()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.result != nil && m.result.Status == models.RunNeedsResync {
			m.resetRun()
			m.view = SyncView
			return m, m.startSync(true)
		}
		m.resetRun()
		m.view = ProfileListView
		return m, nil
	}
	return m, nil
}

func (m *Model) resetRun() {
	m.result = nil
	m.err = nil
	m.stats = rclone.TransferStats{}
	m.logLines = nil
	m.progress = tasks.ProgressUpdate{}
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ProfileListView {
		m.profileList, cmd = m.profileList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadProfiles() tea.Cmd {
	return func() tea.Msg {
		all, err := m.store.Load()
		if err != nil {
			return profilesLoadedMsg{err: err}
		}
		names, err := m.store.Names()
		if err != nil {
			return profilesLoadedMsg{err: err}
		}

		items := make([]profileItem, len(names))
		for i, name := range names {
			items[i] = profileItem{name: name, profile: all[name]}
		}
		return profilesLoadedMsg{items: items}
	}
}

func (m *Model) startSync(resync bool) tea.Cmd {
	mode, err := rclone.ParseMode(m.selected.Mode)
	if err != nil {
		m.err = err
		return nil
	}

	m.resync = resync
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan syncCompleteMsg, 1)
	progress, done := m.progressChan, m.doneChan

	spec := tasks.RunSpec{
		Profile:         m.selectedName,
		Remote:          m.selected.Remote,
		LocalPath:       m.selected.LocalPath,
		Mode:            mode,
		BandwidthLimit:  m.selected.BandwidthLimit,
		DryRun:          m.selected.DryRun,
		ExcludePatterns: rclone.MergeExcludes(rclone.DefaultExcludes(), m.selected.ExcludePatterns),
		ExtraFlags:      m.selected.ExtraFlags,
	}

	// The model is only touched from the update loop; the goroutine hands the
	// outcome over as a message once all progress updates are drained.
	go func() {
		var result *tasks.RunResult
		var runErr error
		if resync {
			result, runErr = m.engine.Resync(m.ctx, spec, progress)
		} else {
			result, runErr = m.engine.Run(m.ctx, spec, progress)
		}
		close(progress)
		done <- syncCompleteMsg{result: result, err: runErr}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderProfileList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.profileList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Run profile '%s'?", m.selectedName))
	info := fmt.Sprintf(
		"\nRemote: %s\nLocal: %s\nMode: %s\n",
		m.selected.Remote, m.selected.LocalPath, m.selected.Mode,
	)
	if m.selected.DryRun {
		info += styles.warn.Render("Dry run: no changes will be made") + "\n"
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	heading := "Syncing"
	if m.resync {
		heading = "Rebuilding Baseline"
	}
	title := styles.title.Render(heading)

	var status string
	switch m.progress.Phase {
	case tasks.Validate:
		status = "Validating..."
	case tasks.CheckEngine:
		status = m.progress.Message
	case tasks.ClearLocks:
		status = m.progress.Message
	case tasks.Launch:
		status = m.progress.Message
	case tasks.Stream:
		if m.stats.Percent > 0 {
			status = fmt.Sprintf("Transferring: %d%%", m.stats.Percent)
			if m.stats.Speed != "" {
				status = fmt.Sprintf("%s at %s (ETA %s)", status, m.stats.Speed, m.stats.ETA)
			}
		} else {
			status = "Running..."
		}
	default:
		status = "Working..."
	}

	tail := strings.Join(m.logLines, "\n")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.stop, m.keys.quit})

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", title, status, styles.help.Render(tail), helpView)
}

func (m *Model) renderResult() string {
	if m.result == nil && m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to go back, q to quit", m.err))
	}
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	var title, hint string
	switch m.result.Status {
	case models.RunSuccess:
		title = styles.ok.Render("✓ Sync Complete")
		hint = "Press r to run another profile, q to quit"
	case models.RunNeedsResync:
		title = styles.warn.Render("⚠ Baseline Missing")
		hint = "Press r to rebuild the baseline (resync), q to quit"
	case models.RunStopped:
		title = styles.warn.Render("Sync Stopped")
		hint = "Press r to go back, q to quit"
	case models.RunTimeout:
		title = styles.err.Render("✗ Sync Timed Out")
		hint = "Press r to go back, q to quit"
	default:
		title = styles.err.Render("✗ Sync Failed")
		hint = "Press r to go back, q to quit"
	}

	info := fmt.Sprintf(
		"\nStatus: %s\nExit code: %d\nDuration: %s",
		m.result.Status, m.result.ExitCode, m.result.Duration.Round(time.Second),
	)
	if m.result.Stats.FilesTotal > 0 {
		info += fmt.Sprintf("\nFiles: %d/%d", m.result.Stats.FilesDone, m.result.Stats.FilesTotal)
	}
	if m.err != nil && m.result.Status != models.RunSuccess {
		info += fmt.Sprintf("\n\n%s", styles.warn.Render(m.err.Error()))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, styles.help.Render(hint))
}
