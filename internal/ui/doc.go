// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for cloud sync:
//  1. [ProfileListView] : Browse and select saved sync profiles
//  2. [ConfirmView] : Review the profile before running
//  3. [SyncView] : Monitor live engine output and transfer progress
//  4. [ResultView] : Display the outcome, with one-key resync recovery
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the sync engine, providing
// non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
