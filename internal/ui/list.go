package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/cryptd777/linuxcloudsync/internal/profiles"
)

var _ list.Item = profileItem{}

// profileItem wraps a named [profiles.Profile] to implement [list.Item].
type profileItem struct {
	name    string
	profile profiles.Profile
}

func (i profileItem) FilterValue() string { return i.name }
func (i profileItem) Title() string       { return i.name }
func (i profileItem) Description() string {
	desc := fmt.Sprintf("%s ⇄ %s", i.profile.Remote, i.profile.LocalPath)
	if i.profile.Mode != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.profile.Mode)
	}
	if i.profile.DryRun {
		desc = fmt.Sprintf("%s • dry run", desc)
	}
	return desc
}
