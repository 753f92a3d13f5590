package ui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/config"
	"github.com/natter-io/natter/internal/ui/components"
)

// ProfileView lists the configured server profiles and switches between
// them. Profiles can be added and removed here; changes are written back
// to the config file when one exists.
type ProfileView struct {
	ui    *UIManager
	table *tview.Table
}

// NewProfileView creates a new profile view.
func NewProfileView(ui *UIManager) *ProfileView {
	view := &ProfileView{
		ui: ui,
	}

	view.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	view.table.SetBorder(true).
		SetTitle(" Select Profile ").
		SetTitleAlign(tview.AlignCenter)

	view.setupKeybindings()
	view.Refresh()

	return view
}

func (v *ProfileView) setupKeybindings() {
	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			v.onEnter()
			return nil
		case tcell.KeyEsc:
			v.ui.ShowChannelList()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				v.ui.app.Stop()
				return nil
			case 'a':
				v.addProfile()
				return nil
			case 'x':
				v.removeProfile()
				return nil
			case 'r':
				v.Refresh()
				return nil
			}
		}
		return event
	})
}

// Refresh updates the profile list.
func (v *ProfileView) Refresh() {
	v.table.Clear()

	headers := []string{"NAME", "SERVER", "USER"}
	for i, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1)
		v.table.SetCell(0, i, cell)
	}

	current := v.ui.config.CurrentProfileName()
	for i, profile := range v.ui.config.Profiles {
		row := i + 1

		name := profile.Name
		if profile.Name == current {
			name = "> " + name
		} else {
			name = "  " + name
		}

		v.table.SetCell(row, 0, tview.NewTableCell(name).SetExpansion(1))
		v.table.SetCell(row, 1, tview.NewTableCell(profile.Server).SetExpansion(2))
		v.table.SetCell(row, 2, tview.NewTableCell(profile.Username).SetExpansion(1))
	}

	v.ui.footer.Update("↑/↓: Navigate  Enter: Connect  a: Add  x: Remove  q: Quit  ?: Help")
}

func (v *ProfileView) onEnter() {
	row, _ := v.table.GetSelection()
	if row > 0 && row <= len(v.ui.config.Profiles) {
		profile := v.ui.config.Profiles[row-1]

		if err := v.ui.SwitchProfile(profile.Name); err != nil {
			v.ui.ShowError(fmt.Sprintf("Failed to switch profile: %v", err))
			return
		}

		v.ui.ShowChannelList()
	}
}

// addProfile collects a new profile through a small form modal.
func (v *ProfileView) addProfile() {
	var name, server, username string
	server = "nats://localhost:4222"

	form := tview.NewForm()
	form.AddInputField("Name", "", 30, nil, func(text string) {
		name = text
	})
	form.AddInputField("Server", server, 30, nil, func(text string) {
		server = text
	})
	form.AddInputField("Username", "", 30, nil, func(text string) {
		username = text
	})
	form.AddButton("[ Add ]", func() {
		if name == "" || server == "" {
			v.ui.ShowError("Name and server are required")
			return
		}
		if err := v.ui.config.AddProfile(name, server, username); err != nil {
			v.ui.ShowError(fmt.Sprintf("Failed to add profile: %v", err))
			return
		}
		v.saveConfig()
		v.ui.CloseModal()
		v.Refresh()
		v.ui.app.SetFocus(v.table)
	})
	form.AddButton("[ Cancel ]", func() {
		v.ui.CloseModal()
		v.ui.app.SetFocus(v.table)
	})
	form.SetBorder(true).
		SetTitle(" Add Profile ").
		SetTitleAlign(tview.AlignCenter)

	v.ui.ShowModal(components.Center(form, 50, 11))
	v.ui.app.SetFocus(form)
}

func (v *ProfileView) removeProfile() {
	row, _ := v.table.GetSelection()
	if row <= 0 || row > len(v.ui.config.Profiles) {
		return
	}
	profile := v.ui.config.Profiles[row-1]

	if profile.Name == v.ui.config.CurrentProfileName() {
		v.ui.ShowError("Cannot remove the active profile")
		return
	}

	modal := components.ConfirmModal(
		v.ui.theme,
		fmt.Sprintf("Remove profile '%s'?", profile.Name),
		func() {
			v.ui.CloseModal()
			if err := v.ui.config.RemoveProfile(profile.Name); err != nil {
				v.ui.ShowError(fmt.Sprintf("Failed to remove profile: %v", err))
				return
			}
			v.saveConfig()
			v.Refresh()
		},
		func() {
			v.ui.CloseModal()
		},
	)
	v.ui.ShowModal(modal)
}

// saveConfig persists profile changes when the config came from a file.
// NATS-context and CLI-sourced configs stay in memory only.
func (v *ProfileView) saveConfig() {
	if v.ui.config.GetConfigSource() != config.SourceConfigFile {
		dir, err := config.Dir()
		if err != nil {
			return
		}
		if err := v.ui.config.Save(filepath.Join(dir, "config.yaml")); err != nil {
			v.ui.log.Warn("saving config failed", "error", err)
		}
		return
	}
	if err := v.ui.config.Save(v.ui.config.GetConfigSourcePath()); err != nil {
		v.ui.log.Warn("saving config failed", "error", err)
	}
}

// GetPrimitive returns the primitive for this view.
func (v *ProfileView) GetPrimitive() tview.Primitive {
	return v.table
}
