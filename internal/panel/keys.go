package panel

import "github.com/charmbracelet/bubbles/key"

// deviceKeyMap defines key bindings for the device list.
type deviceKeyMap struct {
	Device   key.Binding
	Action   key.Binding
	Run      key.Binding
	Refresh  key.Binding
	Edit     key.Binding
	Add      key.Binding
	Remove   key.Binding
	Discover key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k deviceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Device, k.Action, k.Run, k.Refresh, k.Edit, k.Add, k.Remove, k.Discover, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k deviceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Device, k.Action, k.Run},
		{k.Refresh, k.Edit, k.Add, k.Remove, k.Discover, k.Quit},
	}
}

// settingsKeyMap defines key bindings for the settings form.
type settingsKeyMap struct {
	Move   key.Binding
	Vendor key.Binding
	Save   key.Binding
	Cancel key.Binding
}

func (k settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Vendor, k.Save, k.Cancel}
}

func (k settingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Move, k.Vendor, k.Save, k.Cancel}}
}

// scanKeyMap defines key bindings for the discovery view.
type scanKeyMap struct {
	Select key.Binding
	Adopt  key.Binding
	Back   key.Binding
}

func (k scanKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Adopt, k.Back}
}

func (k scanKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Select, k.Adopt, k.Back}}
}

func newDeviceKeys() deviceKeyMap {
	return deviceKeyMap{
		Device: key.NewBinding(
			key.WithKeys("up", "down", "k", "j"),
			key.WithHelp("↑/↓", "device"),
		),
		Action: key.NewBinding(
			key.WithKeys("left", "right", "h", "l"),
			key.WithHelp("←/→", "action"),
		),
		Run: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "run"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Discover: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "discover"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newSettingsKeys() settingsKeyMap {
	return settingsKeyMap{
		Move: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "up", "down"),
			key.WithHelp("tab", "next field"),
		),
		Vendor: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "vendor"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func newScanKeys() scanKeyMap {
	return scanKeyMap{
		Select: key.NewBinding(
			key.WithKeys("up", "down", "k", "j"),
			key.WithHelp("↑/↓", "select"),
		),
		Adopt: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "back"),
		),
	}
}
