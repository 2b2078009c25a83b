package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/beamctl/internal/config"
	"github.com/muurk/beamctl/internal/discovery"
	"github.com/muurk/beamctl/internal/projector"
	"github.com/muurk/beamctl/internal/store"
)

// mode is the panel's active interaction mode.
type mode int

const (
	modeDevices mode = iota
	modeSettings
	modeScan
)

// actionKind classifies what a device action button does.
type actionKind int

const (
	actionPowerOn actionKind = iota
	actionPowerOff
	actionSource
	actionToggle
)

// action is one button in a device's action row.
type action struct {
	kind actionKind
	// name is the command name or source label the button drives.
	name string
	// label is the text shown on the button.
	label string
}

// deviceState pairs a projector with its last probed state.
type deviceState struct {
	proj *projector.Projector

	// storeIndex is the device's position in the persisted list. It can
	// run ahead of the panel position when unknown-vendor entries were
	// skipped at load, so store writes must go through it.
	storeIndex int

	powered bool
	source  string
	probed  bool
	busy    bool
	actions []action
}

// Messages produced by async commands.
type probeMsg struct {
	index   int
	powered bool
	source  string
}

type cmdDoneMsg struct {
	index    int
	label    string
	err      error
	fellBack bool
}

type scanDoneMsg struct {
	candidates []discovery.Candidate
	err        error
}

// Model is the control panel's top-level bubbletea model.
type Model struct {
	store    *store.Store
	registry *projector.Registry
	prefs    *config.Preferences

	devices      []*deviceState
	cursor       int
	actionCursor int

	mode       mode
	settings   settingsModel
	scanning   bool
	candidates []discovery.Candidate
	candCursor int

	spinner   spinner.Model
	help      help.Model
	status    string
	statusErr bool

	deviceKeys   deviceKeyMap
	settingsKeys settingsKeyMap
	scanKeys     scanKeyMap

	width  int
	height int
}

// New builds the panel from the device list. Entries with an
// unregistered vendor are kept visible but inert, so a hand-edited
// data.json never hides devices silently.
func New(st *store.Store, registry *projector.Registry, prefs *config.Preferences) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := Model{
		store:        st,
		registry:     registry,
		prefs:        prefs,
		spinner:      s,
		help:         help.New(),
		deviceKeys:   newDeviceKeys(),
		settingsKeys: newSettingsKeys(),
		scanKeys:     newScanKeys(),
	}

	var broken []string
	for i, record := range st.Devices() {
		proj, err := projector.New(registry, record.VendorID, record.Address)
		if err != nil {
			broken = append(broken, fmt.Sprintf("%s (%s)", record.Name, record.VendorID))
			continue
		}
		proj.SetName(record.Name)
		proj.SetCredentials(record.Username, record.Password)
		m.devices = append(m.devices, &deviceState{
			proj:       proj,
			storeIndex: i,
			actions:    buildActions(proj),
		})
	}
	if len(broken) > 0 {
		m.setError("unknown vendor for: " + strings.Join(broken, ", "))
	}
	return m
}

// buildActions derives the action row from the vendor catalog, in
// declaration order: power first, then one button per selectable
// source (direct or cycle target), then toggles and features.
func buildActions(proj *projector.Projector) []action {
	actions := []action{
		{kind: actionPowerOn, name: projector.CommandPowerOn, label: "On"},
		{kind: actionPowerOff, name: projector.CommandPowerOff, label: "Off"},
	}
	for _, spec := range proj.Profile().Catalog.Commands() {
		switch spec.Category {
		case projector.CategorySource:
			actions = append(actions, action{kind: actionSource, name: spec.Name, label: spec.Name})
		case projector.CategorySourceCycle:
			for _, target := range spec.Targets {
				actions = append(actions, action{kind: actionSource, name: target, label: target})
			}
		case projector.CategoryToggle, projector.CategoryFeature:
			actions = append(actions, action{kind: actionToggle, name: spec.Name, label: spec.Name})
		}
	}
	return actions
}

// Init starts the spinner and, when preferences ask for it, probes
// every device.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.prefs == nil || m.prefs.ProbeOnStartup {
		for i := range m.devices {
			cmds = append(cmds, probeCmd(i, m.devices[i].proj))
		}
	}
	return tea.Batch(cmds...)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case probeMsg:
		if msg.index < len(m.devices) {
			d := m.devices[msg.index]
			d.powered = msg.powered
			d.source = msg.source
			d.probed = true
		}
		return m, nil

	case cmdDoneMsg:
		return m.finishCommand(msg)

	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.setError("scan failed: " + msg.err.Error())
			return m, nil
		}
		m.candidates = filterKnown(msg.candidates, m.devices)
		m.candCursor = 0
		if len(m.candidates) == 0 {
			m.setStatus("scan complete - no new projectors found")
			m.mode = modeDevices
		} else {
			m.setStatus(fmt.Sprintf("scan complete - %d new projector(s)", len(m.candidates)))
		}
		return m, nil
	}

	switch m.mode {
	case modeSettings:
		return m.updateSettings(msg)
	case modeScan:
		return m.updateScan(msg)
	default:
		return m.updateDevices(msg)
	}
}

func (m Model) updateDevices(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc":
		return m.quit()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.actionCursor = 0
		}

	case "down", "j":
		if m.cursor < len(m.devices)-1 {
			m.cursor++
			m.actionCursor = 0
		}

	case "left", "h":
		if m.actionCursor > 0 {
			m.actionCursor--
		}

	case "right", "l":
		if d := m.selected(); d != nil && m.actionCursor < len(d.actions)-1 {
			m.actionCursor++
		}

	case "enter", " ":
		return m.runSelectedAction()

	case "r":
		m.setStatus("probing devices...")
		cmds := make([]tea.Cmd, 0, len(m.devices))
		for i := range m.devices {
			cmds = append(cmds, probeCmd(i, m.devices[i].proj))
		}
		return m, tea.Batch(cmds...)

	case "e":
		if d := m.selected(); d != nil {
			m.settings = newSettingsModel(m.registry, m.cursor, d.proj)
			m.mode = modeSettings
		}

	case "a":
		m.settings = newSettingsModel(m.registry, -1, nil)
		m.mode = modeSettings

	case "x":
		return m.removeSelected()

	case "d":
		m.mode = modeScan
		m.scanning = true
		m.candidates = nil
		m.setStatus("scanning for projectors...")
		return m, scanCmd(m.registry, m.prefs)
	}

	return m, nil
}

// runSelectedAction dispatches the highlighted action. Power state is
// updated optimistically and reverted if the command fails.
func (m Model) runSelectedAction() (tea.Model, tea.Cmd) {
	d := m.selected()
	if d == nil || d.busy || m.actionCursor >= len(d.actions) {
		return m, nil
	}
	act := d.actions[m.actionCursor]
	d.busy = true

	switch act.kind {
	case actionPowerOn:
		d.powered = true
		d.probed = true
	case actionPowerOff:
		d.powered = false
		d.source = ""
		d.probed = true
	}

	m.setStatus(fmt.Sprintf("%s: %s...", d.proj.Name(), act.label))
	return m, runActionCmd(m.cursor, d.proj, act)
}

func (m Model) finishCommand(msg cmdDoneMsg) (tea.Model, tea.Cmd) {
	if msg.index >= len(m.devices) {
		return m, nil
	}
	d := m.devices[msg.index]
	d.busy = false

	if msg.err != nil {
		m.setError(fmt.Sprintf("%s: %s", d.proj.Name(), projector.ShortMessage(msg.err)))
		// The optimistic power flip may be wrong; re-probe to resync.
		return m, probeCmd(msg.index, d.proj)
	}

	if msg.fellBack {
		m.status = WarningStatusStyle.Render(
			fmt.Sprintf("%s: %s not confirmed - advanced input blind", d.proj.Name(), msg.label))
		m.statusErr = false
	} else {
		m.setStatus(fmt.Sprintf("%s: %s done", d.proj.Name(), msg.label))
	}
	return m, probeCmd(msg.index, d.proj)
}

func (m Model) updateScan(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc":
		m.mode = modeDevices
		return m, nil

	case "up", "k":
		if m.candCursor > 0 {
			m.candCursor--
		}

	case "down", "j":
		if m.candCursor < len(m.candidates)-1 {
			m.candCursor++
		}

	case "enter":
		return m.adoptCandidate()
	}

	return m, nil
}

// adoptCandidate adds the highlighted scan hit to the device list with
// vendor-default credentials.
func (m Model) adoptCandidate() (tea.Model, tea.Cmd) {
	if m.scanning || m.candCursor >= len(m.candidates) {
		return m, nil
	}
	candidate := m.candidates[m.candCursor]

	proj, err := projector.New(m.registry, candidate.VendorID, candidate.Address)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	name := candidate.Hostname
	if name == "" {
		name = candidate.VendorID + " " + candidate.Address
	}
	proj.SetName(name)

	m.store.Add(store.Device{
		Name:     name,
		Address:  candidate.Address,
		VendorID: candidate.VendorID,
	})
	m.devices = append(m.devices, &deviceState{
		proj:       proj,
		storeIndex: len(m.store.Devices()) - 1,
		actions:    buildActions(proj),
	})
	m.candidates = append(m.candidates[:m.candCursor], m.candidates[m.candCursor+1:]...)
	if m.candCursor >= len(m.candidates) && m.candCursor > 0 {
		m.candCursor--
	}
	m.setStatus("added " + name)

	index := len(m.devices) - 1
	if len(m.candidates) == 0 {
		m.mode = modeDevices
		m.cursor = index
	}
	return m, probeCmd(index, proj)
}

func (m Model) removeSelected() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.devices) {
		return m, nil
	}
	removed := m.devices[m.cursor]
	if err := m.store.Remove(removed.storeIndex); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.devices = append(m.devices[:m.cursor], m.devices[m.cursor+1:]...)
	for _, d := range m.devices {
		if d.storeIndex > removed.storeIndex {
			d.storeIndex--
		}
	}
	if m.cursor >= len(m.devices) && m.cursor > 0 {
		m.cursor--
	}
	m.actionCursor = 0
	m.setStatus("removed " + removed.proj.Name())
	return m, nil
}

// quit persists the device list and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.store.Save(); err != nil {
		m.setError("save failed: " + err.Error())
		return m, nil
	}
	return m, tea.Quit
}

func (m *Model) selected() *deviceState {
	if m.cursor >= len(m.devices) {
		return nil
	}
	return m.devices[m.cursor]
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusErr = true
}

// probeCmd reads a device's power and source state off the UI thread.
func probeCmd(index int, proj *projector.Projector) tea.Cmd {
	return func() tea.Msg {
		powered := proj.Status()
		var source string
		if powered {
			source, _ = proj.Source()
		}
		return probeMsg{index: index, powered: powered, source: source}
	}
}

// runActionCmd dispatches one action. When a source selection exhausts
// its cycle budget, the panel deliberately falls back to one raw press
// of the advance command so a projector with a broken probe is still
// drivable.
func runActionCmd(index int, proj *projector.Projector, act action) tea.Cmd {
	return func() tea.Msg {
		var err error
		fellBack := false

		switch act.kind {
		case actionPowerOn:
			err = proj.On()
		case actionPowerOff:
			err = proj.Off()
		case actionToggle:
			err = proj.Toggle(act.name)
		case actionSource:
			err = proj.SetSource(act.name)
			if projector.IsSourceExhausted(err) {
				if cycle, ok := cycleCommandFor(proj, act.name); ok {
					if rawErr := proj.Toggle(cycle); rawErr == nil {
						err = nil
						fellBack = true
					}
				}
			}
		}

		return cmdDoneMsg{index: index, label: act.label, err: err, fellBack: fellBack}
	}
}

// cycleCommandFor finds the source-cycle command whose targets include
// the label.
func cycleCommandFor(proj *projector.Projector, label string) (string, bool) {
	want := strings.ToLower(strings.ReplaceAll(label, " ", ""))
	for _, spec := range proj.Profile().Catalog.ByCategory(projector.CategorySourceCycle) {
		for _, target := range spec.Targets {
			if strings.ToLower(strings.ReplaceAll(target, " ", "")) == want {
				return spec.Name, true
			}
		}
	}
	return "", false
}

// scanCmd runs the discovery sweep (and mDNS browse when enabled) off
// the UI thread.
func scanCmd(registry *projector.Registry, prefs *config.Preferences) tea.Cmd {
	return func() tea.Msg {
		scanner := discovery.NewScanner(registry)
		var subnets []string
		mdns := true
		if prefs != nil && prefs.Scan != nil {
			if prefs.Scan.Subnet != "" {
				subnets = []string{prefs.Scan.Subnet}
			}
			mdns = prefs.Scan.MDNS
		}

		ctx := context.Background()
		candidates := scanner.Sweep(ctx, subnets)
		if mdns {
			if found, err := scanner.Browse(ctx); err == nil {
				candidates = append(candidates, found...)
			}
		}
		return scanDoneMsg{candidates: dedupe(candidates)}
	}
}

func dedupe(candidates []discovery.Candidate) []discovery.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if seen[c.Address] {
			continue
		}
		seen[c.Address] = true
		out = append(out, c)
	}
	return out
}

// filterKnown drops candidates whose address is already in the panel.
func filterKnown(candidates []discovery.Candidate, devices []*deviceState) []discovery.Candidate {
	known := make(map[string]bool, len(devices))
	for _, d := range devices {
		known[d.proj.Address()] = true
	}
	var out []discovery.Candidate
	for _, c := range candidates {
		if !known[c.Address] {
			out = append(out, c)
		}
	}
	return out
}
