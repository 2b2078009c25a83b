package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/beamctl/internal/projector"
	"github.com/muurk/beamctl/internal/store"
)

// Settings form field indices.
const (
	fieldName = iota
	fieldAddress
	fieldVendor
	fieldUsername
	fieldPassword
	fieldCount
)

// settingsModel is the inline device editor: name, address, vendor,
// and credential overrides. Vendor is a cycled choice rather than free
// text so an unregistered vendor can never be saved.
type settingsModel struct {
	registry *projector.Registry

	// index is the device being edited, or -1 when adding a new one.
	index int

	inputs    []textinput.Model
	vendorIDs []string
	vendorIdx int
	focus     int
}

func newSettingsModel(registry *projector.Registry, index int, proj *projector.Projector) settingsModel {
	name := textinput.New()
	name.Placeholder = "Lecture Hall"
	name.CharLimit = 64
	name.Focus()

	address := textinput.New()
	address.Placeholder = "192.168.0.28"
	address.CharLimit = 64

	username := textinput.New()
	username.Placeholder = "(vendor default)"
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "(vendor default)"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword

	s := settingsModel{
		registry:  registry,
		index:     index,
		inputs:    []textinput.Model{name, address, username, password},
		vendorIDs: registry.IDs(),
	}

	if proj != nil {
		s.inputs[0].SetValue(proj.Name())
		s.inputs[1].SetValue(proj.Address())
		user, pass := proj.Overrides()
		s.inputs[2].SetValue(user)
		s.inputs[3].SetValue(pass)
		for i, id := range s.vendorIDs {
			if id == proj.VendorID() {
				s.vendorIdx = i
			}
		}
	}

	return s
}

// inputIndex maps a form field to its textinput slot; the vendor field
// has none.
func inputIndex(field int) int {
	switch field {
	case fieldName:
		return 0
	case fieldAddress:
		return 1
	case fieldUsername:
		return 2
	case fieldPassword:
		return 3
	default:
		return -1
	}
}

func (m Model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.mode = modeDevices
		return m, nil

	case "tab", "down":
		m.settings.moveFocus(1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.settings.moveFocus(-1)
		return m, textinput.Blink

	case "left", "right":
		if m.settings.focus == fieldVendor {
			delta := 1
			if keyMsg.String() == "left" {
				delta = -1
			}
			n := len(m.settings.vendorIDs)
			m.settings.vendorIdx = (m.settings.vendorIdx + delta + n) % n
			return m, nil
		}

	case "enter":
		return m.saveSettings()
	}

	if i := inputIndex(m.settings.focus); i >= 0 {
		var cmd tea.Cmd
		m.settings.inputs[i], cmd = m.settings.inputs[i].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (s *settingsModel) moveFocus(delta int) {
	if i := inputIndex(s.focus); i >= 0 {
		s.inputs[i].Blur()
	}
	s.focus = (s.focus + delta + fieldCount) % fieldCount
	if i := inputIndex(s.focus); i >= 0 {
		s.inputs[i].Focus()
	}
}

// saveSettings validates the form and applies it to the device list
// and the live projector.
func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	form := &m.settings
	record := store.Device{
		Name:     strings.TrimSpace(form.inputs[0].Value()),
		Address:  strings.TrimSpace(form.inputs[1].Value()),
		VendorID: form.vendorIDs[form.vendorIdx],
		Username: form.inputs[2].Value(),
		Password: form.inputs[3].Value(),
	}
	if record.Address == "" {
		m.setError("address is required")
		return m, nil
	}
	if record.Name == "" {
		record.Name = record.VendorID + " " + record.Address
	}

	if form.index >= 0 {
		d := m.devices[form.index]
		if err := d.proj.SetVendor(record.VendorID); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		d.proj.SetName(record.Name)
		d.proj.SetAddress(record.Address)
		d.proj.SetCredentials(record.Username, record.Password)
		d.actions = buildActions(d.proj)
		d.probed = false
		if err := m.store.Update(d.storeIndex, record); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.mode = modeDevices
		m.actionCursor = 0
		m.setStatus("updated " + record.Name)
		return m, probeCmd(form.index, d.proj)
	}

	proj, err := projector.New(m.registry, record.VendorID, record.Address)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	proj.SetName(record.Name)
	proj.SetCredentials(record.Username, record.Password)
	m.store.Add(record)
	m.devices = append(m.devices, &deviceState{
		proj:       proj,
		storeIndex: len(m.store.Devices()) - 1,
		actions:    buildActions(proj),
	})
	m.mode = modeDevices
	m.cursor = len(m.devices) - 1
	m.actionCursor = 0
	m.setStatus("added " + record.Name)
	return m, probeCmd(m.cursor, proj)
}

func (s settingsModel) view() string {
	var b strings.Builder
	title := "Edit projector"
	if s.index < 0 {
		title = "Add projector"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	writeField := func(field int, label, value string) {
		style := FormLabelStyle
		if s.focus == field {
			style = FocusedLabelStyle
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", style.Render(label), value))
	}

	writeField(fieldName, "Name", s.inputs[0].View())
	writeField(fieldAddress, "Address", s.inputs[1].View())

	vendor := s.vendorIDs[s.vendorIdx]
	if s.focus == fieldVendor {
		vendor = "< " + vendor + " >"
	}
	writeField(fieldVendor, "Vendor", vendor)

	writeField(fieldUsername, "Username", s.inputs[2].View())
	writeField(fieldPassword, "Password", s.inputs[3].View())

	return b.String()
}
