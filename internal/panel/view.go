package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the active mode inside the shared application frame.
func (m Model) View() string {
	var content, help string

	switch m.mode {
	case modeSettings:
		content = m.settings.view()
		help = m.help.View(m.settingsKeys)
	case modeScan:
		content = m.scanView()
		help = m.help.View(m.scanKeys)
	default:
		content = m.devicesView()
		help = m.help.View(m.deviceKeys)
	}

	if m.status != "" {
		style := StatusStyle
		if m.statusErr {
			style = ErrorStatusStyle
		}
		content += "\n" + style.Render(m.status)
	}

	return RenderContainer(content, help, m.width, m.height)
}

func (m Model) devicesView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Projectors"))
	b.WriteString("\n\n")

	if len(m.devices) == 0 {
		b.WriteString("  No projectors configured.\n")
		b.WriteString("  Press d to scan the network, or a to add one manually.\n")
		return b.String()
	}

	for i, d := range m.devices {
		line := fmt.Sprintf("%s  %s  %s", d.proj.Name(), d.proj.Address(), m.stateLabel(d))
		if i == m.cursor {
			b.WriteString(SelectedDeviceStyle.Render("→ " + line))
		} else {
			b.WriteString(DeviceStyle.Render(line))
		}
		b.WriteString("\n")

		if i == m.cursor {
			b.WriteString("\n")
			b.WriteString(m.actionsView(d))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) stateLabel(d *deviceState) string {
	if d.busy {
		return m.spinner.View()
	}
	if !d.probed {
		return StandbyStyle.Render("unknown")
	}
	if !d.powered {
		return StandbyStyle.Render("standby")
	}
	if d.source != "" {
		return PoweredStyle.Render("on - " + d.source)
	}
	return PoweredStyle.Render("on")
}

func (m Model) actionsView(d *deviceState) string {
	buttons := make([]string, 0, len(d.actions))
	for i, act := range d.actions {
		style := ActionStyle
		if i == m.actionCursor {
			style = SelectedActionStyle
		}
		buttons = append(buttons, style.Render(act.label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
	return lipgloss.NewStyle().PaddingLeft(4).Render(row)
}

func (m Model) scanView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Discover projectors"))
	b.WriteString("\n\n")

	if m.scanning {
		b.WriteString(fmt.Sprintf("  %s scanning the network...\n", m.spinner.View()))
		return b.String()
	}

	if len(m.candidates) == 0 {
		b.WriteString("  No new projectors found.\n")
		return b.String()
	}

	for i, c := range m.candidates {
		label := fmt.Sprintf("%s  %s", c.Address, c.VendorID)
		if c.Hostname != "" {
			label += "  " + c.Hostname
		}
		label += "  (" + c.Via + ")"
		if i == m.candCursor {
			b.WriteString(SelectedDeviceStyle.Render("→ " + label))
		} else {
			b.WriteString(DeviceStyle.Render(label))
		}
		b.WriteString("\n")
	}

	return b.String()
}
