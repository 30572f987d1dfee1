package tui

import (
	"fmt"
	"guide-tracking-service/internal/render"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const closeLabel = "[x]"

type styles struct {
	title    lipgloss.Style
	overview lipgloss.Style
	help     lipgloss.Style
	notice   lipgloss.Style
	err      lipgloss.Style
	label    lipgloss.Style
	modal    lipgloss.Style
	badges   map[string]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		overview: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		label:    lipgloss.NewStyle().Width(20),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1),
		badges: map[string]lipgloss.Style{
			"status--pending":    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			"status--in-transit": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			"status--delivered":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		},
	}
}

func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.formView()
	case modeHistory:
		box := m.modalBox()
		if m.width == 0 || m.height == 0 {
			return box
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return m.tableView()
}

func (m Model) tableView() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Seguimiento de Guías"))
	b.WriteString("\n\n")

	ov := m.screen.Overview
	b.WriteString(m.styles.overview.Render(fmt.Sprintf(
		"Total: %d   En tránsito: %d   Entregadas: %d", ov.Total, ov.InTransit, ov.Delivered)))
	b.WriteString("\n\n")

	if m.screen.Empty {
		b.WriteString(render.EmptyMessage)
	} else {
		b.WriteString(m.table.View())
		if row, ok := m.selected(); ok {
			b.WriteString("\n")
			b.WriteString(m.badge(row.Badge.StyleTag).Render(row.Badge.Label))
			b.WriteString(fmt.Sprintf("  %s · %s → %s", row.ID, row.Origin, row.Destination))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.help.Render("a avanzar · h historial · n nueva guía · q salir"))
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.notice.Render(m.notice))
	}

	return b.String()
}

func (m Model) badge(tag string) lipgloss.Style {
	if s, ok := m.styles.badges[tag]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func (m Model) formView() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Registrar Guía"))
	b.WriteString("\n\n")

	for i, f := range formFields {
		b.WriteString(m.styles.label.Render(f.label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.formErr != "" {
		b.WriteString(m.styles.err.Render(m.formErr))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render("tab siguiente · enter registrar · esc volver"))

	return b.String()
}

// modalLines returns the content of the history box, header first. The
// header is padded so closeLabel ends on the last inner column.
func (m Model) modalLines() []string {
	items := make([]string, 0, len(m.modal.Items))
	inner := lipgloss.Width(m.modal.Title) + 2 + len(closeLabel)
	for _, it := range m.modal.Items {
		line := "• " + it.Label + ": " + it.Timestamp
		items = append(items, line)
		inner = max(inner, lipgloss.Width(line))
	}

	header := m.modal.Title + strings.Repeat(" ", inner-lipgloss.Width(m.modal.Title)-len(closeLabel)) + closeLabel
	return append([]string{header, ""}, items...)
}

func (m Model) modalBox() string {
	return m.styles.modal.Render(strings.Join(m.modalLines(), "\n"))
}

// modalRect is the screen region covered by the history box.
func (m Model) modalRect() (x, y, w, h int) {
	box := m.modalBox()
	w, h = lipgloss.Width(box), lipgloss.Height(box)
	return max(0, (m.width-w)/2), max(0, (m.height-h)/2), w, h
}

// closeRect is the position of closeLabel on the header line, inside the
// top border and right padding.
func (m Model) closeRect() (x, y, w int) {
	bx, by, bw, _ := m.modalRect()
	return bx + bw - 2 - len(closeLabel), by + 1, len(closeLabel)
}

func (m Model) hitTest(x, y int) render.ClickTarget {
	bx, by, bw, bh := m.modalRect()
	if x < bx || x >= bx+bw || y < by || y >= by+bh {
		return render.TargetScrim
	}

	cx, cy, cw := m.closeRect()
	if y == cy && x >= cx && x < cx+cw {
		return render.TargetClose
	}
	return render.TargetContent
}
