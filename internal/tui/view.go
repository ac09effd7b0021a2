package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

func (m Model) panelVisible() bool { return m.showPanel && m.panel.active }

// previewArea is the origin and size, in cells, of the chart preview.
func (m Model) previewArea() (x, y, w, h int) {
	w = max(10, m.width)
	if m.showSidebar {
		x = sidebarWidth + 1
		w -= x
	}
	if m.panelVisible() {
		w -= panelWidth + 3
	}
	h = max(4, m.height-headerHeight-footerHeight)
	return x, headerHeight, max(10, w), h
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	_, _, prevW, prevH := m.previewArea()

	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, prevH-2)
	}

	header := titleStyle.Render(fmt.Sprintf(" geochart ─ %s %s ", m.kind, m.ctrl.ID()))
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	var mainView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(prevW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(prevH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mainView = lipgloss.Place(prevW, prevH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(prevW)
		m.ta.SetHeight(min(prevH, 12))
		mainView = lipgloss.NewStyle().Width(prevW).Height(prevH).Render(m.ta.View())
	default:
		mainView = lipgloss.NewStyle().Width(prevW).Height(prevH).Render(m.renderPreview(prevW, prevH))
	}

	cols := []string{}
	if m.showSidebar {
		cols = append(cols, lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View()), " ")
	}
	cols = append(cols, mainView)
	if m.panelVisible() {
		cols = append(cols, " ", m.panel.view(prevH))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	status := dimStyle.Render(" " + m.status + " ")
	hover := ""
	if m.hovering {
		hover = accentStyle.Render("  " + m.hoverName + "  ")
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(hover))
	right := lipgloss.Place(spacerW+lipgloss.Width(hover), 1, lipgloss.Right, lipgloss.Center, hover)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"Tab files",
		"Enter open/edit",
		"g options",
		"p paste",
		"a data",
		"b bounds",
		"r reload",
		"s save",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
