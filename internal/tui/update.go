package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geochart/internal/geom"
	"geochart/internal/raster"
	"geochart/internal/scene"
	"geochart/internal/treemap"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeHost()
	case FilesChangedMsg:
		if err := m.reload(msg.Paths); err != nil {
			m.log.Warn("reload failed", "paths", msg.Paths, "err", err)
			m.status = "reload error: " + err.Error()
		} else {
			names := make([]string, len(msg.Paths))
			for i, p := range msg.Paths {
				names[i] = filepath.Base(p)
			}
			m.status = "reloaded " + strings.Join(names, ", ")
		}
		m.afterRender()
		return m, nil
	case tea.KeyMsg:
		// list filtering owns the keyboard
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.panelVisible() && m.panel.editing {
			switch msg.String() {
			case "esc":
				m.panel.cancel()
				m.status = "edit canceled"
			case "enter":
				if err := m.panel.commit(); err != nil {
					m.status = "option error: " + err.Error()
				} else {
					m.status = "applied"
				}
				m.afterRender()
			default:
				return m, m.panel.update(msg)
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.resizeHost()
		case "g":
			if !m.panel.active {
				m.status = "tweak panel disabled (start with --gui)"
				break
			}
			m.showPanel = !m.showPanel
			m.resizeHost()
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.ta.Placeholder = m.pastePlaceholder()
			m.status = "paste mode"
			return m, m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "b":
			m.showBounds = !m.showBounds
		case "r":
			if err := m.reload(nil); err != nil {
				m.status = "reload error: " + err.Error()
			} else {
				m.status = "reloaded all sources"
			}
			m.afterRender()
		case "s":
			m.status = m.save()
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
					m.afterRender()
				}
				return m, nil
			}
			if m.panelVisible() {
				cmd, err := m.panel.edit()
				if err != nil {
					m.status = "option error: " + err.Error()
				}
				m.afterRender()
				return m, cmd
			}
		}
	case tea.MouseMsg:
		x0, y0, w, h := m.previewArea()
		cx, cy := msg.X-x0, msg.Y-y0
		m.hovering = false
		if cx >= 0 && cx < w && cy >= 0 && cy < h {
			if sx, sy, ok := m.cellToSvg(cx, cy, w, h); ok {
				m.hoverName, m.hovering = m.hitTest(sx, sy)
			}
		}
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.showAttrs {
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	if m.panelVisible() {
		return m, m.panel.update(msg)
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "ctrl+s":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.status = "paste: empty"
			return m, nil
		}
		if err := m.applyPaste(text); err != nil {
			m.status = "paste error: " + err.Error()
			return m, nil
		}
		st := m.ctrl.Stats()
		m.status = fmt.Sprintf("rendered pasted data  +%d ~%d -%d", st.Entered, st.Updated, st.Exited)
		m.pasteMode = false
		m.ta.Blur()
		m.afterRender()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) pastePlaceholder() string {
	if m.kind == "treemap" {
		return "Paste treemap records (YAML or JSON). Ctrl+S to render; Esc to cancel."
	}
	return "Paste metro areas (GeoJSON or WKT). Ctrl+S to render; Esc to cancel."
}

// applyPaste replaces the treemap records or the metro layer with text.
func (m *Model) applyPaste(text string) error {
	if m.kind == "treemap" {
		data, err := treemap.Parse([]byte(text))
		if err != nil {
			return err
		}
		m.sources.Data = ""
		m.ctrl.SetData(data)
	} else {
		fc, err := parseGeometry(text)
		if err != nil {
			return err
		}
		m.sources.Metro = ""
		m.ctrl.SetMetro(fc)
	}
	_, err := m.ctrl.Render()
	return err
}

func parseGeometry(text string) (*geom.Collection, error) {
	if strings.HasPrefix(text, "{") {
		return geom.ParseFeatures([]byte(text), "")
	}
	d, err := geom.ParseWKT(text)
	if err != nil {
		return nil, err
	}
	fc := &geom.Collection{}
	fc.Add(geom.Feature{FeatureID: "pasted", Geometry: d})
	return fc, nil
}

// resizeHost forwards the preview width to the chart as a container resize.
func (m *Model) resizeHost() {
	_, _, w, _ := m.previewArea()
	if m.width == 0 || w <= 0 {
		return
	}
	m.host.SetWidth(float64(w * CellWidth))
	m.afterRender()
}

// afterRender refreshes the views that mirror the chart.
func (m *Model) afterRender() {
	m.panel.sync(m.ctrl.Snapshot())
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// save writes the current scene as <id>.svg and <id>.png.
func (m Model) save() string {
	root := m.ctrl.Root()
	if root == nil {
		return "nothing to save"
	}
	base := filepath.Join(m.cwd, m.ctrl.ID())
	if err := os.WriteFile(base+".svg", scene.SVGBytes(root), 0o644); err != nil {
		return "save error: " + err.Error()
	}
	f, err := os.Create(base + ".png")
	if err != nil {
		return "save error: " + err.Error()
	}
	defer f.Close()
	if err := raster.WritePNG(f, root, 1); err != nil {
		return "save error: " + err.Error()
	}
	return "saved " + filepath.Base(base) + ".svg and .png"
}
