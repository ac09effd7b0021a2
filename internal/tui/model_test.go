package tui

import (
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geochart/internal/chart"
	"geochart/internal/treemap"
)

const records = `
- id: a
  name: Alpha
  children:
    - {id: a1, value: 6}
    - {id: a2, value: 2}
- id: b
  name: Beta
  children:
    - {id: b1, value: 4}
`

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newModel(t *testing.T, kind string, gui bool, src chart.Sources) Model {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	_, cfg, err := chart.DrawerFor(kind)
	require.NoError(t, err)
	cfg.GuiEnabled = gui
	m, err := New(Options{Kind: kind, Config: cfg, Sources: src, Logger: quiet()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writeRecords(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestWindowSizeResizesChart(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{})
	assert.Equal(t, 400.0, m.ctrl.SvgWidth())

	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 800.0, m.host.Width(m.host.Root()))
	assert.Equal(t, 800.0, m.ctrl.SvgWidth())
	assert.Equal(t, chart.Rendered, m.ctrl.State())

	// the file sidebar takes columns away from the chart
	m = send(m, key("tab"))
	_, _, w, _ := m.previewArea()
	assert.Equal(t, 100-sidebarWidth-1, w)
	assert.Equal(t, float64(w*CellWidth), m.ctrl.SvgWidth())
}

func TestPanelEditAppliesOption(t *testing.T) {
	m := newModel(t, "treemap", true, chart.Sources{})
	require.True(t, m.panel.active)
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, float64((100-panelWidth-3)*CellWidth), m.ctrl.SvgWidth())

	// id, svgWidth, svgHeight
	m = send(m, key("down"))
	m = send(m, key("down"))
	o, ok := m.panel.selected()
	require.True(t, ok)
	require.Equal(t, "svgHeight", o.Key)

	m = send(m, key("enter"))
	require.True(t, m.panel.editing)
	assert.Equal(t, "200", m.panel.input.Value())
	m.panel.input.SetValue("300")
	m = send(m, key("enter"))

	assert.False(t, m.panel.editing)
	assert.Equal(t, "applied", m.status)
	assert.Equal(t, 300.0, m.ctrl.SvgHeight())
	h, _ := m.ctrl.Root().Attr("height")
	assert.Equal(t, "300", h)
}

func TestPanelRejectsBadValue(t *testing.T) {
	m := newModel(t, "treemap", true, chart.Sources{})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = send(m, key("down"))
	m = send(m, key("enter"))
	m.panel.input.SetValue("wide")
	m = send(m, key("enter"))

	assert.True(t, m.panel.editing)
	assert.True(t, strings.HasPrefix(m.status, "option error"), m.status)

	m = send(m, key("esc"))
	assert.False(t, m.panel.editing)
}

func TestPanelToggleNeedsGui(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{})
	assert.False(t, m.panelVisible())
	m = send(m, key("g"))
	assert.False(t, m.panelVisible())
	assert.Contains(t, m.status, "--gui")
}

func TestPasteTreemapRecords(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{})
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Empty(t, m.ctrl.Chart().Children())

	m = send(m, key("p"))
	require.True(t, m.pasteMode)
	m.ta.SetValue(records)
	m = send(m, key("ctrl+s"))

	assert.False(t, m.pasteMode)
	assert.Contains(t, m.status, "+9")
	assert.Len(t, m.ctrl.Chart().ChildrenByClass("node-group"), 3)
}

func TestPasteWKTMetro(t *testing.T) {
	m := newModel(t, "map", false, chart.Sources{})
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = send(m, key("p"))
	m.ta.SetValue("POLYGON((-100 40, -90 40, -90 45, -100 45, -100 40))")
	m = send(m, key("ctrl+s"))

	paths := m.ctrl.Chart().ChildrenByClass("map-path")
	require.Len(t, paths, 1)

	cfg := m.ctrl.Config()
	l := m.ctrl.Layout()
	x, y, ok := chart.USMap{}.Projection(&cfg, l).Project(-95, 42.5)
	require.True(t, ok)
	name, hit := m.hitTest(x+l.Left, y+l.Top)
	assert.True(t, hit)
	assert.Equal(t, "pasted", name)

	_, hit = m.hitTest(1, 1)
	assert.False(t, hit)
}

func TestPasteErrorKeepsMode(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{})
	m = send(m, key("p"))
	m.ta.SetValue("- {id: x, value: -1}")
	m = send(m, key("ctrl+s"))
	assert.True(t, m.pasteMode)
	assert.Contains(t, m.status, "negative value")

	m = send(m, key("esc"))
	assert.False(t, m.pasteMode)
}

func TestFilesChangedReloads(t *testing.T) {
	p := writeRecords(t, records)
	m := newModel(t, "treemap", false, chart.Sources{Data: p})
	require.Len(t, m.ctrl.Data(), 2)

	require.NoError(t, os.WriteFile(p, []byte("- {id: c, value: 1}\n"), 0o644))
	m = send(m, FilesChangedMsg{Paths: []string{p}})

	assert.Equal(t, "reloaded records.yaml", m.status)
	require.Len(t, m.ctrl.Data(), 1)
	assert.Len(t, m.ctrl.Chart().ChildrenByClass("node-group"), 1)

	require.NoError(t, os.WriteFile(p, []byte("- {id: c, value: -1}\n"), 0o644))
	m = send(m, FilesChangedMsg{Paths: []string{p}})
	assert.True(t, strings.HasPrefix(m.status, "reload error"), m.status)
	assert.Len(t, m.ctrl.Data(), 1)
}

func TestTreemapHitTestAndAttributes(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{Data: writeRecords(t, records)})
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	groups := m.ctrl.Chart().ChildrenByClass("node-group")
	require.NotEmpty(t, groups)
	leaf := groups[0].Datum.(*treemap.Node)
	l := m.ctrl.Layout()
	name, ok := m.hitTest(l.Left+(leaf.X0+leaf.X1)/2, l.Top+(leaf.Y0+leaf.Y1)/2)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(name, leaf.Label()), name)

	cols, rows := m.buildAttributes()
	assert.Equal(t, []string{"id", "name", "group", "value", "x", "y", "w", "h"}, cols)
	require.Len(t, rows, 3)
	// largest leaf first
	assert.Equal(t, []string{"a1", "", "Alpha", "6"}, rows[0][:4])

	m = send(m, key("a"))
	assert.True(t, m.showAttrs)
	assert.Len(t, m.tbl.Rows(), 3)
}

func TestAttributesWithoutDataHidesTable(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{})
	m = send(m, key("a"))
	assert.False(t, m.showAttrs)
	assert.Equal(t, "no bound data", m.status)
}

func TestSaveWritesFiles(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{Data: writeRecords(t, records)})
	m = send(m, key("s"))
	assert.Contains(t, m.status, "saved")

	for _, ext := range []string{".svg", ".png"} {
		fi, err := os.Stat(filepath.Join(m.cwd, m.ctrl.ID()+ext))
		require.NoError(t, err)
		assert.Positive(t, fi.Size())
	}
}

func TestViewLayout(t *testing.T) {
	m := newModel(t, "treemap", true, chart.Sources{Data: writeRecords(t, records)})
	assert.Empty(t, m.View())

	m = send(m, tea.WindowSizeMsg{Width: 160, Height: 30})
	v := m.View()
	assert.Contains(t, v, "geochart")
	assert.Contains(t, v, "options")
	assert.Contains(t, v, "q quit")

	m = send(m, key("h"))
	assert.NotContains(t, m.View(), "q quit")
}

func TestBrailleBuf(t *testing.T) {
	b := newBrailleBuf(2, 1)
	assert.True(t, b.setPixel(0, 0))
	assert.True(t, b.setPixel(1, 3))
	assert.False(t, b.setPixel(4, 0))
	assert.False(t, b.setPixel(0, 4))
	assert.False(t, b.setPixel(-1, 0))
	assert.Equal(t, uint8(0x81), b.m[0][0])

	lines := b.toLines(false)
	require.Len(t, lines, 1)
	assert.Equal(t, string(rune(0x2881))+" ", lines[0])

	b.setInk(2, 0, color.RGBA{R: 200, A: 255})
	b.setInk(3, 0, color.RGBA{R: 100, A: 255})
	assert.Equal(t, [4]uint32{300, 0, 0, 2}, b.ink[0][1])

	b = newBrailleBuf(2, 1)
	b.drawLineMicro(0, 0, 3, 0)
	assert.Equal(t, []uint8{0x09, 0x09}, b.m[0])
}

func TestPreviewHelpers(t *testing.T) {
	assert.Equal(t, 0.2, previewScale(400, 200, 40, 20))
	assert.Equal(t, 0.0, previewScale(0, 200, 40, 20))

	paper := color.RGBA{R: 0xEB, G: 0xEB, B: 0xEB, A: 0xff}
	assert.False(t, isInk(paper, paper))
	assert.False(t, isInk(color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xff}, paper))
	assert.True(t, isInk(color.RGBA{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff}, paper))
	assert.False(t, isInk(color.RGBA{A: 0x10}, paper))
}

func TestPreviewDrawsChart(t *testing.T) {
	m := newModel(t, "treemap", false, chart.Sources{Data: writeRecords(t, records)})
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 20})
	out := m.renderPreview(40, 10)
	assert.Len(t, strings.Split(out, "\n"), 10)
	assert.True(t, strings.ContainsRune(out, '⣿'))
}

func TestLoadPathRoutesByKind(t *testing.T) {
	m := newModel(t, "map", false, chart.Sources{})
	dir := t.TempDir()
	csv := filepath.Join(dir, "cities.csv")
	require.NoError(t, os.WriteFile(csv, []byte("name,lat,lon\nDenver,39.74,-104.99\n"), 0o644))

	m.loadPath(csv)
	assert.Equal(t, csv, m.sources.Markers)
	assert.Len(t, m.ctrl.Chart().ChildrenByClass("map-marker"), 1)
	assert.Contains(t, m.status, "as markers")

	m.loadPath(filepath.Join(dir, "notes.txt"))
	assert.Equal(t, "unsupported file: .txt", m.status)
}
