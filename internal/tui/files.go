package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// exts lists the data file extensions a chart type can open.
func (m *Model) exts() map[string]bool {
	if m.kind == "treemap" {
		return map[string]bool{".yaml": true, ".yml": true, ".json": true}
	}
	return map[string]bool{".geojson": true, ".json": true, ".csv": true, ".kml": true, ".wkt": true}
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	exts := m.exts()
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if exts[ext] {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no data files in current directory"
	}
}

// loadPath makes p a source of the chart: treemap records, map markers
// (.csv, .kml) or metro areas (everything else).
func (m *Model) loadPath(p string) {
	m.selPath = p
	ext := strings.ToLower(filepath.Ext(p))
	if !m.exts()[ext] {
		m.status = "unsupported file: " + ext
		return
	}
	layer := "metro"
	switch {
	case m.kind == "treemap":
		m.sources.Data = p
		layer = "data"
	case ext == ".csv" || ext == ".kml":
		m.sources.Markers = p
		layer = "markers"
	default:
		m.sources.Metro = p
	}
	if err := m.reload([]string{p}); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	st := m.ctrl.Stats()
	m.status = fmt.Sprintf("loaded %s as %s  +%d ~%d -%d", filepath.Base(p), layer, st.Entered, st.Updated, st.Exited)
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// reload rereads the changed sources and renders.
func (m *Model) reload(changed []string) error {
	cfg := m.ctrl.Config()
	if err := m.sources.LoadChanged(&cfg, changed); err != nil {
		return err
	}
	m.ctrl.SetGeoJSON(cfg.GeoJSON).SetMetro(cfg.Metro).SetMarkers(cfg.Markers).SetData(cfg.Data)
	_, err := m.ctrl.Render()
	return err
}
