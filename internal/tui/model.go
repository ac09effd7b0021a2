package tui

import (
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geochart/internal/chart"
)

// CellWidth is the container width, in svg units, of one terminal column.
const CellWidth = 8

// Options configures the viewer.
type Options struct {
	Kind string
	// Config replaces the kind's defaults when its ID is set.
	Config  chart.Config
	Sources chart.Sources
	Logger  *slog.Logger
}

// Model hosts one chart: the terminal acts as its container and the tweak
// panel edits its options.
type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showBounds  bool

	status string

	kind    string
	ctrl    *chart.Controller
	host    *chart.Host
	sources chart.Sources
	log     *slog.Logger

	// tweak panel, materialized by the controller on its first render
	panel     *tweakPanel
	showPanel bool

	// file explorer
	cwd     string
	l       list.Model
	selPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering  bool
	hoverName string

	// data table
	showAttrs bool
	tbl       table.Model
}

// New loads the sources, renders the chart once and returns the model.
func New(opts Options) (Model, error) {
	drawer, cfg, err := chart.DrawerFor(opts.Kind)
	if err != nil {
		return Model{}, err
	}
	if opts.Config.ID != "" {
		cfg = opts.Config
	}
	if err := opts.Sources.Load(&cfg); err != nil {
		return Model{}, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	m := Model{
		helpVisible: true,
		status:      opts.Kind + " ready",
		kind:        opts.Kind,
		host:        chart.NewHost(0),
		sources:     opts.Sources,
		log:         log,
		panel:       newTweakPanel(),
		showPanel:   true,
	}
	m.ctrl = chart.New(drawer, cfg, m.host, chart.WithLogger(log), chart.WithPanel(m.panel.factory))
	if _, err := m.ctrl.Render(); err != nil {
		return Model{}, err
	}

	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Data files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = m.pastePlaceholder()
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Controller exposes the hosted chart.
func (m Model) Controller() *chart.Controller { return m.ctrl }

// Close releases the chart's subscriptions and panel.
func (m Model) Close() error { return m.ctrl.Close() }

// FilesChangedMsg reports edited source files; the watcher sends it.
type FilesChangedMsg struct {
	Paths []string
}
