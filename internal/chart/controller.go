// Package chart drives declarative charts: it owns the configuration,
// mounts an svg scene on a Surface and re-renders it on resizes and option
// edits.
package chart

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"geochart/internal/bind"
	"geochart/internal/scene"
)

// State of a controller's scene with respect to its configuration.
type State int

const (
	Unrendered State = iota
	Rendered
	Stale
)

func (s State) String() string {
	switch s {
	case Rendered:
		return "rendered"
	case Stale:
		return "stale"
	}
	return "unrendered"
}

// Drawer draws one chart type into the content group.
type Drawer interface {
	Name() string
	// Keys lists the chart-specific scalar options offered to a panel.
	Keys() []string
	Draw(g *scene.Node, c *Config, l Layout) (bind.Stats, error)
}

// Panel is a live tweak panel created for a controller.
type Panel interface {
	Close() error
}

// PanelFactory creates a panel showing snapshot. The panel calls onChange
// with the full edited option set whenever the user changes a value.
type PanelFactory func(snapshot []Option, onChange func([]Option) error) (Panel, error)

// Controller renders one chart.
type Controller struct {
	cfg     Config
	drawer  Drawer
	surface Surface
	log     *slog.Logger

	newPanel PanelFactory
	panel    Panel

	state     State
	container *scene.Node
	subID     string
	sub       Subscription
	root      *scene.Node
	chart     *scene.Node
	layout    Layout
	stats     bind.Stats
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.log = l }
}

// WithPanel enables the tweak panel for configurations with guiEnabled.
func WithPanel(f PanelFactory) ControllerOption {
	return func(c *Controller) { c.newPanel = f }
}

// New returns an unrendered controller.
func New(drawer Drawer, cfg Config, surface Surface, opts ...ControllerOption) *Controller {
	c := &Controller{
		cfg:     cfg,
		drawer:  drawer,
		surface: surface,
		log:     slog.Default(),
		subID:   "resize." + uuid.NewString(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.cfg.ID == "" {
		c.cfg.ID = NewID()
	}
	c.log = c.log.With("chart", c.cfg.ID, "drawer", drawer.Name())
	return c
}

func (c *Controller) State() State { return c.state }

// Root is the svg wrapper node, nil before the first render.
func (c *Controller) Root() *scene.Node { return c.root }

// Chart is the content group that drawers draw into.
func (c *Controller) Chart() *scene.Node { return c.chart }

// Layout is the layout of the last successful render.
func (c *Controller) Layout() Layout { return c.layout }

// Stats is what the drawer's reconciliation did in the last render.
func (c *Controller) Stats() bind.Stats { return c.stats }

// Config returns a copy of the configuration.
func (c *Controller) Config() Config { return c.cfg }

// Snapshot is the option set a tweak panel edits.
func (c *Controller) Snapshot() []Option { return c.cfg.Scalars(c.drawer.Keys()...) }

func (c *Controller) markStale() {
	if c.state == Rendered {
		c.state = Stale
	}
}

// Render brings the scene in line with the configuration. It materializes
// the panel on the first render, resolves and measures the container,
// validates and lays out, binds the svg and content wrappers and draws.
// A validation error leaves the previous scene untouched. A draw error
// leaves the wrappers at the new size and the state unchanged, so the next
// Render redraws.
func (c *Controller) Render() (*Controller, error) {
	c.openPanel()
	node, auto := c.resolve()
	if auto {
		if w := c.surface.Width(node); w > 0 {
			c.cfg.SvgWidth = w
		}
	}
	if err := c.cfg.Validate(); err != nil {
		c.log.Warn("render rejected", "err", err)
		return c, err
	}
	c.layout = ComputeLayout(c.cfg)
	c.attach(node)
	c.drawWrappers()

	stats, err := c.drawer.Draw(c.chart, &c.cfg, c.layout)
	if err != nil {
		return c, errors.Wrapf(err, "chart: draw %s", c.drawer.Name())
	}
	c.stats = stats
	c.cfg.FirstRender = false
	c.state = Rendered
	c.log.Debug("rendered",
		"width", c.cfg.SvgWidth, "height", c.cfg.SvgHeight,
		"entered", stats.Entered, "updated", stats.Updated, "exited", stats.Exited)
	return c, nil
}

func (c *Controller) openPanel() {
	if !c.cfg.GuiEnabled || !c.cfg.FirstRender || c.newPanel == nil || c.panel != nil {
		return
	}
	p, err := c.newPanel(c.Snapshot(), c.Apply)
	if err != nil {
		c.log.Warn("tweak panel unavailable", "err", err)
		return
	}
	c.panel = p
}

// resolve finds the container and subscribes to resizes once. It reports
// whether the container may be measured.
func (c *Controller) resolve() (*scene.Node, bool) {
	if c.sub == nil {
		c.sub = c.surface.Subscribe(c.subID, c.resized)
	}
	if node := c.surface.Resolve(c.cfg.Container); node != nil {
		return node, true
	}
	c.log.Warn("container not found, using surface root", "container", c.cfg.Container)
	return c.surface.Root(), false
}

// attach moves drawing to node, dropping the scene mounted elsewhere.
func (c *Controller) attach(node *scene.Node) {
	if c.container != nil && c.container != node && c.root != nil {
		c.root.Remove()
		c.root, c.chart = nil, nil
	}
	c.container = node
}

func (c *Controller) drawWrappers() {
	svg := bind.One(c.container, "svg-chart-container", "svg")
	svg.SetAttr("width", c.cfg.SvgWidth).
		SetAttr("height", c.cfg.SvgHeight).
		SetAttr("viewBox", "0 0 "+scene.FormatValue(c.cfg.SvgWidth)+" "+scene.FormatValue(c.cfg.SvgHeight)).
		SetAttr("font-family", c.cfg.DefaultFont)
	if c.cfg.SvgBackground != "" {
		svg.SetStyle("background-color", c.cfg.SvgBackground)
	} else {
		svg.RemoveStyle("background-color")
	}
	g := bind.One(svg, "chart", "g")
	g.SetAttr("transform", "translate("+scene.FormatValue(c.layout.Left)+","+scene.FormatValue(c.layout.Top)+")")
	c.root, c.chart = svg, g
}

func (c *Controller) resized() {
	c.markStale()
	if _, err := c.Render(); err != nil {
		c.log.Error("render after resize", "err", err)
	}
}

// Apply writes every option back and renders. It is the panel's change
// callback.
func (c *Controller) Apply(opts []Option) error {
	if err := c.cfg.SetScalars(opts); err != nil {
		return err
	}
	c.markStale()
	_, err := c.Render()
	return err
}

// Close removes the resize subscription and closes the panel. The scene is
// left in place.
func (c *Controller) Close() error {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	if c.panel != nil {
		err := c.panel.Close()
		c.panel = nil
		return err
	}
	return nil
}
