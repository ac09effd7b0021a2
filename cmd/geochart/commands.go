package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"geochart/internal/chart"
	"geochart/internal/raster"
	"geochart/internal/scene"
	"geochart/internal/tui"
	"geochart/internal/watch"
)

// chartFlags are shared by render and view.
type chartFlags struct {
	config     string
	states     string
	metro      string
	markers    string
	data       string
	idProperty string
	width      float64
	height     float64
	gui        bool
	verbose    bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "YAML file overlaid on the chart defaults")
	fs.StringVar(&f.states, "states", "", "state outlines (GeoJSON, KML, CSV or WKT)")
	fs.StringVar(&f.metro, "metro", "", "metro areas (GeoJSON, KML, CSV or WKT)")
	fs.StringVar(&f.markers, "markers", "", "point markers (CSV or KML)")
	fs.StringVar(&f.data, "data", "", "treemap records (YAML or JSON)")
	fs.StringVar(&f.idProperty, "id-property", "", "GeoJSON property used as feature identity")
	fs.Float64Var(&f.width, "width", 0, "svg width (0 keeps the configured width)")
	fs.Float64Var(&f.height, "height", 0, "svg height (0 keeps the configured height)")
	fs.BoolVar(&f.gui, "gui", false, "open the tweak panel on first render")
	fs.BoolVar(&f.verbose, "verbose", false, "debug logging")
}

func (f *chartFlags) sources() chart.Sources {
	return chart.Sources{
		States:     f.states,
		Metro:      f.metro,
		Markers:    f.markers,
		Data:       f.data,
		IDProperty: f.idProperty,
	}
}

// chartConfig resolves the kind's defaults, the config file and the size
// flags, in that order.
func (f *chartFlags) chartConfig(kind string) (chart.Drawer, chart.Config, error) {
	drawer, cfg, err := chart.DrawerFor(kind)
	if err != nil {
		return nil, cfg, err
	}
	if f.config != "" {
		if err := chart.LoadConfigFile(f.config, &cfg); err != nil {
			return nil, cfg, err
		}
	}
	if f.width > 0 {
		cfg.SvgWidth = f.width
	}
	if f.height > 0 {
		cfg.SvgHeight = f.height
	}
	if f.gui {
		cfg.GuiEnabled = true
	}
	return drawer, cfg, nil
}

func (f *chartFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geochart",
		Short: "Data-bound SVG charts: a US map and a treemap",
		Long: `geochart draws data-bound SVG charts.

Chart types:
  map      - state outlines, metro areas and point markers on an Albers projection
  treemap  - squarified treemap of nested records

Examples:
  geochart render map --states states.geojson --metro metro.geojson --out map.svg
  geochart render treemap --data budget.yaml --png budget.png --scale 2
  geochart view map --metro metro.geojson --gui`,
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newViewCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		f     chartFlags
		out   string
		png   string
		scale float64
	)
	cmd := &cobra.Command{
		Use:       "render KIND",
		Short:     "Render a chart to SVG and optionally PNG",
		Args:      cobra.ExactArgs(1),
		ValidArgs: chart.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := f.logger(cmd.ErrOrStderr())
			root, err := renderChart(args[0], &f, log)
			if err != nil {
				return err
			}
			if err := writeSVG(cmd.OutOrStdout(), out, root); err != nil {
				return err
			}
			if png == "" {
				return nil
			}
			pf, err := os.Create(png)
			if err != nil {
				return errors.Wrap(err, "create png")
			}
			defer pf.Close()
			if err := raster.WritePNG(pf, root, scale); err != nil {
				return err
			}
			log.Info("wrote png", "path", png, "scale", scale)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "svg output file (stdout when empty)")
	cmd.Flags().StringVar(&png, "png", "", "also rasterize to this PNG file")
	cmd.Flags().Float64Var(&scale, "scale", 1, "PNG pixels per svg unit")
	return cmd
}

// renderChart draws one chart on a headless surface and returns its svg.
func renderChart(kind string, f *chartFlags, log *slog.Logger) (*scene.Node, error) {
	drawer, cfg, err := f.chartConfig(kind)
	if err != nil {
		return nil, err
	}
	if err := f.sources().Load(&cfg); err != nil {
		return nil, err
	}
	ctrl := chart.New(drawer, cfg, chart.NewHost(0), chart.WithLogger(log))
	defer ctrl.Close()
	if _, err := ctrl.Render(); err != nil {
		return nil, err
	}
	st := ctrl.Stats()
	log.Debug("render done", "kind", kind, "entered", st.Entered, "updated", st.Updated, "exited", st.Exited)
	return ctrl.Root(), nil
}

func writeSVG(stdout io.Writer, path string, root *scene.Node) error {
	if path == "" {
		return scene.WriteSVG(stdout, root)
	}
	if err := os.WriteFile(path, scene.SVGBytes(root), 0o644); err != nil {
		return errors.Wrap(err, "write svg")
	}
	return nil
}

func newViewCmd() *cobra.Command {
	var (
		f       chartFlags
		logFile string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "view KIND",
		Short: "Explore a chart in the terminal",
		Long: `Render a chart in the terminal and keep it live.

The terminal width is the chart container: resizing the window re-renders
the chart. Edited source files are reloaded. With --gui the tweak panel
lists the chart options for editing.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: chart.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			lf, err := tea.LogToFile(logFile, "geochart")
			if err != nil {
				return errors.Wrap(err, "open log file")
			}
			defer lf.Close()
			log := f.logger(lf)

			_, cfg, err := f.chartConfig(kind)
			if err != nil {
				return err
			}
			m, err := tui.New(tui.Options{Kind: kind, Config: cfg, Sources: f.sources(), Logger: log})
			if err != nil {
				return err
			}
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if paths := f.sources().Paths(); len(paths) > 0 && !noWatch {
				w, err := watch.New(paths, func(changed []string) {
					p.Send(tui.FilesChangedMsg{Paths: changed})
				}, watch.WithLogger(log))
				if err != nil {
					return err
				}
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				go w.Run(ctx)
				defer w.Stop()
			}
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&logFile, "log", "geochart.log", "log file")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload edited source files")
	return cmd
}
