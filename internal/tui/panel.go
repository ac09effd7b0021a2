package tui

import (
	"strings"

	table "github.com/charmbracelet/bubbles/table"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"geochart/internal/chart"
)

const panelWidth = 38

// tweakPanel lists the chart's scalar options and edits them in place.
// Enter edits the selected value (booleans toggle), Enter again applies it,
// Esc cancels.
type tweakPanel struct {
	active   bool
	editing  bool
	opts     []chart.Option
	onChange func([]chart.Option) error

	tbl   table.Model
	input textinput.Model
}

func newTweakPanel() *tweakPanel {
	t := table.New(
		table.WithColumns([]table.Column{{Title: "option", Width: 16}, {Title: "value", Width: panelWidth - 22}}),
		table.WithFocused(true),
		table.WithHeight(14),
	)
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 64
	return &tweakPanel{tbl: t, input: in}
}

// factory is the chart.PanelFactory of the viewer.
func (p *tweakPanel) factory(snapshot []chart.Option, onChange func([]chart.Option) error) (chart.Panel, error) {
	p.opts = append([]chart.Option(nil), snapshot...)
	p.onChange = onChange
	p.active = true
	p.refresh()
	return p, nil
}

func (p *tweakPanel) Close() error {
	p.active = false
	p.editing = false
	p.input.Blur()
	return nil
}

// sync shows values changed outside the panel, such as an auto-sized width.
func (p *tweakPanel) sync(snapshot []chart.Option) {
	if !p.active || p.editing {
		return
	}
	p.opts = append(p.opts[:0], snapshot...)
	p.refresh()
}

func (p *tweakPanel) refresh() {
	rows := make([]table.Row, len(p.opts))
	for i, o := range p.opts {
		rows[i] = table.Row{o.Key, o.String()}
	}
	p.tbl.SetRows(rows)
}

func (p *tweakPanel) selected() (chart.Option, bool) {
	i := p.tbl.Cursor()
	if i < 0 || i >= len(p.opts) {
		return chart.Option{}, false
	}
	return p.opts[i], true
}

// edit starts editing the selected option; booleans are toggled and applied
// at once.
func (p *tweakPanel) edit() (tea.Cmd, error) {
	o, ok := p.selected()
	if !ok {
		return nil, nil
	}
	if b, isBool := o.Value.(bool); isBool {
		return nil, p.apply(chart.Option{Key: o.Key, Value: !b})
	}
	p.editing = true
	p.input.SetValue(o.String())
	p.input.CursorEnd()
	return p.input.Focus(), nil
}

// commit parses the edited text and applies it.
func (p *tweakPanel) commit() error {
	o, ok := p.selected()
	if !ok {
		p.cancel()
		return nil
	}
	next, err := o.Parse(p.input.Value())
	if err != nil {
		return err
	}
	if err := p.apply(next); err != nil {
		return err
	}
	p.cancel()
	return nil
}

func (p *tweakPanel) cancel() {
	p.editing = false
	p.input.Blur()
}

// apply hands the whole option set, with o replaced, to the controller.
func (p *tweakPanel) apply(o chart.Option) error {
	next := append([]chart.Option(nil), p.opts...)
	for i := range next {
		if next[i].Key == o.Key {
			next[i] = o
		}
	}
	if err := p.onChange(next); err != nil {
		return err
	}
	p.opts = next
	p.refresh()
	return nil
}

func (p *tweakPanel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if p.editing {
		p.input, cmd = p.input.Update(msg)
		return cmd
	}
	p.tbl, cmd = p.tbl.Update(msg)
	return cmd
}

func (p *tweakPanel) view(height int) string {
	p.tbl.SetHeight(max(3, height-4))
	var b strings.Builder
	b.WriteString(titleStyle.Render("options"))
	b.WriteString("\n")
	b.WriteString(p.tbl.View())
	if p.editing {
		b.WriteString("\n")
		b.WriteString(p.input.View())
	}
	return boxStyle.Width(panelWidth).Render(b.String())
}
