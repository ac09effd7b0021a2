package chart

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"geochart/internal/geom"
	"geochart/internal/treemap"
)

// ErrInvalidConfig is returned by Render when the configuration cannot
// produce a drawable layout.
var ErrInvalidConfig = errors.New("chart: invalid configuration")

// Config is the complete option set of a chart. Collections and records are
// not part of the YAML form; they come from data files.
type Config struct {
	ID              string     `yaml:"id" validate:"required"`
	SvgWidth        float64    `yaml:"svgWidth" validate:"gt=0"`
	SvgHeight       float64    `yaml:"svgHeight" validate:"gt=0"`
	MarginTop       float64    `yaml:"marginTop" validate:"gte=0"`
	MarginBottom    float64    `yaml:"marginBottom" validate:"gte=0"`
	MarginRight     float64    `yaml:"marginRight" validate:"gte=0"`
	MarginLeft      float64    `yaml:"marginLeft" validate:"gte=0"`
	Container       string     `yaml:"container"`
	DefaultTextFill string     `yaml:"defaultTextFill"`
	SvgBackground   string     `yaml:"svgBackground"`
	DefaultFont     string     `yaml:"defaultFont"`
	Center          [2]float64 `yaml:"center,flow"`
	Scale           float64    `yaml:"scale" validate:"gte=0"`
	FitExtent       bool       `yaml:"fitExtent"`

	GeoJSON *geom.Collection `yaml:"-"`
	Metro   *geom.Collection `yaml:"-"`
	Markers *geom.Collection `yaml:"-"`
	Data    []treemap.Datum  `yaml:"data,omitempty"`

	FirstRender bool `yaml:"-"`
	GuiEnabled  bool `yaml:"guiEnabled"`
}

// NewID returns a chart id of the form "ID" followed by up to six digits.
func NewID() string {
	return "ID" + strconv.FormatUint(uint64(uuid.New().ID()%1000000), 10)
}

func baseConfig() Config {
	return Config{
		ID:              NewID(),
		SvgWidth:        400,
		SvgHeight:       200,
		Container:       "body",
		DefaultTextFill: "#2C3E50",
		DefaultFont:     "Helvetica",
		FirstRender:     true,
	}
}

// DefaultMapConfig returns the US map defaults.
func DefaultMapConfig() Config {
	c := baseConfig()
	c.MarginTop, c.MarginBottom, c.MarginRight, c.MarginLeft = 5, 5, 5, 5
	c.SvgBackground = "#EBEBEB"
	c.Center = [2]float64{-96, 38.7}
	c.Scale = 1070
	c.FitExtent = true
	return c
}

// DefaultTreemapConfig returns the treemap defaults.
func DefaultTreemapConfig() Config {
	return baseConfig()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(Config)
		if c.SvgWidth-c.MarginLeft-c.MarginRight < 0 {
			sl.ReportError(c.MarginLeft, "MarginLeft", "marginLeft", "contentwidth", "")
		}
		if c.SvgHeight-c.MarginTop-c.MarginBottom < 0 {
			sl.ReportError(c.MarginTop, "MarginTop", "marginTop", "contentheight", "")
		}
	}, Config{})
	return v
}

// Validate reports every violated constraint, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "contentwidth":
			msgs = append(msgs, "margins exceed svgWidth")
		case "contentheight":
			msgs = append(msgs, "margins exceed svgHeight")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s%s", fe.Field(), fe.Tag(), param(fe.Param())))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// LoadConfigFile overlays the YAML file at path onto c. Keys absent from the
// file keep their current value.
func LoadConfigFile(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "chart: read config")
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return errors.Wrapf(err, "chart: decode config %s", path)
	}
	return nil
}

// Option is one scalar configuration entry as exposed to a tweak panel.
type Option struct {
	Key   string
	Value any // float64, string or bool
}

// scalar describes how one scalar option reads and writes Config.
type scalar struct {
	key string
	get func(*Config) any
	set func(*Config, any) bool
}

func num(key string, f func(*Config) *float64) scalar {
	return scalar{key, func(c *Config) any { return *f(c) }, func(c *Config, v any) bool {
		x, ok := v.(float64)
		if ok {
			*f(c) = x
		}
		return ok
	}}
}

func str(key string, f func(*Config) *string) scalar {
	return scalar{key, func(c *Config) any { return *f(c) }, func(c *Config, v any) bool {
		x, ok := v.(string)
		if ok {
			*f(c) = x
		}
		return ok
	}}
}

func flag(key string, f func(*Config) *bool) scalar {
	return scalar{key, func(c *Config) any { return *f(c) }, func(c *Config, v any) bool {
		x, ok := v.(bool)
		if ok {
			*f(c) = x
		}
		return ok
	}}
}

// scalars lists the editable options in declaration order. guiEnabled and
// firstRender are internal and never exposed.
var scalars = []scalar{
	str("id", func(c *Config) *string { return &c.ID }),
	num("svgWidth", func(c *Config) *float64 { return &c.SvgWidth }),
	num("svgHeight", func(c *Config) *float64 { return &c.SvgHeight }),
	num("marginTop", func(c *Config) *float64 { return &c.MarginTop }),
	num("marginBottom", func(c *Config) *float64 { return &c.MarginBottom }),
	num("marginRight", func(c *Config) *float64 { return &c.MarginRight }),
	num("marginLeft", func(c *Config) *float64 { return &c.MarginLeft }),
	str("container", func(c *Config) *string { return &c.Container }),
	str("defaultTextFill", func(c *Config) *string { return &c.DefaultTextFill }),
	str("svgBackground", func(c *Config) *string { return &c.SvgBackground }),
	str("defaultFont", func(c *Config) *string { return &c.DefaultFont }),
	num("scale", func(c *Config) *float64 { return &c.Scale }),
	flag("fitExtent", func(c *Config) *bool { return &c.FitExtent }),
}

// common keys every chart exposes; the rest are drawer specific
var commonKeys = map[string]bool{
	"id": true, "svgWidth": true, "svgHeight": true,
	"marginTop": true, "marginBottom": true, "marginRight": true, "marginLeft": true,
	"container": true, "defaultTextFill": true, "svgBackground": true, "defaultFont": true,
}

// Scalars snapshots the common scalar options plus the given extra keys.
func (c *Config) Scalars(extra ...string) []Option {
	want := make(map[string]bool, len(extra))
	for _, k := range extra {
		want[k] = true
	}
	var out []Option
	for _, s := range scalars {
		if commonKeys[s.key] || want[s.key] {
			out = append(out, Option{Key: s.key, Value: s.get(c)})
		}
	}
	return out
}

// SetScalars writes every option back. It fails on the first unknown key or
// mistyped value and leaves c unchanged in that case.
func (c *Config) SetScalars(opts []Option) error {
	next := *c
	for _, o := range opts {
		s, ok := lookup(o.Key)
		if !ok {
			return errors.Errorf("chart: unknown option %q", o.Key)
		}
		if !s.set(&next, o.Value) {
			return errors.Errorf("chart: option %q: unexpected %T", o.Key, o.Value)
		}
	}
	*c = next
	return nil
}

func lookup(key string) (scalar, bool) {
	for _, s := range scalars {
		if s.key == key {
			return s, true
		}
	}
	return scalar{}, false
}

// Parse converts text typed by a user into an option of the same kind as o.
func (o Option) Parse(text string) (Option, error) {
	text = strings.TrimSpace(text)
	switch o.Value.(type) {
	case float64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return o, errors.Errorf("%s: %q is not a number", o.Key, text)
		}
		return Option{Key: o.Key, Value: v}, nil
	case bool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return o, errors.Errorf("%s: %q is not a boolean", o.Key, text)
		}
		return Option{Key: o.Key, Value: v}, nil
	default:
		return Option{Key: o.Key, Value: text}, nil
	}
}

// String formats the value for display.
func (o Option) String() string {
	switch v := o.Value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}
	return fmt.Sprint(o.Value)
}
