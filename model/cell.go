package model

import "fmt"

// AnonymousName marks a cell declared without a meaningful name.
const AnonymousName = "_"

// SetupName is the reserved name of the setup cell.
const SetupName = "setup"

// Variant tags a cell as the distinguished setup cell or a regular one.
type Variant int

const (
	Regular Variant = iota
	Setup
)

func (v Variant) String() string {
	switch v {
	case Setup:
		return "setup"
	default:
		return "regular"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(text []byte) error {
	switch string(text) {
	case "setup":
		*v = Setup
	case "regular", "":
		*v = Regular
	default:
		return fmt.Errorf("unsupported cell variant: %q", text)
	}
	return nil
}

// Kind describes which declaration form produced a cell.
type Kind string

const (
	KindCell       Kind = "cell"
	KindFunction   Kind = "function"
	KindClass      Kind = "class"
	KindUnparsable Kind = "unparsable"
	KindSetup      Kind = "setup"
)

// CellConfig holds the per-cell options declared in the source.
type CellConfig struct {
	HideCode bool `json:"hide_code,omitempty" yaml:"hide_code,omitempty" msgpack:"hide_code,omitempty"`
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty" msgpack:"disabled,omitempty"`
	Column   *int `json:"column,omitempty" yaml:"column,omitempty" msgpack:"column,omitempty"`
}

// Cell is one parsed cell definition. It is immutable once the parser
// returns it.
type Cell struct {
	Name    string     `json:"name" yaml:"name"`
	Code    string     `json:"code" yaml:"code"`
	Args    []string   `json:"args,omitempty" yaml:"args,omitempty"`
	Kind    Kind       `json:"kind" yaml:"kind"`
	Variant Variant    `json:"variant" yaml:"variant"`
	Config  CellConfig `json:"config" yaml:"config"`
	// Line is the 1-based source line of the declaration, 0 for cells
	// created at runtime.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
}

// IsSetup reports whether c is the setup cell.
func (c *Cell) IsSetup() bool {
	return c != nil && c.Variant == Setup
}

// Clone returns a copy of c.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	ret := *c
	if c.Args != nil {
		ret.Args = append([]string(nil), c.Args...)
	}
	if c.Config.Column != nil {
		column := *c.Config.Column
		ret.Config.Column = &column
	}
	return &ret
}
