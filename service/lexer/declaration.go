package lexer

// Kind identifies the declaration form.
type Kind string

const (
	KindSetup      Kind = "setup"
	KindCell       Kind = "cell"
	KindFunction   Kind = "function"
	KindClass      Kind = "class"
	KindUnparsable Kind = "unparsable"
)

// Declaration is one top-level notebook declaration.
type Declaration struct {
	Kind    Kind
	Name    string
	Args    []string
	Options map[string]string
	// Body is the cell code: the dedented block for setup blocks and cells
	// (without the trailing return), the whole definition for functions and
	// classes, the literal text for unparsable cells.
	Body string
	Line int
}

// IsSetupBlock reports whether d was declared with the dedicated setup syntax.
func (d *Declaration) IsSetupBlock() bool {
	return d.Kind == KindSetup
}

// Header holds notebook-level assignments found outside of cells.
type Header struct {
	GeneratedWith string
	AppOptions    string
}

// Result is the lexer output.
type Result struct {
	Header       Header
	Declarations []*Declaration
}
