package lexer

import "fmt"

// Error reports a source that cannot be split into declarations.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
