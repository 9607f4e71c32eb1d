package registry

import (
	"errors"
	"fmt"

	"github.com/viant/nbcell/model/cellid"
)

var (
	// ErrCellNotFound is matched by every LookupError.
	ErrCellNotFound = errors.New("registry: cell not found")
	// ErrNotLoaded is returned by mutations before Load.
	ErrNotLoaded = errors.New("registry: notebook not loaded")
	// ErrAlreadyLoaded is returned by a second Load.
	ErrAlreadyLoaded = errors.New("registry: notebook already loaded")
	// ErrClosed is returned by any operation after Close.
	ErrClosed = errors.New("registry: closed")
	// ErrSetupExists is returned when creating a second setup cell.
	ErrSetupExists = errors.New("registry: setup cell already exists")
)

// LookupError reports an operation on an id that is not live.
type LookupError struct {
	ID cellid.ID
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("registry: cell %q not found", e.ID)
}

// Unwrap allows errors.Is(err, ErrCellNotFound).
func (e *LookupError) Unwrap() error { return ErrCellNotFound }
