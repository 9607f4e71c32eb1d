package model

import (
	"errors"
	"fmt"

	"github.com/viant/nbcell/model/cellid"
)

// ErrMisplacedSetup is returned when a setup cell is not the first cell.
var ErrMisplacedSetup = errors.New("setup cell must be the first cell")

// Header carries the notebook-level metadata found before the first cell.
type Header struct {
	GeneratedWith string `json:"generatedWith,omitempty" yaml:"generatedWith,omitempty"`
	AppOptions    string `json:"appOptions,omitempty" yaml:"appOptions,omitempty"`
}

// Notebook is the ordered intermediate representation produced by the
// parser. Cell order is declaration order and is the only input to id
// assignment.
type Notebook struct {
	Header Header  `json:"header" yaml:"header"`
	Cells  []*Cell `json:"cells" yaml:"cells"`
}

// Setup returns the setup cell, or nil.
func (n *Notebook) Setup() *Cell {
	if n == nil || len(n.Cells) == 0 {
		return nil
	}
	if n.Cells[0].IsSetup() {
		return n.Cells[0]
	}
	return nil
}

// Len returns the number of cells.
func (n *Notebook) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Cells)
}

// AssignIDs binds an identifier to every cell in order. The setup cell takes
// cellid.SetupID without consuming gen; every other cell draws the next id
// from gen. Only cells[0] may be a setup cell; otherwise nothing is drawn
// and ErrMisplacedSetup is returned.
func AssignIDs(gen *cellid.Generator, cells []*Cell) ([]cellid.ID, error) {
	for i := 1; i < len(cells); i++ {
		if cells[i].IsSetup() {
			return nil, fmt.Errorf("%w: found at index %d", ErrMisplacedSetup, i)
		}
	}
	ids := make([]cellid.ID, 0, len(cells))
	for _, cell := range cells {
		if cell.IsSetup() {
			ids = append(ids, cellid.SetupID)
			continue
		}
		id, err := gen.Create()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
