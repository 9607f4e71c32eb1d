package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/viant/nbcell/internal/idgen"
	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/model/cellid"
	"github.com/viant/nbcell/tracing"
)

// EventType describes a registry mutation.
type EventType string

const (
	EventCreated EventType = "created"
	EventDeleted EventType = "deleted"
)

// Event is passed to listeners after a mutation completes.
type Event struct {
	Type EventType
	ID   cellid.ID
	Cell *model.Cell
}

// Listener is invoked after every CreateCell and DeleteCell, outside of the
// registry lock. Listeners may call back into the registry.
type Listener func(r *Registry, event *Event)

// Registry maps live cell ids to cell definitions for one session. All
// operations are serialised by a single mutex.
type Registry struct {
	id               string
	mu               sync.Mutex
	state            State
	generator        *cellid.Generator
	generatorOptions []cellid.Option
	header           model.Header
	order            []cellid.ID
	cells            map[cellid.ID]*model.Cell
	listeners        []Listener
	logger           *slog.Logger
}

// New creates an uninitialised registry with its own generator.
func New(options ...Option) *Registry {
	r := &Registry{
		cells:  map[cellid.ID]*model.Cell{},
		logger: slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	if r.id == "" {
		r.id = idgen.New()
	}
	r.generator = cellid.New(r.generatorOptions...)
	r.logger = r.logger.With("session", r.id)
	return r
}

// ID returns the session id.
func (r *Registry) ID() string {
	return r.id
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// RegisterListeners attaches callbacks notified after every mutation.
func (r *Registry) RegisterListeners(fn ...Listener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn...)
}

// Load binds ids to the notebook cells in order. The setup cell takes
// cellid.SetupID; every other cell draws from the registry generator. A
// misplaced setup cell is rejected before any draw and leaves the registry
// unloaded; any other failure closes it since its generator is consumed.
func (r *Registry) Load(ctx context.Context, notebook *model.Notebook) (err error) {
	_, span := tracing.StartSpan(ctx, "registry.load")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"session": r.id})

	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case Closed:
		return ErrClosed
	case Loaded, Mutating:
		return ErrAlreadyLoaded
	}
	var cells []*model.Cell
	if notebook != nil {
		cells = notebook.Cells
		r.header = notebook.Header
	}
	ids, err := model.AssignIDs(r.generator, cells)
	if errors.Is(err, model.ErrMisplacedSetup) {
		return err
	}
	if err != nil {
		r.state = Closed
		r.logger.Error("notebook load failed", "error", err, "cells", len(cells))
		return err
	}
	r.order = ids
	for i, id := range ids {
		r.cells[id] = cells[i]
	}
	r.state = Loaded
	span.WithInt("cells", len(ids))
	r.logger.Debug("notebook loaded", "cells", len(ids))
	return nil
}

// CreateCell registers a new cell and returns its id. Regular cells are
// appended and draw the next id from the session generator; a setup cell is
// placed first and takes cellid.SetupID.
func (r *Registry) CreateCell(ctx context.Context, cell *model.Cell) (id cellid.ID, err error) {
	_, span := tracing.StartSpan(ctx, "registry.create")
	defer func() { tracing.EndSpan(span, err) }()

	if cell == nil {
		cell = &model.Cell{Name: model.AnonymousName, Kind: model.KindCell}
	}
	r.mu.Lock()
	if err = r.beginMutation(); err != nil {
		r.mu.Unlock()
		return "", err
	}
	id, err = r.create(cell)
	r.state = Loaded
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	span.WithAttributes(map[string]string{"cell": string(id)})
	r.logger.Debug("cell created", "cell", id, "name", cell.Name)
	r.notify(listeners, &Event{Type: EventCreated, ID: id, Cell: cell})
	return id, nil
}

func (r *Registry) create(cell *model.Cell) (cellid.ID, error) {
	if cell.IsSetup() {
		if _, ok := r.cells[cellid.SetupID]; ok {
			return "", ErrSetupExists
		}
		r.cells[cellid.SetupID] = cell
		r.order = append([]cellid.ID{cellid.SetupID}, r.order...)
		return cellid.SetupID, nil
	}
	id, err := r.generator.Create()
	if err != nil {
		return "", err
	}
	r.cells[id] = cell
	r.order = append(r.order, id)
	return id, nil
}

// DeleteCell removes a live cell. Its id stays recorded by the generator and
// is never issued again.
func (r *Registry) DeleteCell(ctx context.Context, id cellid.ID) (err error) {
	_, span := tracing.StartSpan(ctx, "registry.delete")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"cell": string(id)})

	r.mu.Lock()
	if err = r.beginMutation(); err != nil {
		r.mu.Unlock()
		return err
	}
	cell, ok := r.cells[id]
	if !ok {
		r.state = Loaded
		r.mu.Unlock()
		return &LookupError{ID: id}
	}
	delete(r.cells, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.state = Loaded
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	r.logger.Debug("cell deleted", "cell", id)
	r.notify(listeners, &Event{Type: EventDeleted, ID: id, Cell: cell})
	return nil
}

// beginMutation must be called with the lock held.
func (r *Registry) beginMutation() error {
	switch r.state {
	case Uninitialized:
		return ErrNotLoaded
	case Closed:
		return ErrClosed
	}
	r.state = Mutating
	return nil
}

func (r *Registry) notify(listeners []Listener, event *Event) {
	for _, fn := range listeners {
		fn(r, event)
	}
}

// CellIDs returns the live ids in registry order.
func (r *Registry) CellIDs() []cellid.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]cellid.ID, len(r.order))
	copy(ret, r.order)
	return ret
}

// Cell returns a copy of the live cell bound to id.
func (r *Registry) Cell(id cellid.ID) (*model.Cell, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cell, ok := r.cells[id]
	if !ok {
		return nil, &LookupError{ID: id}
	}
	return cell.Clone(), nil
}

// Len returns the number of live cells.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// SeenIDs returns every id the session generator has issued, including ids
// of deleted cells.
func (r *Registry) SeenIDs() []cellid.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generator.SeenIDs()
}

// Document returns the live cells as a serialised document in registry
// order. Unlike a snapshot conversion it reflects session mutations.
func (r *Registry) Document() *model.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	cells := make([]*model.Cell, len(r.order))
	for i, id := range r.order {
		cells[i] = r.cells[id]
	}
	return model.NewDocument(r.header, cells, r.order)
}

// Close releases the session. Any later operation fails with ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Closed {
		return ErrClosed
	}
	r.state = Closed
	r.order = nil
	r.cells = map[cellid.ID]*model.Cell{}
	r.logger.Debug("session closed")
	return nil
}
