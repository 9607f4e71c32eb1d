package nbcell

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/runtime/registry"
	"github.com/viant/nbcell/service/dao"
	"github.com/viant/nbcell/service/dao/store"
	"github.com/viant/nbcell/service/parser"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is one open notebook bound to its cell registry.
type Session struct {
	ID       string
	Name     string
	URL      string
	Registry *registry.Registry
}

// Runtime manages open notebook sessions.
type Runtime struct {
	service  *Service
	parser   *parser.Parser
	sessions *store.MemoryStore[string, Session]
}

func newRuntime(service *Service) *Runtime {
	return &Runtime{
		service:  service,
		parser:   parser.New(parser.WithLogger(service.logger)),
		sessions: store.NewMemoryStore[string, Session](func(s *Session) string { return s.ID }),
	}
}

// OpenSession downloads the notebook at URL and loads it into a new session.
func (r *Runtime) OpenSession(ctx context.Context, URL string) (*Session, error) {
	source, err := r.service.metaService.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	session, err := r.OpenSessionSource(ctx, NotebookName(URL), source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", URL, err)
	}
	session.URL = r.service.metaService.URL(URL)
	return session, nil
}

// OpenSessionSource parses source and loads it into a new session.
func (r *Runtime) OpenSessionSource(ctx context.Context, name string, source []byte) (*Session, error) {
	notebook, err := r.parser.Parse(source)
	if err != nil {
		return nil, err
	}
	listeners := append([]registry.Listener{}, r.service.listeners...)
	if r.service.changes != nil {
		listeners = append(listeners, r.publishCellChange)
	}
	reg := registry.New(
		registry.WithGeneratorOptions(r.service.config.GeneratorOptions()...),
		registry.WithLogger(r.service.logger),
		registry.WithListeners(listeners...))
	if err = reg.Load(ctx, notebook); err != nil {
		return nil, err
	}
	session := &Session{ID: reg.ID(), Name: name, Registry: reg}
	if err = r.sessions.Save(ctx, session); err != nil {
		_ = reg.Close()
		return nil, err
	}
	r.service.logger.Info("session opened", "session", session.ID, "name", name, "cells", reg.Len())
	r.publish(ctx, &model.Change{SessionID: session.ID, Type: model.ChangeOpened, Name: name, IDs: reg.CellIDs()})
	return session, nil
}

// Session returns an open session.
func (r *Runtime) Session(ctx context.Context, id string) (*Session, error) {
	session, err := r.sessions.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, err
}

// Sessions returns all open sessions in the order they were opened.
func (r *Runtime) Sessions(ctx context.Context) ([]*Session, error) {
	return r.sessions.List(ctx)
}

// CloseSession closes the session registry and forgets the session.
func (r *Runtime) CloseSession(ctx context.Context, id string) error {
	session, err := r.Session(ctx, id)
	if err != nil {
		return err
	}
	if err = r.sessions.Delete(ctx, id); err != nil {
		return err
	}
	r.service.logger.Info("session closed", "session", id)
	err = session.Registry.Close()
	r.publish(ctx, &model.Change{SessionID: id, Type: model.ChangeClosed, Name: session.Name})
	return err
}

func (r *Runtime) publishCellChange(reg *registry.Registry, event *registry.Event) {
	change := &model.Change{SessionID: reg.ID(), CellID: event.ID}
	if event.Cell != nil {
		change.Name = event.Cell.Name
	}
	switch event.Type {
	case registry.EventCreated:
		change.Type = model.ChangeCellCreated
	case registry.EventDeleted:
		change.Type = model.ChangeCellDeleted
	}
	r.publish(context.Background(), change)
}

// publish is a no-op without a change queue; failures are logged.
func (r *Runtime) publish(ctx context.Context, change *model.Change) {
	if r.service.changes == nil {
		return
	}
	if err := r.service.changes.Publish(ctx, change); err != nil {
		r.service.logger.Warn("failed to publish session change", "session", change.SessionID, "type", change.Type, "error", err)
	}
}
