package nbcell

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/runtime/registry"
	"github.com/viant/nbcell/service/converter"
	"github.com/viant/nbcell/service/dao"
	"github.com/viant/nbcell/service/dao/document/fs"
	"github.com/viant/nbcell/service/messaging"
	"github.com/viant/nbcell/service/meta"
)

// Service is the entry point tying source loading, conversion, sessions and
// snapshot persistence together.
type Service struct {
	config        *Config
	logger        *slog.Logger
	runtime       *Runtime
	converter     *converter.Service
	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option
	documentDAO   dao.Service[string, model.Document]
	listeners     []registry.Listener
	changes       messaging.Queue[model.Change]
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.documentDAO == nil && s.config.Document.URL != "" {
		documentDAO, err := fs.New(s.config.Document.URL,
			fs.WithFormat(s.config.Format()),
			fs.WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.documentDAO = documentDAO
	}
	s.converter = converter.New(
		converter.WithGeneratorOptions(s.config.GeneratorOptions()...),
		converter.WithLogger(s.logger))
	s.runtime = newRuntime(s)
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

// Runtime returns the session runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Convert converts notebook source into a document with freshly assigned ids.
func (s *Service) Convert(ctx context.Context, source []byte) (*model.Document, error) {
	return s.converter.Convert(ctx, source)
}

// ConvertURL downloads and converts a notebook. The document is named after
// the file.
func (s *Service) ConvertURL(ctx context.Context, URL string) (*model.Document, error) {
	source, err := s.metaService.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	doc, err := s.converter.Convert(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", URL, err)
	}
	doc.Name = NotebookName(URL)
	return doc, nil
}

// Snapshot serialises the current state of a session and, when a document
// DAO is configured, persists it.
func (s *Service) Snapshot(ctx context.Context, sessionID string) (*model.Document, error) {
	session, err := s.runtime.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	doc := session.Registry.Document()
	doc.Name = session.Name
	if s.documentDAO == nil {
		return doc, nil
	}
	if err = s.documentDAO.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot of session %s: %w", sessionID, err)
	}
	s.logger.Debug("snapshot persisted", "session", sessionID, "name", doc.Name, "cells", len(doc.Cells))
	return doc, nil
}

// Documents returns previously persisted snapshots.
func (s *Service) Documents(ctx context.Context) ([]*model.Document, error) {
	if s.documentDAO == nil {
		return nil, nil
	}
	return s.documentDAO.List(ctx)
}

// NotebookName derives a notebook name from its location.
func NotebookName(URL string) string {
	name := path.Base(URL)
	return strings.TrimSuffix(name, path.Ext(name))
}

// New creates a service.
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), logger: slog.Default()}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
