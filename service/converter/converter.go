// Package converter produces serialised notebook documents from source text
// without any session state. Every conversion draws ids from a brand-new
// generator, so the result equals the ids a fresh session registry binds at
// load time and does not depend on earlier conversions.
package converter

import (
	"context"
	"log/slog"

	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/model/cellid"
	"github.com/viant/nbcell/service/parser"
	"github.com/viant/nbcell/tracing"
)

// Service converts notebook source into documents.
type Service struct {
	parser           *parser.Parser
	generatorOptions []cellid.Option
	logger           *slog.Logger
}

// Option customises a Service.
type Option func(s *Service)

// WithGeneratorOptions sets the options used for every fresh generator.
func WithGeneratorOptions(options ...cellid.Option) Option {
	return func(s *Service) {
		s.generatorOptions = append(s.generatorOptions, options...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a converter service.
func New(options ...Option) *Service {
	s := &Service{logger: slog.Default()}
	for _, option := range options {
		option(s)
	}
	s.parser = parser.New(parser.WithLogger(s.logger))
	return s
}

// Convert converts source with default options.
func Convert(source []byte) (*model.Document, error) {
	return New().Convert(context.Background(), source)
}

// Convert parses source and assigns ids with a fresh generator.
func (s *Service) Convert(ctx context.Context, source []byte) (doc *model.Document, err error) {
	ctx, span := tracing.StartSpan(ctx, "nbcell.convert")
	defer func() { tracing.EndSpan(span, err) }()

	notebook, err := s.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return s.ConvertNotebook(notebook)
}

func (s *Service) parse(ctx context.Context, source []byte) (notebook *model.Notebook, err error) {
	_, span := tracing.StartSpan(ctx, "nbcell.parse")
	defer func() { tracing.EndSpan(span, err) }()
	notebook, err = s.parser.Parse(source)
	if err == nil {
		span.WithInt("cells", notebook.Len())
	}
	return notebook, err
}

// ConvertNotebook assigns ids to an already parsed notebook with a fresh
// generator.
func (s *Service) ConvertNotebook(notebook *model.Notebook) (*model.Document, error) {
	generator := cellid.New(s.generatorOptions...)
	ids, err := model.AssignIDs(generator, notebook.Cells)
	if err != nil {
		s.logger.Error("id assignment failed", "error", err, "cells", notebook.Len())
		return nil, err
	}
	return model.NewDocument(notebook.Header, notebook.Cells, ids), nil
}
