// Package parser turns notebook source into the ordered cell IR and performs
// the one classification of each cell as setup or regular.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/service/lexer"
)

// ErrParse is returned when source cannot be decomposed into declarations.
var ErrParse = errors.New("parser: malformed notebook")

// Error describes a parse failure.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser: line %d: %s", e.Line, e.Msg)
}

// Unwrap allows errors.Is(err, ErrParse).
func (e *Error) Unwrap() error { return ErrParse }

// Parser converts source text into a model.Notebook.
type Parser struct {
	logger *slog.Logger
}

// Option customises a Parser.
type Option func(p *Parser)

// WithLogger sets the logger used to report demoted setup candidates.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser.
func New(options ...Option) *Parser {
	p := &Parser{logger: slog.Default()}
	for _, option := range options {
		option(p)
	}
	return p
}

// Parse parses source with a default Parser.
func Parse(source []byte) (*model.Notebook, error) {
	return New().Parse(source)
}

// Parse returns the ordered cell definitions declared in source. A source
// without cells yields an empty notebook.
func (p *Parser) Parse(source []byte) (*model.Notebook, error) {
	result, err := lexer.Lex(source)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, &Error{Line: lexErr.Line, Msg: lexErr.Msg}
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	notebook := &model.Notebook{
		Header: model.Header{
			GeneratedWith: result.Header.GeneratedWith,
			AppOptions:    result.Header.AppOptions,
		},
		Cells: make([]*model.Cell, 0, len(result.Declarations)),
	}
	for _, declaration := range result.Declarations {
		cell, err := newCell(declaration)
		if err != nil {
			return nil, err
		}
		notebook.Cells = append(notebook.Cells, cell)
	}
	p.classify(notebook.Cells)
	return notebook, nil
}

// classify tags at most one cell as Setup. The setup block is canonical only
// when it is the first cell; a first generic cell named "setup" is accepted
// as the setup cell too. Later candidates stay Regular.
func (p *Parser) classify(cells []*model.Cell) {
	for i, cell := range cells {
		candidate := cell.Kind == model.KindSetup || (i == 0 && cell.Name == model.SetupName)
		if !candidate {
			continue
		}
		if i == 0 {
			cell.Variant = model.Setup
			continue
		}
		p.logger.Warn("setup candidate demoted to regular cell",
			"line", cell.Line, "name", cell.Name, "index", i)
	}
}

func newCell(declaration *lexer.Declaration) (*model.Cell, error) {
	config, err := cellConfig(declaration.Options)
	if err != nil {
		return nil, &Error{Line: declaration.Line, Msg: err.Error()}
	}
	name := declaration.Name
	if name == "" {
		name = model.AnonymousName
	}
	return &model.Cell{
		Name:   name,
		Code:   declaration.Body,
		Args:   declaration.Args,
		Kind:   kindOf(declaration.Kind),
		Config: config,
		Line:   declaration.Line,
	}, nil
}

func kindOf(kind lexer.Kind) model.Kind {
	switch kind {
	case lexer.KindSetup:
		return model.KindSetup
	case lexer.KindFunction:
		return model.KindFunction
	case lexer.KindClass:
		return model.KindClass
	case lexer.KindUnparsable:
		return model.KindUnparsable
	default:
		return model.KindCell
	}
}

func cellConfig(options map[string]string) (model.CellConfig, error) {
	var config model.CellConfig
	var err error
	for key, value := range options {
		switch strings.ToLower(key) {
		case "hide_code":
			config.HideCode, err = parseBool(key, value)
		case "disabled":
			config.Disabled, err = parseBool(key, value)
		case "column":
			if value == "None" {
				continue
			}
			var column int
			if column, err = strconv.Atoi(value); err != nil {
				err = fmt.Errorf("invalid column %q", value)
			} else {
				config.Column = &column
			}
		}
		if err != nil {
			return config, err
		}
	}
	return config, nil
}

func parseBool(key, value string) (bool, error) {
	switch value {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s value %q", key, value)
}
