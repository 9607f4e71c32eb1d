// Package fs stores notebook documents as files through afs, one file per
// document name.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/service/converter"
	"github.com/viant/nbcell/service/dao"
)

// Service implements a filesystem-based document storage
type Service struct {
	basePath string
	fs       afs.Service
	format   converter.Format
	logger   *slog.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, model.Document] = (*Service)(nil)

// Option customises the storage service.
type Option func(s *Service)

// WithFS sets the afs service used for storage.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithFormat sets the document encoding.
func WithFormat(format converter.Format) Option {
	return func(s *Service) { s.format = format }
}

// WithLogger sets the logger used to report unreadable files on List.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Save persists a document under its name.
func (s *Service) Save(ctx context.Context, doc *model.Document) error {
	if doc == nil {
		return dao.ErrNilEntity
	}
	if doc.Name == "" {
		return dao.ErrInvalidID
	}
	data, err := converter.Encode(doc, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.documentPath(doc.Name)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save document to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a document by name.
func (s *Service) Load(ctx context.Context, name string) (*model.Document, error) {
	if name == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.documentPath(name)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if document exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("document %s: %w", name, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return converter.Decode(data, s.format)
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, name string) error {
	if name == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.documentPath(name)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if document exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("document %s: %w", name, dao.ErrNotFound)
	}
	if err = s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete document file: %w", err)
	}
	return nil
}

// List returns every readable document in the base path.
func (s *Service) List(ctx context.Context) ([]*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list document files: %w", err)
	}
	ext := s.format.Extension()
	var documents []*model.Document
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ext) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "url", object.URL(), "error", err)
			continue
		}
		doc, err := converter.Decode(data, s.format)
		if err != nil {
			s.logger.Warn("skipping undecodable document", "url", object.URL(), "error", err)
			continue
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func (s *Service) documentPath(name string) string {
	return url.Join(s.basePath, path.Base(name)+s.format.Extension())
}

// New creates a filesystem document storage rooted at basePath.
func New(basePath string, options ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	s := &Service{format: converter.FormatJSON, logger: slog.Default()}
	for _, opt := range options {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if _, err := converter.ParseFormat(string(s.format)); err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, _ := s.fs.Exists(ctx, basePath)
	if !exists {
		if err := s.fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	s.basePath = url.Normalize(basePath, file.Scheme)
	return s, nil
}
