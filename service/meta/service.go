// Package meta loads notebook sources and configuration through afs, so that
// any afs-supported location (file, mem, embed, cloud storage) can be used.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves locations against a base URL and reads or writes them.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// URL resolves location: ${env.KEY} expressions are expanded and relative
// locations are joined with the base URL.
func (s *Service) URL(location string) string {
	location = expandEnvExpr(location)
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download returns the content at location.
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	return data, nil
}

// Upload writes data to location.
func (s *Service) Upload(ctx context.Context, location string, data []byte) error {
	URL := s.URL(location)
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", URL, err)
	}
	return nil
}

// Load decodes the YAML or JSON content at location into target. A
// *yaml.Node target receives the raw node tree.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		err = json.Unmarshal(data, target)
	default:
		err = yaml.Unmarshal(data, target)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return nil
}
