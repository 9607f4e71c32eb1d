package nbcell

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/nbcell/internal/yml"
	"github.com/viant/nbcell/model/cellid"
	"github.com/viant/nbcell/service/converter"
	"github.com/viant/nbcell/service/meta"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the service configuration.
// Fields left out of a YAML file keep their DefaultConfig values.
type Config struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Document  DocumentConfig  `json:"document" yaml:"document"`
}

type GeneratorConfig struct {
	TokenLength int `json:"tokenLength" yaml:"tokenLength"`
	MaxAttempts int `json:"maxAttempts" yaml:"maxAttempts"`
}

// DocumentConfig controls snapshot encoding. When URL is set snapshots are
// persisted there, one file per notebook.
type DocumentConfig struct {
	Format string `json:"format" yaml:"format"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DefaultConfig returns a Config populated with package defaults.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			TokenLength: cellid.DefaultTokenLength,
			MaxAttempts: cellid.DefaultMaxAttempts,
		},
		Document: DocumentConfig{Format: string(converter.FormatJSON)},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Generator.TokenLength <= 0 {
		errs = append(errs, fmt.Errorf("generator.tokenLength must be > 0"))
	}
	if c.Generator.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("generator.maxAttempts must be > 0"))
	}
	if _, err := converter.ParseFormat(c.Document.Format); err != nil {
		errs = append(errs, fmt.Errorf("document.format: %w", err))
	}
	return errors.Join(errs...)
}

// GeneratorOptions converts the generator section into cellid options.
func (c *Config) GeneratorOptions() []cellid.Option {
	return []cellid.Option{
		cellid.WithTokenLength(c.Generator.TokenLength),
		cellid.WithMaxAttempts(c.Generator.MaxAttempts),
	}
}

// Format returns the configured document format.
func (c *Config) Format() converter.Format {
	format, _ := converter.ParseFormat(c.Document.Format)
	return format
}

// LoadConfig reads a YAML (or JSON) configuration from URL. Keys are matched
// case-insensitively.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	root := &yaml.Node{}
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, root); err != nil {
		return nil, err
	}
	config, err := DecodeConfig((*yml.Node)(root).Root())
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return config, nil
}

// DecodeConfig decodes a configuration mapping on top of DefaultConfig.
func DecodeConfig(node *yml.Node) (*Config, error) {
	config := DefaultConfig()
	if node.Kind == 0 {
		return config, nil
	}
	err := node.Pairs(func(key string, value *yml.Node) error {
		switch key {
		case "generator":
			return value.Pairs(func(key string, value *yml.Node) (err error) {
				switch key {
				case "tokenlength":
					config.Generator.TokenLength, err = value.Int()
				case "maxattempts":
					config.Generator.MaxAttempts, err = value.Int()
				}
				return err
			})
		case "document":
			return value.Pairs(func(key string, value *yml.Node) (err error) {
				switch key {
				case "format":
					config.Document.Format, err = value.String()
				case "url":
					config.Document.URL, err = value.String()
				}
				return err
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return config, config.Validate()
}
