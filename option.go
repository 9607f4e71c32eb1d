package nbcell

import (
	"log/slog"

	"github.com/viant/afs/storage"
	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/runtime/registry"
	"github.com/viant/nbcell/service/dao"
	"github.com/viant/nbcell/service/messaging"
	"github.com/viant/nbcell/service/meta"
	"github.com/viant/nbcell/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service.
type Option func(s *Service)

// WithConfig sets the configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the structured logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the base URL relative notebook locations resolve against.
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithDocumentDAO sets where snapshots are persisted.
func WithDocumentDAO(dao dao.Service[string, model.Document]) Option {
	return func(s *Service) {
		s.documentDAO = dao
	}
}

// WithRegistryListeners registers listeners on every session registry.
func WithRegistryListeners(listeners ...registry.Listener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listeners...)
	}
}

// WithChangeQueue publishes session changes to queue.
func WithChangeQueue(queue messaging.Queue[model.Change]) Option {
	return func(s *Service) {
		s.changes = queue
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
