package etl

import (
	"sync"

	"docflow/pkg/models"
)

// ExtractorFactory builds an extractor for a source spec.
type ExtractorFactory func(spec models.SourceSpec) (Extractor, error)

// LoaderFactory builds a loader for a destination spec.
type LoaderFactory func(spec models.DestinationSpec) (Loader, error)

// Registry maps connector type tags to factories. New connectors are added
// through Register* without touching the orchestrator. It is initialized once
// at startup and is safe for concurrent lookups.
type Registry struct {
	mu           sync.RWMutex
	sources      map[models.SourceType]ExtractorFactory
	destinations map[models.DestinationType]LoaderFactory
}

// NewRegistry returns a registry with the mongodb connectors wired and the
// reserved tags registered as not-implemented stubs.
func NewRegistry() *Registry {
	r := &Registry{
		sources:      make(map[models.SourceType]ExtractorFactory),
		destinations: make(map[models.DestinationType]LoaderFactory),
	}

	r.RegisterSource(models.SourceMongoDB, func(spec models.SourceSpec) (Extractor, error) {
		return NewMongoExtractor(spec), nil
	})
	r.RegisterDestination(models.DestinationMongoDB, func(spec models.DestinationSpec) (Loader, error) {
		return NewMongoLoader(spec), nil
	})

	// Reserved connector tags. Registered so they fail with a distinct
	// not-implemented error instead of an unsupported-type error.
	for _, t := range []models.SourceType{models.SourcePostgreSQL, models.SourceMySQL, models.SourceAPI, models.SourceFile} {
		r.RegisterSource(t, stubExtractorFactory(t))
	}
	for _, t := range []models.DestinationType{models.DestinationPostgreSQL, models.DestinationMySQL, models.DestinationS3, models.DestinationBigQuery} {
		r.RegisterDestination(t, stubLoaderFactory(t))
	}

	return r
}

func stubExtractorFactory(t models.SourceType) ExtractorFactory {
	return func(models.SourceSpec) (Extractor, error) {
		return nil, &NotImplementedError{Role: "source", Type: string(t)}
	}
}

func stubLoaderFactory(t models.DestinationType) LoaderFactory {
	return func(models.DestinationSpec) (Loader, error) {
		return nil, &NotImplementedError{Role: "destination", Type: string(t)}
	}
}

// RegisterSource adds or replaces the factory for a source type tag.
func (r *Registry) RegisterSource(t models.SourceType, f ExtractorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[t] = f
}

// RegisterDestination adds or replaces the factory for a destination type tag.
func (r *Registry) RegisterDestination(t models.DestinationType, f LoaderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destinations[t] = f
}

// Source resolves the extractor factory for a tag.
func (r *Registry) Source(t models.SourceType) (ExtractorFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.sources[t]
	if !ok {
		supported := make([]string, 0, len(r.sources))
		for tag := range r.sources {
			supported = append(supported, string(tag))
		}
		return nil, &UnsupportedTypeError{Role: "source", Type: string(t), Supported: supported}
	}
	return f, nil
}

// Destination resolves the loader factory for a tag.
func (r *Registry) Destination(t models.DestinationType) (LoaderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.destinations[t]
	if !ok {
		supported := make([]string, 0, len(r.destinations))
		for tag := range r.destinations {
			supported = append(supported, string(tag))
		}
		return nil, &UnsupportedTypeError{Role: "destination", Type: string(t), Supported: supported}
	}
	return f, nil
}
