// Package etl implements the pipeline execution core: chunked extraction,
// field masking, batched loading and the connector registry that ties source
// and destination type tags to their implementations.
package etl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docflow/pkg/models"
)

// Pipeline composes an extractor, the masker and a loader into one run. It
// depends only on the registry, never on a hardcoded connector list.
type Pipeline struct {
	registry *Registry
	log      *zap.Logger
}

func NewPipeline(registry *Registry, log *zap.Logger) *Pipeline {
	return &Pipeline{registry: registry, log: log}
}

// Run validates the connector tags, resolves both connectors and streams the
// source into the destination chunk by chunk, masking each record on the way.
// Errors from any stage propagate to the caller unmodified; recording failure
// state is the execution tracker's job, not ours.
func (p *Pipeline) Run(ctx context.Context, source models.SourceSpec, destination models.DestinationSpec,
	masking models.MaskingConfig, runName string) (*LoadResult, error) {

	sourceFactory, err := p.registry.Source(source.Type)
	if err != nil {
		return nil, err
	}
	loaderFactory, err := p.registry.Destination(destination.Type)
	if err != nil {
		return nil, err
	}

	extractor, err := sourceFactory(source)
	if err != nil {
		return nil, err
	}
	if c, ok := extractor.(Closer); ok {
		defer c.Close(context.Background())
	}

	loader, err := loaderFactory(destination)
	if err != nil {
		return nil, err
	}
	if c, ok := loader.(Closer); ok {
		defer c.Close(context.Background())
	}

	masker := NewMasker(masking)
	result := &LoadResult{}
	start := time.Now()

	p.log.Info("starting pipeline run",
		zap.String("run", runName),
		zap.String("source", string(source.Type)),
		zap.String("destination", string(destination.Type)))

	err = extractor.Extract(ctx, func(chunk []Record) error {
		for i := range chunk {
			chunk[i] = masker.Apply(chunk[i])
		}

		batch, err := loader.Load(ctx, chunk)
		if err != nil {
			return err
		}

		result.RowsProcessed += int64(len(chunk))
		result.RowsInserted += batch.Inserted
		result.RowsUpdated += batch.Updated
		result.RowsFailed += batch.Failed
		result.LoadIDs = append(result.LoadIDs, batch.LoadIDs...)

		p.log.Info("chunk loaded",
			zap.String("run", runName),
			zap.Int("chunk_size", len(chunk)),
			zap.Int64("total_processed", result.RowsProcessed))
		return nil
	})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	rate := 0.0
	if elapsed.Seconds() > 0 {
		rate = float64(result.RowsProcessed) / elapsed.Seconds()
	}
	p.log.Info("pipeline run finished",
		zap.String("run", runName),
		zap.Int64("rows_processed", result.RowsProcessed),
		zap.Int64("rows_inserted", result.RowsInserted),
		zap.Float64("docs_per_sec", rate))

	return result, nil
}
