package etl

import "context"

// Record is one document flowing through the pipeline.
type Record map[string]interface{}

// Extractor pulls documents from a source in bounded chunks and hands each
// chunk to emit. Returning an error from emit aborts the extraction.
type Extractor interface {
	Extract(ctx context.Context, emit func(chunk []Record) error) error
}

// Loader writes a chunk of documents to the destination. Implementations
// split the chunk into their own write batches.
type Loader interface {
	Load(ctx context.Context, docs []Record) (*BatchResult, error)
}

// Closer is implemented by connectors that hold a connection across calls.
type Closer interface {
	Close(ctx context.Context) error
}

// BatchResult reports the outcome of loading one chunk.
type BatchResult struct {
	Inserted int64
	Updated  int64
	Failed   int64
	// LoadIDs are the destination-assigned identifiers of the committed
	// write batches.
	LoadIDs []string
}

// LoadResult is the aggregate outcome of one pipeline run.
type LoadResult struct {
	RowsProcessed int64
	RowsInserted  int64
	RowsUpdated   int64
	RowsFailed    int64
	LoadIDs       []string
}
