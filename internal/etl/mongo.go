package etl

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"docflow/pkg/database"
	"docflow/pkg/models"
	"docflow/pkg/utils"
)

// DefaultChunkSize bounds peak memory during extraction: documents are pulled
// from the source cursor and emitted downstream in groups of this size.
const DefaultChunkSize = 10_000

// DefaultBatchSize bounds the size of one destination write round-trip.
const DefaultBatchSize = 1_000

// MongoExtractor pulls documents from a MongoDB collection, either through an
// aggregation pipeline or a filter query. The aggregation pipeline takes
// precedence when both are configured.
type MongoExtractor struct {
	spec      models.SourceSpec
	chunkSize int
}

func NewMongoExtractor(spec models.SourceSpec) *MongoExtractor {
	return &MongoExtractor{spec: spec, chunkSize: DefaultChunkSize}
}

// Extract streams the collection in chunks. Every document is normalized to
// JSON-portable values before it is handed to emit. Any cursor or decode
// error aborts the sequence; there is no partial-chunk retry here.
func (m *MongoExtractor) Extract(ctx context.Context, emit func(chunk []Record) error) error {
	client, err := database.ConnectMongo(ctx, m.spec.URI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(m.spec.Database).Collection(m.spec.Collection)

	var cursor *mongo.Cursor
	if len(m.spec.Aggregation) > 0 {
		stages := make([]interface{}, len(m.spec.Aggregation))
		for i, stage := range m.spec.Aggregation {
			stages[i] = stage
		}
		cursor, err = coll.Aggregate(ctx, stages)
	} else {
		filter := m.spec.Query
		if filter == nil {
			filter = map[string]interface{}{}
		}
		cursor, err = coll.Find(ctx, filter)
	}
	if err != nil {
		return fmt.Errorf("extraction from %s.%s failed: %w", m.spec.Database, m.spec.Collection, err)
	}
	defer cursor.Close(ctx)

	chunk := make([]Record, 0, m.chunkSize)
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode document from %s.%s: %w", m.spec.Database, m.spec.Collection, err)
		}
		chunk = append(chunk, utils.NormalizeDocument(doc))

		if len(chunk) == m.chunkSize {
			if err := emit(chunk); err != nil {
				return err
			}
			chunk = make([]Record, 0, m.chunkSize)
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("source cursor failed: %w", err)
	}

	if len(chunk) > 0 {
		return emit(chunk)
	}
	return nil
}

// MongoLoader writes documents into a MongoDB collection in fixed-size
// batches. The write mode follows the destination spec: full loads and the
// append strategy insert unconditionally, merge/upsert write by merge key,
// replace clears the collection before the first batch.
type MongoLoader struct {
	spec      models.DestinationSpec
	batchSize int

	client  *mongo.Client
	cleared bool
}

func NewMongoLoader(spec models.DestinationSpec) *MongoLoader {
	return &MongoLoader{spec: spec, batchSize: DefaultBatchSize}
}

// Load writes docs in batches. An empty chunk is a no-op. A failed batch
// aborts the load; batches committed before the failure stay committed.
func (m *MongoLoader) Load(ctx context.Context, docs []Record) (*BatchResult, error) {
	if len(docs) == 0 {
		return &BatchResult{}, nil
	}

	if m.client == nil {
		client, err := database.ConnectMongo(ctx, m.spec.URI)
		if err != nil {
			return nil, err
		}
		m.client = client
	}
	coll := m.client.Database(m.spec.Database).Collection(m.spec.Collection)

	if m.clearFirst() && !m.cleared {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return nil, fmt.Errorf("failed to clear destination %s.%s: %w", m.spec.Database, m.spec.Collection, err)
		}
		m.cleared = true
	}

	result := &BatchResult{}
	for start := 0; start < len(docs); start += m.batchSize {
		end := start + m.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := m.writeBatch(ctx, coll, docs[start:end], result); err != nil {
			return nil, err
		}
		result.LoadIDs = append(result.LoadIDs, uuid.NewString())
	}
	return result, nil
}

// mergeWrites reports whether batches are written as keyed upserts instead of
// plain inserts.
func (m *MongoLoader) mergeWrites() bool {
	return m.spec.LoadType == models.LoadTypeIncremental &&
		(m.spec.Strategy == models.StrategyMerge || m.spec.Strategy == models.StrategyUpsert)
}

// clearFirst reports whether the destination collection is emptied before the
// first batch.
func (m *MongoLoader) clearFirst() bool {
	return m.spec.LoadType == models.LoadTypeIncremental && m.spec.Strategy == models.StrategyReplace
}

func (m *MongoLoader) writeBatch(ctx context.Context, coll *mongo.Collection, batch []Record, result *BatchResult) error {
	if m.mergeWrites() {
		return m.upsertBatch(ctx, coll, batch, result)
	}

	payload := make([]interface{}, len(batch))
	for i, doc := range batch {
		payload[i] = doc
	}
	res, err := coll.InsertMany(ctx, payload)
	if err != nil {
		return fmt.Errorf("insert into %s.%s failed: %w", m.spec.Database, m.spec.Collection, err)
	}
	result.Inserted += int64(len(res.InsertedIDs))
	return nil
}

// upsertModels builds the bulk write models for one batch keyed by the merge
// key. merge patches matched documents with $set; upsert replaces them
// wholesale. Documents missing the merge key are skipped and reported in the
// failed count.
func (m *MongoLoader) upsertModels(batch []Record) ([]mongo.WriteModel, int64) {
	writes := make([]mongo.WriteModel, 0, len(batch))
	var failed int64
	for _, doc := range batch {
		key, ok := doc[m.spec.MergeKey]
		if !ok || key == nil {
			failed++
			continue
		}
		filter := bson.M{m.spec.MergeKey: key}
		if m.spec.Strategy == models.StrategyMerge {
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(filter).
				SetUpdate(bson.M{"$set": doc}).
				SetUpsert(true))
		} else {
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(filter).
				SetReplacement(doc).
				SetUpsert(true))
		}
	}
	return writes, failed
}

func (m *MongoLoader) upsertBatch(ctx context.Context, coll *mongo.Collection, batch []Record, result *BatchResult) error {
	writes, failed := m.upsertModels(batch)
	result.Failed += failed
	if len(writes) == 0 {
		return nil
	}

	res, err := coll.BulkWrite(ctx, writes)
	if err != nil {
		return fmt.Errorf("bulk write into %s.%s failed: %w", m.spec.Database, m.spec.Collection, err)
	}
	result.Inserted += res.UpsertedCount
	result.Updated += res.MatchedCount
	return nil
}

// Close releases the cached destination connection.
func (m *MongoLoader) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
