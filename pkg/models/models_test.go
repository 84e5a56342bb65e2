package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationSpecMergeKeyFallback(t *testing.T) {
	def := PipelineDefinition{
		DestinationType: DestinationMongoDB,
		LoadType:        LoadTypeIncremental,
	}

	def.IncrementalKey = "updated_at"
	assert.Equal(t, "updated_at", def.DestinationSpec().MergeKey)

	def.IncrementalKey = ""
	def.PrimaryKey = "customer_id"
	assert.Equal(t, "customer_id", def.DestinationSpec().MergeKey)

	def.PrimaryKey = ""
	assert.Equal(t, "_id", def.DestinationSpec().MergeKey)
}

func TestSourceSpecCarriesQueryAndAggregation(t *testing.T) {
	def := PipelineDefinition{
		SourceType:        SourceMongoDB,
		SourceURI:         "mongodb://localhost:27017",
		SourceDatabase:    "university",
		SourceCollection:  "people",
		SourceFilterQuery: map[string]interface{}{"active": true},
		AggregationQuery:  []map[string]interface{}{{"$limit": 100}},
	}

	spec := def.SourceSpec()

	assert.Equal(t, SourceMongoDB, spec.Type)
	assert.Equal(t, "people", spec.Collection)
	assert.Equal(t, map[string]interface{}{"active": true}, spec.Query)
	assert.Len(t, spec.Aggregation, 1)
}

func TestExecutionStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusRunning.IsTerminal())
	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}
