package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/pkg/models"
)

func validDefinition() *models.PipelineDefinition {
	return &models.PipelineDefinition{
		Name:                  "people-sync",
		SourceType:            models.SourceMongoDB,
		SourceURI:             "mongodb://localhost:27017",
		SourceDatabase:        "university",
		SourceCollection:      "people",
		DestinationType:       models.DestinationMongoDB,
		DestinationURI:        "mongodb://localhost:27017",
		DestinationDatabase:   "analytics",
		DestinationCollection: "people_copy",
		LoadType:              models.LoadTypeFull,
		IsEnabled:             true,
		IsActive:              true,
	}
}

func TestValidateDefinitionAcceptsFullLoad(t *testing.T) {
	require.NoError(t, ValidateDefinition(validDefinition()))
}

func TestValidateDefinitionIncrementalRequiresKey(t *testing.T) {
	def := validDefinition()
	def.LoadType = models.LoadTypeIncremental
	def.IncrementalStrategy = models.StrategyUpsert
	def.IncrementalKey = ""

	err := ValidateDefinition(def)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "incremental_key")
}

func TestValidateDefinitionIncrementalWithKey(t *testing.T) {
	def := validDefinition()
	def.LoadType = models.LoadTypeIncremental
	def.IncrementalStrategy = models.StrategyMerge
	def.IncrementalKey = "updated_at"

	require.NoError(t, ValidateDefinition(def))
}

func TestValidateDefinitionRejectsUnknownStrategy(t *testing.T) {
	def := validDefinition()
	def.LoadType = models.LoadTypeIncremental
	def.IncrementalKey = "updated_at"
	def.IncrementalStrategy = "overwrite"

	assert.ErrorIs(t, ValidateDefinition(def), ErrInvalidDefinition)
}

func TestValidateDefinitionRejectsUnknownMaskRule(t *testing.T) {
	def := validDefinition()
	def.MaskingConfig = models.MaskingConfig{"ssn": "encrypt"}

	err := ValidateDefinition(def)

	require.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "ssn")
}

func TestValidateDefinitionRequiresLocators(t *testing.T) {
	def := validDefinition()
	def.DestinationURI = ""

	assert.ErrorIs(t, ValidateDefinition(def), ErrInvalidDefinition)
}
