package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/pkg/models"
)

func TestRegistryResolvesMongoDB(t *testing.T) {
	r := NewRegistry()

	srcFactory, err := r.Source(models.SourceMongoDB)
	require.NoError(t, err)
	require.NotNil(t, srcFactory)

	dstFactory, err := r.Destination(models.DestinationMongoDB)
	require.NoError(t, err)
	require.NotNil(t, dstFactory)
}

func TestRegistryUnknownTagListsSupportedTypes(t *testing.T) {
	r := NewRegistry()

	_, err := r.Source(models.SourceType("kafka"))

	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "source", unsupported.Role)
	assert.Equal(t, "kafka", unsupported.Type)
	assert.Contains(t, err.Error(), "mongodb")
	assert.Contains(t, err.Error(), "postgresql")
}

func TestRegistryReservedTagsAreNotImplemented(t *testing.T) {
	r := NewRegistry()

	for _, tag := range []models.SourceType{models.SourcePostgreSQL, models.SourceMySQL, models.SourceAPI, models.SourceFile} {
		factory, err := r.Source(tag)
		require.NoError(t, err, "tag %s should be registered", tag)

		_, err = factory(models.SourceSpec{Type: tag})
		var notImplemented *NotImplementedError
		require.ErrorAs(t, err, &notImplemented, "tag %s should be a stub", tag)
		assert.Equal(t, string(tag), notImplemented.Type)
	}

	for _, tag := range []models.DestinationType{models.DestinationPostgreSQL, models.DestinationMySQL, models.DestinationS3, models.DestinationBigQuery} {
		factory, err := r.Destination(tag)
		require.NoError(t, err, "tag %s should be registered", tag)

		_, err = factory(models.DestinationSpec{Type: tag})
		var notImplemented *NotImplementedError
		require.ErrorAs(t, err, &notImplemented, "tag %s should be a stub", tag)
	}
}

func TestRegistryAcceptsNewConnectors(t *testing.T) {
	r := NewRegistry()
	r.RegisterSource(models.SourceType("memory"), func(models.SourceSpec) (Extractor, error) {
		return &memExtractor{}, nil
	})

	factory, err := r.Source(models.SourceType("memory"))
	require.NoError(t, err)

	ext, err := factory(models.SourceSpec{})
	require.NoError(t, err)
	assert.IsType(t, &memExtractor{}, ext)
}
