package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeValueObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got := NormalizeValue(id)

	assert.Equal(t, id.Hex(), got)
}

func TestNormalizeValueDecimal128(t *testing.T) {
	dec, err := primitive.ParseDecimal128("12345.6789")
	require.NoError(t, err)

	got := NormalizeValue(dec)

	assert.Equal(t, "12345.6789", got)
}

func TestNormalizeValueDateTimeIsUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	local := time.Date(2024, 3, 1, 9, 30, 0, 0, loc)

	got := NormalizeValue(primitive.NewDateTimeFromTime(local))

	ts, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, ts.Location())
	assert.True(t, ts.Equal(local))
}

func TestNormalizeValueRecursesIntoNestedStructures(t *testing.T) {
	id := primitive.NewObjectID()
	doc := map[string]interface{}{
		"_id": id,
		"profile": primitive.M{
			"created": primitive.NewDateTimeFromTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
			"tags":    primitive.A{id, "plain"},
		},
		"orders": []interface{}{
			primitive.D{{Key: "order_id", Value: id}},
		},
	}

	got := NormalizeDocument(doc)

	assert.Equal(t, id.Hex(), got["_id"])

	profile, ok := got["profile"].(map[string]interface{})
	require.True(t, ok)
	assert.IsType(t, time.Time{}, profile["created"])
	tags, ok := profile["tags"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{id.Hex(), "plain"}, tags)

	orders, ok := got["orders"].([]interface{})
	require.True(t, ok)
	order, ok := orders[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, id.Hex(), order["order_id"])
}

func TestNormalizeValueLeavesPortableValuesAlone(t *testing.T) {
	assert.Equal(t, "text", NormalizeValue("text"))
	assert.Equal(t, int64(42), NormalizeValue(int64(42)))
	assert.Equal(t, 4.2, NormalizeValue(4.2))
	assert.Equal(t, true, NormalizeValue(true))
	assert.Nil(t, NormalizeValue(nil))
}

func TestNormalizeDocumentDoesNotMutateInput(t *testing.T) {
	id := primitive.NewObjectID()
	doc := map[string]interface{}{"_id": id}

	NormalizeDocument(doc)

	assert.Equal(t, id, doc["_id"])
}
