// Package utils contains value conversion helpers shared by the connectors.
package utils

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeDocument returns a copy of doc with every BSON-native value
// converted to a JSON-portable form. See NormalizeValue for the rules.
func NormalizeDocument(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = NormalizeValue(v)
	}
	return out
}

// NormalizeValue converts driver-specific values into portable scalars:
// object identifiers and arbitrary-precision decimals become strings,
// timestamps become UTC time.Time. Nested documents and arrays are
// normalized recursively.
func NormalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case time.Time:
		return t.UTC()
	case primitive.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = NormalizeValue(e.Value)
		}
		return out
	case primitive.M:
		return NormalizeDocument(t)
	case map[string]interface{}:
		return NormalizeDocument(t)
	case primitive.A:
		return normalizeSlice(t)
	case []interface{}:
		return normalizeSlice(t)
	default:
		return v
	}
}

func normalizeSlice(in []interface{}) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = NormalizeValue(v)
	}
	return out
}
