package etl

import (
	"fmt"

	"docflow/pkg/models"
)

// Redaction markers. Hashing is intentionally a fixed marker, not a keyed
// cryptographic hash: the value is masked for display, not anonymized to a
// security-grade standard.
const (
	maskedMarker = "***MASKED***"
	partialInfix = "***"
)

// Masker applies a declarative per-field masking policy to records.
type Masker struct {
	policy models.MaskingConfig
}

// NewMasker creates a masker for the given policy. An empty policy yields an
// identity transform.
func NewMasker(policy models.MaskingConfig) *Masker {
	return &Masker{policy: policy}
}

// Apply returns a new record with the policy applied. Fields absent from the
// record are ignored; fields absent from the policy pass through unchanged.
// Apply never fails and never mutates its input.
func (m *Masker) Apply(doc Record) Record {
	out := make(Record, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	for field, rule := range m.policy {
		if _, exists := out[field]; !exists {
			continue
		}
		switch rule {
		case models.MaskRemove:
			delete(out, field)
		case models.MaskHash:
			out[field] = maskedMarker
		case models.MaskPartial:
			out[field] = partialMask(out[field])
		}
	}
	return out
}

// partialMask keeps the first and last two characters of the stringified
// value. Values of four characters or fewer are replaced entirely. Characters,
// not bytes: slicing must never split a multi-byte rune.
func partialMask(v interface{}) string {
	s := []rune(fmt.Sprintf("%v", v))
	if len(s) > 4 {
		return string(s[:2]) + partialInfix + string(s[len(s)-2:])
	}
	return partialInfix
}
