package domain

import (
	"fmt"
	"strings"
)

// FieldName identifies one of the tags read from a contactinfo packet.
type FieldName int

const (
	FieldCall FieldName = iota
	FieldBand
	FieldMode
	FieldMult1
	FieldMult2
	FieldMult3
	FieldNewQSO
	FieldXQSO

	numFields
)

// Fields lists every field in report order.
var Fields = [numFields]FieldName{
	FieldCall, FieldBand, FieldMode,
	FieldMult1, FieldMult2, FieldMult3,
	FieldNewQSO, FieldXQSO,
}

var fieldTags = [numFields]string{
	"call", "band", "mode", "mult1", "mult2", "mult3", "newqso", "xqso",
}

// Default per-field length caps in bytes. Longer values are truncated.
var defaultMaxLen = [numFields]int{
	63, 31, 15, 63, 63, 63, 15, 15,
}

// Tag returns the markup tag name, e.g. "mult1".
func (f FieldName) Tag() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldTags[f]
}

func (f FieldName) String() string { return f.Tag() }

// DefaultMaxLen is the byte limit applied to f unless overridden.
func (f FieldName) DefaultMaxLen() int {
	if f < 0 || f >= numFields {
		return 0
	}
	return defaultMaxLen[f]
}

// ParseFieldName maps a tag name (any case) to its FieldName.
func ParseFieldName(s string) (FieldName, error) {
	for i, tag := range fieldTags {
		if strings.EqualFold(s, tag) {
			return FieldName(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// FieldLimits holds the truncation limit for every field.
type FieldLimits [numFields]int

// DefaultFieldLimits returns the stock limits.
func DefaultFieldLimits() FieldLimits {
	return FieldLimits(defaultMaxLen)
}

// With returns a copy of l with overrides applied. Non-positive overrides
// are ignored.
func (l FieldLimits) With(overrides map[FieldName]int) FieldLimits {
	for f, n := range overrides {
		if f >= 0 && f < numFields && n > 0 {
			l[f] = n
		}
	}
	return l
}

// FieldValue is the outcome of looking up one tag.
type FieldValue struct {
	Value   string
	Present bool
}

// Empty reports whether the field is absent or has no text.
func (v FieldValue) Empty() bool {
	return !v.Present || v.Value == ""
}
