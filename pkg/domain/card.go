package domain

import (
	"maps"
	"slices"
)

// Card is the field mapping kept for an attendee. Field order is irrelevant.
type Card map[string]string

// Clone returns an independent copy. A nil card clones to an empty card so
// callers never have to nil-check results.
func (c Card) Clone() Card {
	out := make(Card, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a copy of c with every field of updates written over it.
func (c Card) Merge(updates Card) Card {
	out := c.Clone()
	maps.Copy(out, updates)
	return out
}

// WithDefaults returns a copy of c where fields missing from c are filled
// from defaults. Fields already present in c are kept.
func (c Card) WithDefaults(defaults Card) Card {
	out := c.Clone()
	for k, v := range defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Fields returns the field names in sorted order.
func (c Card) Fields() []string {
	return slices.Sorted(maps.Keys(c))
}

// Equal reports whether both cards hold the same fields and values.
func (c Card) Equal(other Card) bool {
	return maps.Equal(c, other)
}
