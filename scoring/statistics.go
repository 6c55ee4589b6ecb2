package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Statistics validation errors.
var (
	ErrNegativeCount   = errors.New("scoring: negative hit count")
	ErrForeignCategory = errors.New("scoring: category not in ruleset vocabulary")
)

// Statistics maps each hit result to the number of objects that received it.
type Statistics map[HitResult]int

// Get returns the count for h, zero when absent.
func (s Statistics) Get(h HitResult) int {
	return s[h]
}

// Lookup returns the count for h and whether it was present.
func (s Statistics) Lookup(h HitResult) (int, bool) {
	v, ok := s[h]
	return v, ok
}

// Clone returns a copy of s. A nil map clones to nil.
func (s Statistics) Clone() Statistics {
	if s == nil {
		return nil
	}
	out := make(Statistics, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// BasicTotal sums the six basic judgements. For a failed attempt this is
// the number of objects the player reached.
func (s Statistics) BasicTotal() int {
	total := 0
	for h, v := range s {
		if h.IsBasic() {
			total += v
		}
	}
	return total
}

// Total sums every count in s.
func (s Statistics) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Validate checks that every count is non-negative and that every non-zero
// category belongs to the ruleset vocabulary. Zero-valued foreign
// categories are tolerated since API payloads report every field.
func (s Statistics) Validate(r Ruleset) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownRuleset, int(r))
	}
	for _, h := range s.sortedKeys() {
		v := s[h]
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeCount, h, v)
		}
		if v != 0 && !r.Allows(h) {
			return fmt.Errorf("%w: %s for %s", ErrForeignCategory, h, r)
		}
	}
	return nil
}

// Overlay copies every category listed in keep from src into s, replacing
// existing values. Categories absent from src are left untouched.
func (s Statistics) Overlay(src Statistics, keep []HitResult) {
	for _, h := range keep {
		if v, ok := src[h]; ok {
			s[h] = v
		}
	}
}

// String renders s deterministically, e.g. "great:96 ok:4 meh:0 miss:0".
func (s Statistics) String() string {
	keys := s.sortedKeys()
	parts := make([]string, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("%s:%d", keys[i], s[keys[i]]))
	}
	return strings.Join(parts, " ")
}

func (s Statistics) sortedKeys() []HitResult {
	keys := make([]HitResult, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
