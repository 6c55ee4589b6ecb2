package mods

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// settingsEncMode encodes with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, shortest integer and float forms.
var settingsEncMode cbor.EncMode

// settingsKey domain-separates settings digests from any other use of
// BLAKE3 in the process.
var settingsKey = blake3.Sum256([]byte("ppcalc mods settings v1"))

func init() {
	var err error
	settingsEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("mods: CBOR encoder initialization failed: " + err.Error())
	}
}

// Key returns the normalized identity of s.
//
// Contract:
// - Determinism: equal sets produce equal keys regardless of mod order,
// acronym case, or settings map order.
// - Errors: only settings that cannot be encoded as CBOR fail.
func (s Set) Key() (string, error) {
	if len(s) == 0 {
		return "NM", nil
	}

	var b strings.Builder
	for i, m := range s.Normalized() {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(m.Acronym)
		if len(m.Settings) == 0 {
			continue
		}
		h, err := settingsHash(m.Settings)
		if err != nil {
			return "", fmt.Errorf("mods: failed to hash settings of %s: %w", m.Acronym, err)
		}
		b.WriteByte('[')
		b.WriteString(h)
		b.WriteByte(']')
	}
	return b.String(), nil
}

func settingsHash(settings map[string]any) (string, error) {
	normalized := make(map[string]any, len(settings))
	for k, v := range settings {
		normalized[k] = normalizeValue(v)
	}

	encoded, err := settingsEncMode.Marshal(normalized)
	if err != nil {
		return "", err
	}

	hasher, err := blake3.NewKeyed(settingsKey[:])
	if err != nil {
		return "", err
	}
	_, _ = hasher.Write(encoded)
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum[:8]), nil
}

// normalizeValue folds every numeric type into float64 so that settings
// decoded from JSON and settings built in Go hash identically. Integers a
// float64 cannot hold exactly keep their integer type.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return normalizeInt(int64(n))
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return normalizeInt(n)
	case uint:
		return normalizeUint(uint64(n))
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return normalizeUint(n)
	case float32:
		return float64(n)
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, inner := range n {
			out[k] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, inner := range n {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

// maxExactInt is the largest integer magnitude a float64 represents exactly.
const maxExactInt = 1 << 53

func normalizeInt(n int64) any {
	if n >= -maxExactInt && n <= maxExactInt {
		return float64(n)
	}
	return n
}

func normalizeUint(n uint64) any {
	if n <= maxExactInt {
		return float64(n)
	}
	return n
}
