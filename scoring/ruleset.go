package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRuleset is returned when a ruleset code or name is not recognised.
var ErrUnknownRuleset = errors.New("scoring: unknown ruleset")

// Ruleset identifies one of the four game modes. The numeric values match
// the upstream API codes.
type Ruleset int

const (
	// Standard is the circle-clicking ruleset.
	Standard Ruleset = iota
	// Taiko is the drum ruleset.
	Taiko
	// Catch is the fruit-catching ruleset.
	Catch
	// Mania is the multi-column ruleset.
	Mania
)

// Rulesets lists all supported rulesets in code order.
var Rulesets = []Ruleset{Standard, Taiko, Catch, Mania}

// String returns the short name of the ruleset.
func (r Ruleset) String() string {
	switch r {
	case Standard:
		return "osu"
	case Taiko:
		return "taiko"
	case Catch:
		return "fruits"
	case Mania:
		return "mania"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the supported rulesets.
func (r Ruleset) Valid() bool {
	return r >= Standard && r <= Mania
}

// RulesetFromCode converts an API ruleset code.
func RulesetFromCode(code int) (Ruleset, error) {
	r := Ruleset(code)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownRuleset, code)
	}
	return r, nil
}

// ParseRuleset accepts either the short name ("osu", "taiko", "fruits",
// "mania") or a common alias ("std", "catch", "ctb").
func ParseRuleset(s string) (Ruleset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "osu", "std", "standard":
		return Standard, nil
	case "taiko":
		return Taiko, nil
	case "fruits", "catch", "ctb":
		return Catch, nil
	case "mania":
		return Mania, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRuleset, s)
	}
}
