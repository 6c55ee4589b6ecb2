package mods

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned when parsing mods.
var (
	ErrInvalidAcronym = errors.New("mods: invalid acronym")
	ErrDuplicateMod   = errors.New("mods: duplicate mod")
)

// Classic is the acronym of the classic mod.
const Classic = "CL"

// NonDeterministic lists acronyms whose transform depends on a random
// seed. Artifacts derived under these mods must never be reused.
var NonDeterministic = []string{"RD"}

// Mod is a single modifier with optional settings.
type Mod struct {
	Acronym  string         `json:"acronym"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Set is a collection of mods.
type Set []Mod

// Of returns a set holding the given acronyms without settings.
func Of(acronyms ...string) Set {
	s := make(Set, 0, len(acronyms))
	for _, a := range acronyms {
		s = append(s, Mod{Acronym: a})
	}
	return s
}

// Parse reads a mod string such as "HDDT", "HD,DT" or "HD+DT".
// Case is ignored. An empty string or "NM" is the empty set.
func Parse(s string) (Set, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "NM" {
		return Set{}, nil
	}

	var parts []string
	if strings.ContainsAny(s, ",+ ") {
		parts = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == '+' || r == ' '
		})
	} else {
		if len(s)%2 != 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAcronym, s)
		}
		for i := 0; i < len(s); i += 2 {
			parts = append(parts, s[i:i+2])
		}
	}

	set := make(Set, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if !validAcronym(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAcronym, p)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMod, p)
		}
		seen[p] = true
		set = append(set, Mod{Acronym: p})
	}
	return set, nil
}

func validAcronym(a string) bool {
	if len(a) < 2 || len(a) > 3 {
		return false
	}
	for _, r := range a {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Normalized returns a copy of s with upper-cased acronyms sorted
// ascending. Settings maps are shared with s.
func (s Set) Normalized() Set {
	out := make(Set, len(s))
	for i, m := range s {
		out[i] = Mod{Acronym: strings.ToUpper(strings.TrimSpace(m.Acronym)), Settings: m.Settings}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Acronym < out[j].Acronym })
	return out
}

// Acronyms returns the normalized acronyms of s.
func (s Set) Acronyms() []string {
	n := s.Normalized()
	out := make([]string, len(n))
	for i, m := range n {
		out[i] = m.Acronym
	}
	return out
}

// Get returns the mod with the given acronym.
func (s Set) Get(acronym string) (Mod, bool) {
	for _, m := range s {
		if strings.EqualFold(m.Acronym, acronym) {
			return m, true
		}
	}
	return Mod{}, false
}

// Has reports whether s contains acronym.
func (s Set) Has(acronym string) bool {
	_, ok := s.Get(acronym)
	return ok
}

// HasClassic reports whether s contains the classic mod.
func (s Set) HasClassic() bool {
	return s.Has(Classic)
}

// Deterministic reports whether every mod in s produces the same
// transform for the same input.
func (s Set) Deterministic() bool {
	for _, a := range NonDeterministic {
		if s.Has(a) {
			return false
		}
	}
	return true
}

// Bool returns the boolean setting name of mod acronym, or def when the mod
// is absent, the setting is unset, or it is not a bool.
func (s Set) Bool(acronym, name string, def bool) bool {
	m, ok := s.Get(acronym)
	if !ok {
		return def
	}
	v, ok := m.Settings[name].(bool)
	if !ok {
		return def
	}
	return v
}

// Equal reports whether s and other normalize to the same key.
func (s Set) Equal(other Set) bool {
	a, err := s.Key()
	if err != nil {
		return false
	}
	b, err := other.Key()
	if err != nil {
		return false
	}
	return a == b
}

// String returns the key of s, or the bare acronyms if settings cannot
// be encoded.
func (s Set) String() string {
	k, err := s.Key()
	if err != nil {
		return strings.Join(s.Acronyms(), "+")
	}
	return k
}
