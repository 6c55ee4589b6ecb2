package memo

// Policy configures memoization behavior.
type Policy struct {
	// Enabled turns storage on. When false every call computes.
	Enabled bool

	// SingleFlight collapses concurrent misses for the same key into one
	// computation. The shared computation is not cancelled when one caller
	// gives up, but it is bounded by that caller's deadline.
	SingleFlight bool
}

// DefaultPolicy returns the default policy.
// Enabled: true, SingleFlight: false
func DefaultPolicy() Policy {
	return Policy{Enabled: true}
}

// NoMemoPolicy returns a policy that disables memoization entirely.
func NoMemoPolicy() Policy {
	return Policy{}
}

// SkipRule reports whether a key must bypass the table.
type SkipRule func(key Key) bool

// DefaultSkipRule bypasses keys whose mod set is not deterministic.
func DefaultSkipRule(key Key) bool {
	return !key.Mods.Deterministic()
}

// SkipMods returns a rule that bypasses keys carrying any of the given mod
// acronyms. It replaces DefaultSkipRule when the non-deterministic list is
// configured.
func SkipMods(acronyms ...string) SkipRule {
	return func(key Key) bool {
		for _, a := range acronyms {
			if key.Mods.Has(a) {
				return true
			}
		}
		return false
	}
}
