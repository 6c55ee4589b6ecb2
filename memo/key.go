package memo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// Sentinel errors for memo keys.
var (
	ErrInvalidBeatmapID = errors.New("memo: beatmap id must be positive")
	ErrInvalidLimit     = errors.New("memo: object limit must be positive")
)

// Key identifies a derived artifact.
type Key struct {
	// BeatmapID is the upstream beatmap id.
	BeatmapID int

	// Ruleset is the ruleset the artifact was derived for.
	Ruleset scoring.Ruleset

	// ObjectLimit truncates the beatmap for a failed attempt. Nil means the
	// full beatmap.
	ObjectLimit *int

	// Mods is the mod set the artifact was derived under.
	Mods mods.Set
}

// Limit returns a pointer to n, for use as Key.ObjectLimit.
func Limit(n int) *int {
	return &n
}

// Validate checks that k can identify an artifact.
func (k Key) Validate() error {
	if k.BeatmapID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBeatmapID, k.BeatmapID)
	}
	if k.ObjectLimit != nil && *k.ObjectLimit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, *k.ObjectLimit)
	}
	if !k.Ruleset.Valid() {
		return fmt.Errorf("memo: %w: %d", scoring.ErrUnknownRuleset, int(k.Ruleset))
	}
	return nil
}

// String returns the map key.
// Format: beatmap:<id>:r<ruleset>:limit:<n|full>:mods:<mods key>
func (k Key) String() (string, error) {
	modKey, err := k.Mods.Key()
	if err != nil {
		return "", fmt.Errorf("memo: %w", err)
	}
	limit := "full"
	if k.ObjectLimit != nil {
		limit = strconv.Itoa(*k.ObjectLimit)
	}
	return fmt.Sprintf("beatmap:%d:r%d:limit:%s:mods:%s", k.BeatmapID, int(k.Ruleset), limit, modKey), nil
}
