package calc

import (
	"context"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/memo"
	"github.com/sosubot/ppcalc/observe"
)

// Artifacts holds the memo tables shared between calculations.
type Artifacts struct {
	Parsed     *memo.Table[*beatmap.Beatmap]
	Playable   *memo.Table[*beatmap.Beatmap]
	Difficulty *memo.Table[Attributes]
}

// NewArtifacts creates empty tables with the given policy. A nil skip rule
// means memo.DefaultSkipRule.
func NewArtifacts(policy memo.Policy, skip memo.SkipRule) *Artifacts {
	return &Artifacts{
		Parsed:     memo.NewTable[*beatmap.Beatmap](memo.KindBeatmap, policy, skip),
		Playable:   memo.NewTable[*beatmap.Beatmap](memo.KindPlayable, policy, skip),
		Difficulty: memo.NewTable[Attributes](memo.KindDifficulty, policy, skip),
	}
}

// Tables returns the tables for size reporting.
func (a *Artifacts) Tables() []memo.Sized {
	return []memo.Sized{a.Parsed, a.Playable, a.Difficulty}
}

// Observe reports every lookup to metrics under the table kind.
func (a *Artifacts) Observe(metrics observe.Metrics) {
	hook := func(e memo.Event) {
		metrics.RecordCacheEvent(context.Background(), string(e.Kind), string(e.Outcome))
	}
	a.Parsed.OnEvent(hook)
	a.Playable.OnEvent(hook)
	a.Difficulty.OnEvent(hook)
}

// Reset empties every table.
func (a *Artifacts) Reset() {
	a.Parsed.Reset()
	a.Playable.Reset()
	a.Difficulty.Reset()
}
