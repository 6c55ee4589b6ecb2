package observe

import "go.opentelemetry.io/otel/attribute"

// Pipeline stage names.
const (
	StageFetch       = "fetch"
	StageParse       = "parse"
	StageConvert     = "convert"
	StageStatistics  = "statistics"
	StageDifficulty  = "difficulty"
	StagePerformance = "performance"
)

// StageMeta describes one pipeline stage of one calculation.
type StageMeta struct {
	Stage     string // Stage name (required)
	RequestID string // Calculation request id (optional)
	BeatmapID int    // Beatmap being processed (optional)
	Ruleset   string // Ruleset short name (optional)
	Mods      string // Mod set identity key (optional)
}

// Validate reports whether the metadata names a stage.
func (m StageMeta) Validate() error {
	if m.Stage == "" {
		return ErrMissingStage
	}
	return nil
}

// SpanName returns the deterministic span name for this stage.
// Format: ppcalc.<stage>
func (m StageMeta) SpanName() string {
	return "ppcalc." + m.Stage
}

// For returns a copy of m for another stage of the same request.
func (m StageMeta) For(stage string) StageMeta {
	m.Stage = stage
	return m
}

func (m StageMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("ppcalc.stage", m.Stage),
	}
	if m.BeatmapID != 0 {
		attrs = append(attrs, attribute.Int("beatmap.id", m.BeatmapID))
	}
	if m.Ruleset != "" {
		attrs = append(attrs, attribute.String("ruleset", m.Ruleset))
	}
	if m.Mods != "" {
		attrs = append(attrs, attribute.String("mods", m.Mods))
	}
	return attrs
}

func (m StageMeta) fields() map[string]any {
	out := map[string]any{"stage": m.Stage}
	if m.RequestID != "" {
		out["request.id"] = m.RequestID
	}
	if m.BeatmapID != 0 {
		out["beatmap.id"] = m.BeatmapID
	}
	if m.Ruleset != "" {
		out["ruleset"] = m.Ruleset
	}
	if m.Mods != "" {
		out["mods"] = m.Mods
	}
	return out
}
