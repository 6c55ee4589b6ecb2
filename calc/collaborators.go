package calc

import (
	"context"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// BeatmapSource returns the raw bytes of a beatmap.
// *beatmapcache.Cache satisfies it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Fetch must honor cancellation and never commit partial data.
type BeatmapSource interface {
	Fetch(ctx context.Context, id int) ([]byte, error)
}

// Converter turns a decoded beatmap into the playable beatmap for a
// ruleset with mods applied.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: b is shared and must not be modified; return a new beatmap.
type Converter interface {
	Convert(ctx context.Context, r scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (*beatmap.Beatmap, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, r scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (*beatmap.Beatmap, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, r scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (*beatmap.Beatmap, error) {
	return f(ctx, r, b, m)
}

// identityConverter is used when no Converter is configured.
type identityConverter struct{}

func (identityConverter) Convert(_ context.Context, _ scoring.Ruleset, b *beatmap.Beatmap, _ mods.Set) (*beatmap.Beatmap, error) {
	return b, nil
}

// Attributes are the difficulty metrics of a playable beatmap.
type Attributes struct {
	StarRating float64
	MaxCombo   int

	// Values holds ruleset-specific metrics such as aim or speed strain.
	Values map[string]float64
}

// DifficultyCalculator computes difficulty attributes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: b is shared and must not be modified.
type DifficultyCalculator interface {
	Difficulty(ctx context.Context, r scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (Attributes, error)
}

// DifficultyFunc adapts a function to the DifficultyCalculator interface.
type DifficultyFunc func(ctx context.Context, r scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (Attributes, error)

// Difficulty calls f.
func (f DifficultyFunc) Difficulty(ctx context.Context, r scoring.Ruleset, b *beatmap.Beatmap, m mods.Set) (Attributes, error) {
	return f(ctx, r, b, m)
}

// Score is what the performance collaborator rates.
type Score struct {
	Ruleset    scoring.Ruleset
	Mods       mods.Set
	Accuracy   float64
	MaxCombo   int
	Statistics scoring.Statistics
	Beatmap    *beatmap.Beatmap
}

// PerformanceCalculator computes the total performance of a score.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: score fields are shared and must not be modified.
type PerformanceCalculator interface {
	Performance(ctx context.Context, score Score, attrs Attributes) (float64, error)
}

// PerformanceFunc adapts a function to the PerformanceCalculator interface.
type PerformanceFunc func(ctx context.Context, score Score, attrs Attributes) (float64, error)

// Performance calls f.
func (f PerformanceFunc) Performance(ctx context.Context, score Score, attrs Attributes) (float64, error) {
	return f(ctx, score, attrs)
}

// Collaborators are the external components a Calculator drives.
// Converter is optional; without one the decoded beatmap is used as-is.
type Collaborators struct {
	Source      BeatmapSource
	Decoder     beatmap.Decoder
	Converter   Converter
	Difficulty  DifficultyCalculator
	Performance PerformanceCalculator
}

func (c Collaborators) validate() error {
	switch {
	case c.Source == nil:
		return fmtMissing("Source")
	case c.Decoder == nil:
		return fmtMissing("Decoder")
	case c.Difficulty == nil:
		return fmtMissing("Difficulty")
	case c.Performance == nil:
		return fmtMissing("Performance")
	}
	return nil
}
