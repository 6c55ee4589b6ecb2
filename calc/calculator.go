package calc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sosubot/ppcalc/accuracy"
	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/memo"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/observe"
	"github.com/sosubot/ppcalc/scoring"
)

// DefaultRequestTimeout bounds a calculation whose context has no deadline.
const DefaultRequestTimeout = 30 * time.Second

// Config configures a Calculator.
type Config struct {
	// RequestTimeout applies when the caller's context has no deadline.
	// Default: 30 seconds
	RequestTimeout time.Duration
}

// Result is the outcome of a calculation.
type Result struct {
	RequestID string

	// PP is the total performance.
	PP float64

	// Accuracy is the accuracy of Statistics.
	Accuracy float64

	Difficulty Attributes

	// Statistics is the resolved breakdown the score was rated with.
	Statistics scoring.Statistics

	// BeatmapMaxCombo is the max combo of the (possibly truncated) beatmap.
	BeatmapMaxCombo int

	// ScoreMaxCombo is the combo the score was rated with.
	ScoreMaxCombo int

	// ObjectCount is the number of hit objects in the playable beatmap.
	ObjectCount int

	// JudgedObjectCount is the number of judged objects the estimator
	// counts for the playable beatmap.
	JudgedObjectCount int

	// SuppliedJudgedCount is the basic judgement total of Statistics.
	SuppliedJudgedCount int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithArtifacts shares memo tables between calculators. The default is a
// private set with memo.DefaultPolicy.
func WithArtifacts(a *Artifacts) Option {
	return func(c *Calculator) {
		c.artifacts = a
	}
}

// WithMiddleware sets the stage instrumentation.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(c *Calculator) {
		c.mw = mw
	}
}

// Calculator rates scores. It is safe for concurrent use.
type Calculator struct {
	config    Config
	deps      Collaborators
	artifacts *Artifacts
	mw        *observe.Middleware
}

// New creates a Calculator. Source, Decoder, Difficulty and Performance
// are required.
func New(config Config, deps Collaborators, opts ...Option) (*Calculator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if deps.Converter == nil {
		deps.Converter = identityConverter{}
	}

	c := &Calculator{config: config, deps: deps}
	for _, opt := range opts {
		opt(c)
	}
	if c.mw == nil {
		c.mw = observe.NopMiddleware()
	}
	if c.artifacts == nil {
		c.artifacts = NewArtifacts(memo.DefaultPolicy(), nil)
	}
	c.artifacts.Observe(c.mw.Metrics())
	return c, nil
}

// Artifacts returns the memo tables in use.
func (c *Calculator) Artifacts() *Artifacts {
	return c.artifacts
}

// calculation carries the per-request state through the stages.
type calculation struct {
	req  Request
	meta observe.StageMeta
	mods mods.Set
	est  accuracy.Estimator

	parsedKey memo.Key
	key       memo.Key

	parsed   *beatmap.Beatmap
	playable *beatmap.Beatmap
	stats    scoring.Statistics
	accuracy float64
	combo    int
	attrs    Attributes
	pp       float64
}

// Calculate rates req.
//
// Errors are classifiable with errors.Is: ErrInvalidRequest,
// ErrCancelled, beatmapcache.ErrFetch, accuracy.ErrDegenerateInput, or a
// collaborator error wrapped with its stage.
func (c *Calculator) Calculate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	job, err := c.prepare(req)
	if err != nil {
		return nil, err
	}
	logger := c.mw.Logger().With(job.meta)

	stages := []struct {
		name string
		fn   observe.StageFunc
	}{
		{observe.StageParse, job.parse(c)},
		{observe.StageConvert, job.convert(c)},
		{observe.StageStatistics, job.resolve},
		{observe.StageDifficulty, job.difficulty(c)},
		{observe.StagePerformance, job.performance(c)},
	}
	for _, s := range stages {
		if err := c.mw.Run(ctx, job.meta.For(s.name), s.fn); err != nil {
			return nil, stageError(ctx, s.name, err)
		}
	}

	res := &Result{
		RequestID:           job.meta.RequestID,
		PP:                  job.pp,
		Accuracy:            job.accuracy,
		Difficulty:          job.attrs,
		Statistics:          job.stats,
		BeatmapMaxCombo:     job.playable.MaxCombo(),
		ScoreMaxCombo:       job.combo,
		ObjectCount:         job.playable.Len(),
		JudgedObjectCount:   job.est.JudgedCount(job.playable, job.mods),
		SuppliedJudgedCount: job.stats.BasicTotal(),
	}
	logger.Info(ctx, "calculation completed",
		observe.Field{Key: "pp", Value: res.PP},
		observe.Field{Key: "accuracy", Value: res.Accuracy},
		observe.Field{Key: "statistics", Value: res.Statistics.String()},
	)
	return res, nil
}

func (c *Calculator) prepare(req Request) (*calculation, error) {
	est, err := accuracy.For(req.Ruleset)
	if err != nil {
		return nil, &RequestError{Field: "Ruleset", Reason: err.Error(), Err: err}
	}

	m := req.Mods.Normalized()
	modKey, err := m.Key()
	if err != nil {
		return nil, &RequestError{Field: "Mods", Reason: err.Error(), Err: err}
	}

	var limit *int
	if !req.Passed {
		limit = memo.Limit(req.Statistics.BasicTotal())
	}

	return &calculation{
		req:  req,
		mods: m,
		est:  est,
		meta: observe.StageMeta{
			RequestID: uuid.NewString(),
			BeatmapID: req.BeatmapID,
			Ruleset:   req.Ruleset.String(),
			Mods:      modKey,
		},
		// The decoded beatmap depends only on the bytes and the limit.
		parsedKey: memo.Key{BeatmapID: req.BeatmapID, ObjectLimit: limit},
		key:       memo.Key{BeatmapID: req.BeatmapID, Ruleset: req.Ruleset, ObjectLimit: limit, Mods: m},
	}, nil
}

// parse fetches and decodes the beatmap on a memo miss. The fetch runs as
// its own stage inside the parse stage.
func (job *calculation) parse(c *Calculator) observe.StageFunc {
	return func(ctx context.Context) error {
		b, err := c.artifacts.Parsed.GetOrCompute(ctx, job.parsedKey, func(ctx context.Context) (*beatmap.Beatmap, error) {
			var data []byte
			err := c.mw.Run(ctx, job.meta.For(observe.StageFetch), func(ctx context.Context) error {
				var err error
				data, err = c.deps.Source.Fetch(ctx, job.req.BeatmapID)
				return err
			})
			if err != nil {
				return nil, err
			}

			b, err := c.deps.Decoder.Decode(data)
			if err != nil {
				return nil, fmt.Errorf("decode beatmap %d: %w", job.req.BeatmapID, err)
			}
			if b == nil {
				return nil, beatmap.ErrNilBeatmap
			}
			if limit := job.parsedKey.ObjectLimit; limit != nil {
				return b.Limit(*limit)
			}
			return b, nil
		})
		job.parsed = b
		return err
	}
}

func (job *calculation) convert(c *Calculator) observe.StageFunc {
	return func(ctx context.Context) error {
		b, err := c.artifacts.Playable.GetOrCompute(ctx, job.key, func(ctx context.Context) (*beatmap.Beatmap, error) {
			b, err := c.deps.Converter.Convert(ctx, job.req.Ruleset, job.parsed, job.mods)
			if err == nil && b == nil {
				err = beatmap.ErrNilBeatmap
			}
			return b, err
		})
		job.playable = b
		return err
	}
}

func (job *calculation) resolve(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats, acc, err := resolveStatistics(job.est, job.playable, job.mods, job.req.Accuracy, job.req.Statistics)
	if err != nil {
		return err
	}
	job.stats, job.accuracy = stats, acc

	job.combo = job.playable.MaxCombo()
	if job.req.MaxCombo != nil {
		if *job.req.MaxCombo > job.combo {
			return &RequestError{
				Field:  "MaxCombo",
				Reason: fmt.Sprintf("%d exceeds the beatmap max combo %d", *job.req.MaxCombo, job.combo),
			}
		}
		job.combo = *job.req.MaxCombo
	}
	return nil
}

func (job *calculation) difficulty(c *Calculator) observe.StageFunc {
	return func(ctx context.Context) error {
		attrs, err := c.artifacts.Difficulty.GetOrCompute(ctx, job.key, func(ctx context.Context) (Attributes, error) {
			return c.deps.Difficulty.Difficulty(ctx, job.req.Ruleset, job.playable, job.mods)
		})
		job.attrs = attrs
		return err
	}
}

func (job *calculation) performance(c *Calculator) observe.StageFunc {
	return func(ctx context.Context) error {
		pp, err := c.deps.Performance.Performance(ctx, Score{
			Ruleset:    job.req.Ruleset,
			Mods:       job.mods,
			Accuracy:   job.accuracy,
			MaxCombo:   job.combo,
			Statistics: job.stats,
			Beatmap:    job.playable,
		}, job.attrs)
		job.pp = pp
		return err
	}
}
