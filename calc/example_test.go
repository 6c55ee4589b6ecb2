package calc_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/calc"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

type staticSource []byte

func (s staticSource) Fetch(context.Context, int) ([]byte, error) { return s, nil }

func exampleCalculator() *calc.Calculator {
	c, err := calc.New(calc.Config{}, calc.Collaborators{
		Source: staticSource(make([]byte, 100)),
		Decoder: beatmap.DecoderFunc(func(data []byte) (*beatmap.Beatmap, error) {
			return beatmap.New(beatmap.Repeat(beatmap.NewCircle(), len(data))...), nil
		}),
		Difficulty: calc.DifficultyFunc(func(_ context.Context, _ scoring.Ruleset, b *beatmap.Beatmap, _ mods.Set) (calc.Attributes, error) {
			return calc.Attributes{StarRating: 5, MaxCombo: b.MaxCombo()}, nil
		}),
		Performance: calc.PerformanceFunc(func(_ context.Context, s calc.Score, a calc.Attributes) (float64, error) {
			return a.StarRating * s.Accuracy * 100, nil
		}),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func ExampleCalculator_Calculate() {
	c := exampleCalculator()
	acc := 0.97

	res, err := c.Calculate(context.Background(), calc.Request{
		BeatmapID: 75,
		Ruleset:   scoring.Standard,
		Accuracy:  &acc,
		Passed:    true,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Statistics)
	fmt.Printf("%.4f %.2fpp\n", res.Accuracy, res.PP)
	// Output:
	// great:96 ok:4 meh:0 miss:0
	// 0.9733 486.67pp
}

func ExampleCalculator_Calculate_failedAttempt() {
	c := exampleCalculator()

	res, err := c.Calculate(context.Background(), calc.Request{
		BeatmapID:  75,
		Ruleset:    scoring.Standard,
		Statistics: scoring.Statistics{scoring.Great: 40, scoring.Ok: 5, scoring.Miss: 5},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.ObjectCount, res.BeatmapMaxCombo)
	// Output:
	// 50 50
}

func ExampleRequest_Validate() {
	err := calc.Request{BeatmapID: 75, Passed: true}.Validate()
	fmt.Println(err)
	fmt.Println(errors.Is(err, calc.ErrInvalidRequest))
	// Output:
	// calc: invalid request: Accuracy: is required when no statistics are given
	// true
}
