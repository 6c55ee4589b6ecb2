package accuracy

import (
	"errors"
	"math"
	"testing"

	"github.com/sosubot/ppcalc/beatmap"
	"github.com/sosubot/ppcalc/scoring"
)

func circles(n int) *beatmap.Beatmap {
	return beatmap.New(beatmap.Repeat(beatmap.NewCircle(), n)...)
}

func hits(n int) *beatmap.Beatmap {
	return beatmap.New(beatmap.Repeat(beatmap.NewHit(), n)...)
}

func notes(n, holds int) *beatmap.Beatmap {
	objs := beatmap.Repeat(beatmap.NewNote(), n)
	objs = append(objs, beatmap.Repeat(beatmap.NewHoldNote(), holds)...)
	return beatmap.New(objs...)
}

// fruits builds a catch beatmap with loose fruits plus one juice stream
// carrying streamFruits, droplets and tiny droplets.
func fruits(loose, streamFruits, droplets, tiny int) *beatmap.Beatmap {
	objs := beatmap.Repeat(beatmap.NewFruit(), loose)
	objs = append(objs, beatmap.NewJuiceStream(streamFruits, droplets, tiny))
	return beatmap.New(objs...)
}

func assertStats(t *testing.T, got, want scoring.Statistics) {
	t.Helper()
	for h, w := range want {
		if g, ok := got.Lookup(h); !ok || g != w {
			t.Errorf("%s = %d (present %v), want %d; got %v", h, g, ok, w, got)
		}
	}
	for h := range got {
		if _, ok := want[h]; !ok {
			t.Errorf("unexpected category %s=%d", h, got[h])
		}
	}
}

func assertDegenerate(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("error = %v, want ErrDegenerateInput", err)
	}
	var de *DegenerateInputError
	if !errors.As(err, &de) {
		t.Fatalf("error %T is not *DegenerateInputError", err)
	}
	if de.Field == "" {
		t.Error("DegenerateInputError.Field is empty")
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol+1e-12
}
