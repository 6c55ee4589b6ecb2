package beatmap

import (
	"errors"
	"fmt"
)

// Errors returned by beatmap operations.
var (
	ErrNilBeatmap   = errors.New("beatmap: beatmap is nil")
	ErrInvalidLimit = errors.New("beatmap: object limit must be positive")
)

// Decoder turns raw beatmap bytes into a Beatmap. Format and version
// detection belong to the implementation.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: the returned Beatmap must not alias data.
type Decoder interface {
	Decode(data []byte) (*Beatmap, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (*Beatmap, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (*Beatmap, error) {
	return f(data)
}

// Beatmap is a decoded beatmap.
type Beatmap struct {
	HitObjects []HitObject
}

// New returns a beatmap holding objs.
func New(objs ...HitObject) *Beatmap {
	return &Beatmap{HitObjects: objs}
}

// Len returns the number of top-level hit objects.
func (b *Beatmap) Len() int {
	if b == nil {
		return 0
	}
	return len(b.HitObjects)
}

// MaxCombo returns the combo reached by hitting every object.
func (b *Beatmap) MaxCombo() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, o := range b.HitObjects {
		n += o.combo()
	}
	return n
}

// Count returns how many top-level objects are of any of the given kinds.
func (b *Beatmap) Count(kinds ...ObjectKind) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, o := range b.HitObjects {
		if o.Is(kinds...) {
			n++
		}
	}
	return n
}

// CountNested returns how many objects nested directly under a top-level
// object are of any of the given kinds.
func (b *Beatmap) CountNested(kinds ...ObjectKind) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, o := range b.HitObjects {
		for _, c := range o.Nested {
			if c.Is(kinds...) {
				n++
			}
		}
	}
	return n
}

// Limit returns a copy of b truncated to its first n objects. A limit at or
// beyond the object count returns a full copy.
func (b *Beatmap) Limit(n int) (*Beatmap, error) {
	if b == nil {
		return nil, ErrNilBeatmap
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	if n > len(b.HitObjects) {
		n = len(b.HitObjects)
	}
	out := &Beatmap{HitObjects: make([]HitObject, n)}
	for i := 0; i < n; i++ {
		out.HitObjects[i] = b.HitObjects[i].clone()
	}
	return out, nil
}

// Clone returns a deep copy of b.
func (b *Beatmap) Clone() *Beatmap {
	if b == nil {
		return nil
	}
	out := &Beatmap{HitObjects: make([]HitObject, len(b.HitObjects))}
	for i, o := range b.HitObjects {
		out.HitObjects[i] = o.clone()
	}
	return out
}
