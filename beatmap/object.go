package beatmap

import "fmt"

// ObjectKind classifies a hit object or a nested object.
type ObjectKind int

const (
	// Standard ruleset.
	Circle ObjectKind = iota
	Slider
	Spinner
	SliderHead
	SliderTick
	SliderRepeat
	SliderTail

	// Taiko ruleset.
	Hit
	DrumRoll
	DrumRollTick
	Swell
	SwellTick

	// Catch ruleset.
	Fruit
	JuiceStream
	Droplet
	TinyDroplet
	BananaShower
	Banana

	// Mania ruleset.
	Note
	HoldNote
	HeadNote
	TailNote
)

var kindNames = [...]string{
	Circle:       "circle",
	Slider:       "slider",
	Spinner:      "spinner",
	SliderHead:   "slider_head",
	SliderTick:   "slider_tick",
	SliderRepeat: "slider_repeat",
	SliderTail:   "slider_tail",
	Hit:          "hit",
	DrumRoll:     "drum_roll",
	DrumRollTick: "drum_roll_tick",
	Swell:        "swell",
	SwellTick:    "swell_tick",
	Fruit:        "fruit",
	JuiceStream:  "juice_stream",
	Droplet:      "droplet",
	TinyDroplet:  "tiny_droplet",
	BananaShower: "banana_shower",
	Banana:       "banana",
	Note:         "note",
	HoldNote:     "hold_note",
	HeadNote:     "head_note",
	TailNote:     "tail_note",
}

func (k ObjectKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("object_kind(%d)", int(k))
	}
	return kindNames[k]
}

// AffectsCombo reports whether a judgement on an object of this kind
// increments the combo counter. Containers (sliders, juice streams, hold
// notes) defer to their nested objects.
func (k ObjectKind) AffectsCombo() bool {
	switch k {
	case TinyDroplet, Banana, BananaShower,
		DrumRoll, DrumRollTick, Swell, SwellTick,
		Slider, JuiceStream, HoldNote:
		return false
	default:
		return true
	}
}

// HitObject is a timed element of a beatmap.
type HitObject struct {
	Kind   ObjectKind
	Nested []HitObject
}

// Is reports whether o is of any of the given kinds.
func (o HitObject) Is(kinds ...ObjectKind) bool {
	for _, k := range kinds {
		if o.Kind == k {
			return true
		}
	}
	return false
}

// combo returns how many combo increments o contributes.
func (o HitObject) combo() int {
	if len(o.Nested) == 0 {
		if o.Kind.AffectsCombo() {
			return 1
		}
		return 0
	}
	n := 0
	for _, c := range o.Nested {
		n += c.combo()
	}
	return n
}

func (o HitObject) clone() HitObject {
	out := HitObject{Kind: o.Kind}
	if o.Nested != nil {
		out.Nested = make([]HitObject, len(o.Nested))
		for i, c := range o.Nested {
			out.Nested[i] = c.clone()
		}
	}
	return out
}
