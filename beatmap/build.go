package beatmap

// Constructors for the object shapes the estimators care about. They are
// used by collaborators that build beatmaps programmatically and by tests.

// NewCircle returns a standard hit circle.
func NewCircle() HitObject { return HitObject{Kind: Circle} }

// NewSpinner returns a standard spinner.
func NewSpinner() HitObject { return HitObject{Kind: Spinner} }

// NewSlider returns a slider with a head, the given number of ticks and
// repeats, and a tail.
func NewSlider(ticks, repeats int) HitObject {
	nested := make([]HitObject, 0, ticks+repeats+2)
	nested = append(nested, HitObject{Kind: SliderHead})
	for i := 0; i < ticks; i++ {
		nested = append(nested, HitObject{Kind: SliderTick})
	}
	for i := 0; i < repeats; i++ {
		nested = append(nested, HitObject{Kind: SliderRepeat})
	}
	nested = append(nested, HitObject{Kind: SliderTail})
	return HitObject{Kind: Slider, Nested: nested}
}

// NewHit returns a taiko hit.
func NewHit() HitObject { return HitObject{Kind: Hit} }

// NewDrumRoll returns a drum roll with ticks nested ticks.
func NewDrumRoll(ticks int) HitObject {
	return HitObject{Kind: DrumRoll, Nested: repeat(DrumRollTick, ticks)}
}

// NewSwell returns a swell requiring hits nested hits.
func NewSwell(hits int) HitObject {
	return HitObject{Kind: Swell, Nested: repeat(SwellTick, hits)}
}

// NewFruit returns a catch fruit.
func NewFruit() HitObject { return HitObject{Kind: Fruit} }

// NewJuiceStream returns a juice stream with fruits, droplets and tiny
// droplets nested in that order.
func NewJuiceStream(fruits, droplets, tiny int) HitObject {
	nested := make([]HitObject, 0, fruits+droplets+tiny)
	nested = append(nested, repeat(Fruit, fruits)...)
	nested = append(nested, repeat(Droplet, droplets)...)
	nested = append(nested, repeat(TinyDroplet, tiny)...)
	return HitObject{Kind: JuiceStream, Nested: nested}
}

// NewBananaShower returns a banana shower with bananas nested bananas.
func NewBananaShower(bananas int) HitObject {
	return HitObject{Kind: BananaShower, Nested: repeat(Banana, bananas)}
}

// NewNote returns a mania note.
func NewNote() HitObject { return HitObject{Kind: Note} }

// NewHoldNote returns a mania hold note with its head and tail.
func NewHoldNote() HitObject {
	return HitObject{Kind: HoldNote, Nested: []HitObject{{Kind: HeadNote}, {Kind: TailNote}}}
}

// Repeat returns n copies of o.
func Repeat(o HitObject, n int) []HitObject {
	if n <= 0 {
		return nil
	}
	out := make([]HitObject, n)
	for i := range out {
		out[i] = o.clone()
	}
	return out
}

func repeat(k ObjectKind, n int) []HitObject {
	return Repeat(HitObject{Kind: k}, n)
}
