package logic

// ringStep is one sub-phase of the ring animation: which LED relative to the
// current index is written, and to what level.
type ringStep struct {
	offset int
	on     bool
}

// ringSteps lights three consecutive LEDs then turns the first one off, so a
// short lit segment crawls around the ring.
var ringSteps = [4]ringStep{
	{offset: 0, on: true},
	{offset: 1, on: true},
	{offset: 2, on: true},
	{offset: 0, on: false},
}

// RingSubPhases is the number of sub-phases per ring index.
const RingSubPhases = len(ringSteps)

// LedRing is the two-level ring animation counter. It advances once per
// completed display cycle, so its speed follows the display refresh rate.
type LedRing struct {
	index    int
	subPhase int
}

// Index returns the current ring index (0..RingSize-1).
func (r *LedRing) Index() int {
	return r.index
}

// SubPhase returns the current sub-phase (0..RingSubPhases-1).
func (r *LedRing) SubPhase() int {
	return r.subPhase
}

// Advance moves the animation one sub-phase forward. When lights is true the
// LED change for the current sub-phase is returned with ok set; otherwise the
// counters still move but nothing is written.
func (r *LedRing) Advance(lights bool) (w LedWrite, ok bool) {
	if lights {
		step := ringSteps[r.subPhase]
		w = LedWrite{Position: (r.index + step.offset) % RingSize, On: step.on}
		ok = true
	}
	r.subPhase++
	if r.subPhase == RingSubPhases {
		r.subPhase = 0
		r.index++
		if r.index == RingSize {
			r.index = 0
		}
	}
	return w, ok
}
