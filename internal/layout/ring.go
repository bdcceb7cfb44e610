package layout

import "github.com/pkg/errors"

// Ring describes a circular strip of Count LEDs. Offset is the index of the
// LED sitting at the top of the ring; it rotates every region below.
//
// Region sizes are derived with floor division, so rings whose Count is not
// a multiple of 4 get asymmetric quarters. That is expected: callers zip
// regions index by index and stop at the shorter one.
type Ring struct {
	Count  int
	Offset int
}

// Validate reports whether the ring can produce regions.
func (r Ring) Validate() error {
	if r.Count <= 0 {
		return errors.Errorf("invalid LED count: %d", r.Count)
	}
	if r.Offset < 0 || r.Offset >= r.Count {
		return errors.Errorf("orientation offset %d outside [0, %d)", r.Offset, r.Count)
	}
	return nil
}

// Index maps a position relative to the top of the ring onto a physical LED
// index in 0..Count-1. Negative positions walk counter-clockwise.
func (r Ring) Index(pos int) int {
	i := (r.Offset + pos) % r.Count
	if i < 0 {
		i += r.Count
	}
	return i
}

func (r Ring) quarter() int { return r.Count / 4 }
func (r Ring) half() int    { return r.Count / 2 }

// span returns the physical indices for relative positions [from, to].
func (r Ring) span(from, to int) []int {
	if to < from {
		return []int{}
	}
	out := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, r.Index(p))
	}
	return out
}

// All returns every index in strip order.
func (r Ring) All() []int {
	out := make([]int, r.Count)
	for i := range out {
		out[i] = i
	}
	return out
}

// UpperHalf is the open eye: the top LED plus a quarter on each side, ordered
// from the upper-left end over the top to the upper-right end.
func (r Ring) UpperHalf() []int {
	q := r.quarter()
	return r.span(-q, q)
}

// LowerHalf holds every LED not in UpperHalf, clockwise from the one after the
// upper-right end.
func (r Ring) LowerHalf() []int {
	q := r.quarter()
	return r.span(q+1, r.Count-q-1)
}

// LeftQuarter is the upper-left quarter next to, but excluding, the top LED.
func (r Ring) LeftQuarter() []int {
	q := r.quarter()
	return r.span(r.Count-q, r.Count-1)
}

// RightQuarter is the upper-right quarter next to, but excluding, the top LED.
func (r Ring) RightQuarter() []int {
	return r.span(1, r.quarter())
}

// LowerRightQuarter is where the pupil lands when the eye looks left.
func (r Ring) LowerRightQuarter() []int {
	return r.span(r.quarter()+1, r.half())
}

// LowerLeftQuarter is where the pupil lands when the eye looks right.
func (r Ring) LowerLeftQuarter() []int {
	h := r.half()
	return r.span(h, h+r.quarter()-1)
}
