// Package button turns raw button levels into press and release edges.
package button

// Input reads the button level. With the usual pull-up wiring true means
// released and false means pressed.
type Input interface {
	Read() bool
}

// Event is the outcome of a single poll.
type Event uint8

const (
	None Event = iota
	// Press is a high to low transition.
	Press
	// Release is a low to high transition.
	Release
)

func (e Event) String() string {
	switch e {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return "none"
	}
}

// Edge remembers the last level it saw and reports transitions between
// consecutive polls. Holding the button down yields a single Press.
type Edge struct {
	in   Input
	last bool
}

// NewEdge reads the current level so that a button already held at startup
// does not count as a press.
func NewEdge(in Input) *Edge {
	return &Edge{in: in, last: in.Read()}
}

// Poll reads the input once and updates the stored level.
func (e *Edge) Poll() Event {
	cur := e.in.Read()
	prev := e.last
	e.last = cur
	switch {
	case prev && !cur:
		return Press
	case !prev && cur:
		return Release
	default:
		return None
	}
}

// Pressed polls and reports only press edges.
func (e *Edge) Pressed() bool {
	return e.Poll() == Press
}

// ShouldInterrupt makes Edge usable as a wait.Poller.
func (e *Edge) ShouldInterrupt() bool {
	return e.Pressed()
}

// Resync re-reads the raw level without reporting anything. Call it after a
// long operation during which the button was not polled.
func (e *Edge) Resync() {
	e.last = e.in.Read()
}

// Level is the last level observed.
func (e *Edge) Level() bool {
	return e.last
}
