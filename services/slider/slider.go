// Package slider is the hero carousel state machine: swipe to change slides,
// wrap around through cloned edge slides, autoplay that pauses while the
// visitor interacts, and a full-screen viewer.
//
// Positions use the extended index: 0 is a clone of the last slide, 1..N are
// the real slides and N+1 is a clone of the first. A transition onto a clone
// is normalized to the matching real slide when it settles.
//
// A Slider is not safe for concurrent use.
package slider

import (
	"errors"
	"math"
	"time"
)

const (
	// TransitionDuration is how long a slide change animates
	TransitionDuration = 380 * time.Millisecond
	// DragThresholdRatio is the share of the width a drag must cover to commit
	DragThresholdRatio = 0.14
	// DefaultAutoplayInterval is the time between automatic advances
	DefaultAutoplayInterval = 4 * time.Second
)

// ErrNoSlides is returned by New for an empty deck
var ErrNoSlides = errors.New("slider needs at least one slide")

// Slide is one hero image
type Slide struct {
	Src string
	Alt string
}

// State of the slider
type State string

const (
	StateIdle          State = "idle"
	StateDragging      State = "dragging"
	StateTransitioning State = "transitioning"
)

// Slider holds the carousel position and interaction state
type Slider struct {
	slides   []Slide
	width    float64
	interval time.Duration

	index  int
	state  State
	startX float64
	offset float64

	hovered     bool
	focused     bool
	lastAdvance time.Time
	settleAt    time.Time
}

// New creates a slider on the first real slide. width is the container width
// in pixels; a non-positive width is treated as 1.
func New(slides []Slide, width float64) (*Slider, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	s := &Slider{
		slides:   append([]Slide(nil), slides...),
		interval: DefaultAutoplayInterval,
		index:    1,
		state:    StateIdle,
	}
	s.SetWidth(width)
	return s, nil
}

// SetWidth updates the container width after a resize
func (s *Slider) SetWidth(width float64) {
	if width <= 0 {
		width = 1
	}
	s.width = width
}

// SetAutoplayInterval changes the autoplay period; zero disables autoplay
func (s *Slider) SetAutoplayInterval(d time.Duration) {
	s.interval = d
}

func (s *Slider) Len() int     { return len(s.slides) }
func (s *Slider) State() State { return s.state }

// Index is the extended index, 0..N+1
func (s *Slider) Index() int { return s.index }

// Current is the 1-based number of the visible real slide
func (s *Slider) Current() int {
	n := len(s.slides)
	return ((s.index-1)%n+n)%n + 1
}

// Threshold is the drag distance in pixels that commits a slide change
func (s *Slider) Threshold() float64 {
	return s.width * DragThresholdRatio
}

// RenderSlides returns the deck with the edge clones: [last, 1..N, first]
func (s *Slider) RenderSlides() []Slide {
	n := len(s.slides)
	out := make([]Slide, 0, n+2)
	out = append(out, s.slides[n-1])
	out = append(out, s.slides...)
	out = append(out, s.slides[0])
	return out
}

// Position is the horizontal translation, in percent, of the slide at
// extended index i including any drag in progress
func (s *Slider) Position(i int) float64 {
	return float64(i-s.index)*100 + s.offset/s.width*100
}

// Animating reports whether positions should animate (CSS transition on)
func (s *Slider) Animating() bool {
	return s.state == StateTransitioning
}

func (s *Slider) canSlide() bool {
	return len(s.slides) > 1
}

// BeginDrag starts a pointer drag at x. Ignored mid-transition.
func (s *Slider) BeginDrag(x float64) bool {
	if !s.canSlide() || s.state != StateIdle {
		return false
	}
	s.state = StateDragging
	s.startX = x
	s.offset = 0
	return true
}

// Drag moves the current slide with the pointer
func (s *Slider) Drag(x float64) {
	if s.state != StateDragging {
		return
	}
	s.offset = x - s.startX
}

// EndDrag releases the pointer at x at time now. A drag of at least the
// threshold moves one slide: rightward to the previous, leftward to the next.
// Returns the direction moved: -1, 0 or 1.
func (s *Slider) EndDrag(x float64, now time.Time) int {
	if s.state != StateDragging {
		return 0
	}
	delta := x - s.startX
	s.offset = 0

	if math.Abs(delta) < s.Threshold() {
		s.state = StateIdle
		return 0
	}

	dir := 1
	if delta > 0 {
		dir = -1
	}
	s.commit(dir, now)
	return dir
}

// CancelDrag abandons a drag (pointer left or was cancelled)
func (s *Slider) CancelDrag() {
	if s.state != StateDragging {
		return
	}
	s.offset = 0
	s.state = StateIdle
}

// Next and Prev are the arrow buttons and keys
func (s *Slider) Next(now time.Time) bool { return s.step(1, now) }
func (s *Slider) Prev(now time.Time) bool { return s.step(-1, now) }

func (s *Slider) step(dir int, now time.Time) bool {
	if !s.canSlide() || s.state != StateIdle {
		return false
	}
	s.commit(dir, now)
	return true
}

func (s *Slider) commit(dir int, now time.Time) {
	s.index += dir
	s.state = StateTransitioning
	s.settleAt = now.Add(TransitionDuration)
	s.lastAdvance = now
}

// Settle finishes a transition, jumping from a clone to its real slide
func (s *Slider) Settle() {
	if s.state != StateTransitioning {
		return
	}
	n := len(s.slides)
	switch s.index {
	case 0:
		s.index = n
	case n + 1:
		s.index = 1
	}
	s.state = StateIdle
}

// SetHover and SetFocus pause autoplay while the pointer or keyboard focus
// is on the carousel
func (s *Slider) SetHover(v bool) { s.hovered = v }
func (s *Slider) SetFocus(v bool) { s.focused = v }

// Paused reports whether autoplay is currently held back
func (s *Slider) Paused() bool {
	return s.hovered || s.focused || s.state != StateIdle
}

// Tick drives time: it settles a finished transition and advances autoplay.
// Returns true when autoplay moved to the next slide.
func (s *Slider) Tick(now time.Time) bool {
	if s.state == StateTransitioning && !now.Before(s.settleAt) {
		s.Settle()
	}
	if s.lastAdvance.IsZero() {
		s.lastAdvance = now
	}
	if s.interval <= 0 || !s.canSlide() || s.Paused() {
		return false
	}
	if now.Sub(s.lastAdvance) < s.interval {
		return false
	}
	return s.Next(now)
}
