package slider

// ViewerSwipeThreshold is the swipe distance in pixels for the full-screen viewer
const ViewerSwipeThreshold = 50

// Viewer is the full-screen image modal opened by tapping a slide
type Viewer struct {
	total   int
	current int
	open    bool
}

// OpenViewer opens the viewer on the visible slide. Taps that end a drag are ignored.
func (s *Slider) OpenViewer() *Viewer {
	if s.state == StateDragging {
		return nil
	}
	return &Viewer{total: len(s.slides), current: s.Current(), open: true}
}

func (v *Viewer) Current() int { return v.current }
func (v *Viewer) IsOpen() bool { return v.open }

func (v *Viewer) Next() { v.current = v.current%v.total + 1 }
func (v *Viewer) Prev() { v.current = (v.current-2+v.total)%v.total + 1 }

// Close hides the viewer (Escape or the close button)
func (v *Viewer) Close() { v.open = false }

// Swipe handles a finished touch gesture of delta pixels
func (v *Viewer) Swipe(delta float64) {
	switch {
	case delta >= ViewerSwipeThreshold:
		v.Prev()
	case delta <= -ViewerSwipeThreshold:
		v.Next()
	}
}

// Key handles ArrowLeft, ArrowRight and Escape
func (v *Viewer) Key(key string) {
	switch key {
	case "ArrowLeft":
		v.Prev()
	case "ArrowRight":
		v.Next()
	case "Escape":
		v.Close()
	}
}
