package inkpage

import (
	"math"
	"slices"

	"github.com/gogpu/gg"
)

// Pen width bounds, matching the width spinner of the annotator toolbar.
const (
	MinPenWidth = 1.0
	MaxPenWidth = 20.0
)

// StrokeID is an opaque handle to a stroke in a Canvas arena.
// The zero value never names a stroke. IDs are never reused, not even
// across Clear, so a stale handle can not alias a newer stroke.
type StrokeID uint64

// Style is the pen used for a stroke. It is captured when the stroke
// begins; later style changes do not affect existing strokes.
type Style struct {
	Color gg.RGBA
	Width float64
}

// DefaultStyle returns the initial pen: opaque red, width 3.
func DefaultStyle() Style {
	return Style{Color: gg.RGB(1, 0, 0), Width: 3}
}

// normalized clamps the width into [MinPenWidth, MaxPenWidth].
func (s Style) normalized() Style {
	if math.IsNaN(s.Width) || s.Width < MinPenWidth {
		s.Width = MinPenWidth
	} else if s.Width > MaxPenWidth {
		s.Width = MaxPenWidth
	}
	return s
}

// DotPolicy decides what happens to a stroke that is frozen with a single
// point (a click without movement, or a press cut short by focus loss).
type DotPolicy int

const (
	// DotKeep keeps single-point strokes; renderers draw them as a round dot
	// with diameter Style.Width.
	DotKeep DotPolicy = iota

	// DotDiscard removes single-point strokes from the canvas when frozen.
	DotDiscard
)

// String returns the policy name.
func (p DotPolicy) String() string {
	switch p {
	case DotKeep:
		return "keep"
	case DotDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// Stroke is one freehand annotation. Values returned by Canvas are
// snapshots: they own their point slice and never change afterwards.
type Stroke struct {
	id     StrokeID
	style  Style
	points []Point
	frozen bool
	page   int // cached at freeze time, -1 when outside all pages
}

// ID returns the arena handle of the stroke.
func (s Stroke) ID() StrokeID { return s.id }

// Style returns the pen captured when the stroke began.
func (s Stroke) Style() Style { return s.style }

// Len returns the number of points.
func (s Stroke) Len() int { return len(s.points) }

// Points returns a copy of the scene-space points in arrival order.
func (s Stroke) Points() []Point { return slices.Clone(s.points) }

// Frozen reports whether the stroke has been ended.
func (s Stroke) Frozen() bool { return s.frozen }

// IsDot reports whether the stroke consists of exactly one point.
func (s Stroke) IsDot() bool { return len(s.points) == 1 }

// Page returns the index of the page the stroke is anchored to.
// The association is computed once, when the stroke is frozen; ok is false
// for active strokes and for strokes drawn entirely outside every page.
func (s Stroke) Page() (index int, ok bool) {
	if !s.frozen || s.page < 0 {
		return -1, false
	}
	return s.page, true
}

// Bounds returns the scene-space rectangle covered by the stroke,
// including half the pen width on every side.
func (s Stroke) Bounds() Rect {
	if len(s.points) == 0 {
		return Rect{}
	}
	r := Rect{Min: s.points[0], Max: s.points[0]}
	for _, p := range s.points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	half := s.style.Width / 2
	r.Min = r.Min.Sub(Pt(half, half))
	r.Max = r.Max.Add(Pt(half, half))
	return r
}

// snapshot copies the stroke so that later appends to s are not visible.
func (s *Stroke) snapshot() Stroke {
	c := *s
	c.points = slices.Clone(s.points)
	return c
}

// translate moves every point by d. Only used on frozen strokes while the
// page list is rearranged.
func (s *Stroke) translate(d Point) {
	for i := range s.points {
		s.points[i] = s.points[i].Add(d)
	}
}

// anchorPage returns the page containing the most points of the stroke.
// Ties go to the lower page index; -1 means no point lies on a page.
func anchorPage(l *Layout, points []Point) int {
	if l == nil || l.Len() == 0 {
		return -1
	}
	counts := make(map[int]int)
	for _, p := range points {
		if i, ok := l.PageAt(p); ok {
			counts[i]++
		}
	}
	best, bestN := -1, 0
	for i, n := range counts {
		if n > bestN || (n == bestN && i < best) {
			best, bestN = i, n
		}
	}
	return best
}
