package inkpage

import (
	"math"

	"github.com/gogpu/gg"
)

// View is the presentation transform of the canvas:
//
//	screen = scene*scale + offset
//
// It never touches page or stroke coordinates; renderers apply Matrix to
// draw the canonical scene-space data.
type View struct {
	scale    float64
	offset   Point
	minScale float64
	maxScale float64
}

// NewView returns an identity view with the zoom range from opts.
func NewView(opts ...Option) *View {
	o := applyOptions(opts)
	v := &View{
		minScale: o.minScale,
		maxScale: o.maxScale,
	}
	v.Reset()
	return v
}

// Scale returns the current zoom factor.
func (v *View) Scale() float64 { return v.scale }

// Offset returns the current pan offset in screen pixels.
func (v *View) Offset() Point { return v.offset }

// ScaleRange returns the zoom bounds.
func (v *View) ScaleRange() (lo, hi float64) { return v.minScale, v.maxScale }

// Reset restores zero pan and scale 1, or the nearest bound of the zoom
// range when 1 lies outside it.
func (v *View) Reset() {
	v.scale = min(max(1, v.minScale), v.maxScale)
	v.offset = Point{}
}

// Zoom multiplies the scale by factor, clamped to the zoom range, keeping
// the screen point anchor fixed. Non-positive or non-finite factors are
// ignored. It returns the scale actually applied.
func (v *View) Zoom(factor float64, anchor Point) float64 {
	if !(factor > 0) || math.IsInf(factor, 0) || !anchor.finite() {
		return v.scale
	}
	next := min(max(v.scale*factor, v.minScale), v.maxScale)
	if next == v.scale {
		return v.scale
	}
	ratio := next / v.scale
	v.offset = anchor.Sub(anchor.Sub(v.offset).Mul(ratio))
	v.scale = next
	return v.scale
}

// Pan moves the view by delta screen pixels. Panning is unbounded.
func (v *View) Pan(delta Point) {
	if !delta.finite() {
		return
	}
	v.offset = v.offset.Add(delta)
}

// SceneToScreen maps a scene point to screen pixels.
func (v *View) SceneToScreen(p Point) Point {
	return p.Mul(v.scale).Add(v.offset)
}

// ScreenToScene maps a screen pixel to scene space.
func (v *View) ScreenToScene(p Point) Point {
	return p.Sub(v.offset).Mul(1 / v.scale)
}

// Matrix returns the scene-to-screen transform for a gg.Context.
func (v *View) Matrix() gg.Matrix {
	return gg.Translate(v.offset.X, v.offset.Y).Multiply(gg.Scale(v.scale, v.scale))
}
