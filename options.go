package inkpage

// Option configures a Canvas, View or Session during creation.
//
// Example:
//
//	s := inkpage.NewSession(
//	    inkpage.WithSpacing(40),
//	    inkpage.WithZoomRange(0.25, 8),
//	    inkpage.WithDotPolicy(inkpage.DotDiscard),
//	)
type Option func(*options)

// options holds optional configuration shared by the canvas components.
type options struct {
	spacing     float64
	minScale    float64
	maxScale    float64
	zoomStep    float64
	scrollStep  float64
	renderScale float64
	dots        DotPolicy
	style       Style
}

// Defaults follow the desktop annotator: 20 units between pages, wheel zoom
// by 1.15 per notch, and a zoom range of 0.1x to 10x.
const (
	DefaultMinScale    = 0.1
	DefaultMaxScale    = 10.0
	DefaultZoomStep    = 1.15
	DefaultScrollStep  = 40.0
	DefaultRenderScale = 1.0
)

func defaultOptions() options {
	return options{
		spacing:     DefaultSpacing,
		minScale:    DefaultMinScale,
		maxScale:    DefaultMaxScale,
		zoomStep:    DefaultZoomStep,
		scrollStep:  DefaultScrollStep,
		renderScale: DefaultRenderScale,
		dots:        DotKeep,
		style:       DefaultStyle(),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSpacing sets the vertical gap between pages. Negative values are
// ignored.
func WithSpacing(spacing float64) Option {
	return func(o *options) {
		if spacing >= 0 {
			o.spacing = spacing
		}
	}
}

// WithZoomRange sets the bounds for the view scale. The call is ignored
// unless 0 < lo <= hi.
func WithZoomRange(lo, hi float64) Option {
	return func(o *options) {
		if lo > 0 && lo <= hi {
			o.minScale, o.maxScale = lo, hi
		}
	}
}

// WithZoomStep sets the scale factor applied per Ctrl+wheel notch.
// Values <= 1 are ignored.
func WithZoomStep(step float64) Option {
	return func(o *options) {
		if step > 1 {
			o.zoomStep = step
		}
	}
}

// WithScrollStep sets how many screen pixels a plain wheel notch scrolls.
func WithScrollStep(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.scrollStep = px
		}
	}
}

// WithRenderScale sets the raster resolution of page images relative to
// the native page size. 2 renders pages at twice their point size.
func WithRenderScale(f float64) Option {
	return func(o *options) {
		if f > 0 {
			o.renderScale = f
		}
	}
}

// WithDotPolicy selects how single-point strokes are treated when frozen.
func WithDotPolicy(p DotPolicy) Option {
	return func(o *options) {
		o.dots = p
	}
}

// WithStyle sets the initial pen.
func WithStyle(s Style) Option {
	return func(o *options) {
		o.style = s.normalized()
	}
}
