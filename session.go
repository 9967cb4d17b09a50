package inkpage

import (
	"context"
	"errors"
	"image"

	"github.com/google/uuid"
)

// Session ties one open document to its canvas, view and input state
// machine. It is the entry point used by frontends: documents are opened
// through it and all pointer, wheel and style events are routed through it.
//
// Session is NOT safe for concurrent use; deliver events from one goroutine.
type Session struct {
	canvas      *Canvas
	view        *View
	input       *Input
	renderScale float64

	docID   uuid.UUID
	loading bool
}

// NewSession creates a session with an empty canvas.
func NewSession(opts ...Option) *Session {
	o := applyOptions(opts)
	c := NewCanvas(opts...)
	v := NewView(opts...)
	return &Session{
		canvas:      c,
		view:        v,
		input:       NewInput(c, v, opts...),
		renderScale: o.renderScale,
	}
}

// Canvas returns the session canvas.
func (s *Session) Canvas() *Canvas { return s.canvas }

// View returns the session view transform.
func (s *Session) View() *View { return s.view }

// Input returns the session input state machine.
func (s *Session) Input() *Input { return s.input }

// DocumentID identifies the currently loaded document. It changes on every
// successful Open and is uuid.Nil before the first one.
func (s *Session) DocumentID() uuid.UUID { return s.docID }

// Open loads doc onto the canvas. Loading is all-or-nothing: every page is
// measured and rendered before the canvas is touched, so on failure the
// previous document stays in place. On success an active stroke is ended,
// the canvas is cleared and repopulated, and the view is reset.
//
// ctx is checked between pages.
func (s *Session) Open(ctx context.Context, doc Document) error {
	if s.loading {
		return &LoadError{Page: -1, Err: ErrBusy}
	}
	s.loading = true
	defer func() { s.loading = false }()

	layout, images, err := s.stage(ctx, doc)
	if err != nil {
		Logger().Warn("inkpage: document load failed", "err", err)
		return err
	}

	s.input.FocusLost()
	s.canvas.Clear()
	if err := s.canvas.SetLayout(layout); err != nil {
		return &LoadError{Page: -1, Err: err}
	}
	for i, img := range images {
		if err := s.canvas.AddPage(i, img); err != nil {
			return &LoadError{Page: i, Err: err}
		}
	}
	s.view.Reset()
	s.docID = uuid.New()

	Logger().Info("inkpage: document loaded",
		"doc", s.docID.String(),
		"pages", layout.Len(),
		"width", layout.Bounds().Width(),
		"height", layout.Bounds().Height())
	return nil
}

// stage measures and renders every page without touching the canvas.
func (s *Session) stage(ctx context.Context, doc Document) (*Layout, []image.Image, error) {
	if doc == nil {
		return nil, nil, &LoadError{Page: -1, Err: errors.New("nil document")}
	}
	n := doc.PageCount()
	if n < 0 {
		return nil, nil, &LoadError{Page: -1, Err: errors.New("negative page count")}
	}

	sizes := make([]Size, n)
	for i := range sizes {
		size, err := doc.PageSize(i)
		if err != nil {
			return nil, nil, &LoadError{Page: i, Err: err}
		}
		sizes[i] = size
	}
	layout, err := NewLayout(sizes, s.canvas.Layout().Spacing())
	if err != nil {
		return nil, nil, &LoadError{Page: -1, Err: err}
	}

	images := make([]image.Image, n)
	for i, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, nil, &LoadError{Page: i, Err: err}
		}
		target := size.Scale(s.renderScale)
		img, err := doc.RenderPage(i, target)
		if err != nil {
			return nil, nil, &LoadError{Page: i, Err: err}
		}
		if img == nil {
			return nil, nil, &LoadError{Page: i, Err: errors.New("renderer returned no image")}
		}
		images[i] = FitImage(img, target)
	}
	return layout, images, nil
}

// Close ends any gesture and clears the canvas.
func (s *Session) Close() {
	s.input.FocusLost()
	s.canvas.Clear()
	s.view.Reset()
	s.docID = uuid.Nil
}

// HandlePointer routes a pointer event to the input state machine.
func (s *Session) HandlePointer(ev PointerEvent) { s.input.HandlePointer(ev) }

// HandleWheel routes a wheel event to the input state machine.
func (s *Session) HandleWheel(ev WheelEvent) { s.input.HandleWheel(ev) }

// FocusLost terminates the gesture in progress.
func (s *Session) FocusLost() { s.input.FocusLost() }

// SetStyle sets the pen for the next stroke.
func (s *Session) SetStyle(st Style) { s.input.SetStyle(st) }

// PointerAt builds a pointer event from a screen position, mapping it to
// scene space through the current view.
func (s *Session) PointerAt(kind PointerKind, b Button, screen Point, mods Modifiers) PointerEvent {
	return PointerEvent{
		Kind:   kind,
		Button: b,
		Scene:  s.view.ScreenToScene(screen),
		Screen: screen,
		Mods:   mods,
	}
}
