package inkpage

import (
	"errors"
	"math"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether all modifiers in m are held.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// PointerKind is the type of a pointer event.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// PointerEvent is one pointer event delivered by the windowing layer.
// Scene is the position already mapped into scene space; Screen is the
// position in view pixels, used for panning.
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	Scene  Point
	Screen Point
	Mods   Modifiers
}

// WheelEvent is a wheel or scroll gesture. DeltaY is in notches; positive
// values point away from the user.
type WheelEvent struct {
	DeltaY float64
	Screen Point
	Mods   Modifiers
}

// Viewport is the view-level collaborator that receives pan and zoom
// gestures. *View implements it.
type Viewport interface {
	Pan(delta Point)
	Zoom(factor float64, anchor Point) float64
}

// Mode is the externally visible state of an Input.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// inputState is the tagged variant of the input state machine.
type inputState interface {
	mode() Mode
}

type idleState struct{}

type drawingState struct {
	stroke StrokeID
}

type panningState struct {
	button Button
	last   Point
}

func (idleState) mode() Mode    { return ModeIdle }
func (drawingState) mode() Mode { return ModeDrawing }
func (panningState) mode() Mode { return ModePanning }

// Input turns pointer events into stroke operations on a Canvas and pan or
// zoom gestures on a Viewport. Events must be delivered in arrival order
// from a single goroutine.
type Input struct {
	canvas     *Canvas
	view       Viewport
	state      inputState
	style      Style
	zoomStep   float64
	scrollStep float64
}

// NewInput creates an idle input state machine.
func NewInput(c *Canvas, v Viewport, opts ...Option) *Input {
	o := applyOptions(opts)
	return &Input{
		canvas:     c,
		view:       v,
		state:      idleState{},
		style:      o.style,
		zoomStep:   o.zoomStep,
		scrollStep: o.scrollStep,
	}
}

// Mode returns the current state.
func (in *Input) Mode() Mode { return in.state.mode() }

// Drawing returns the handle of the stroke being authored.
func (in *Input) Drawing() (StrokeID, bool) {
	if d, ok := in.state.(drawingState); ok {
		return d.stroke, true
	}
	return 0, false
}

// Style returns the pen used for the next stroke.
func (in *Input) Style() Style { return in.style }

// SetStyle changes the pen for the next stroke. The active stroke keeps the
// style it was created with.
func (in *Input) SetStyle(s Style) { in.style = s.normalized() }

// HandlePointer processes one pointer event. Invalid transitions are
// ignored; errors never leave the state machine.
func (in *Input) HandlePointer(ev PointerEvent) {
	if in.canvas.PageCount() == 0 {
		in.state = idleState{}
		return
	}
	switch st := in.state.(type) {
	case idleState:
		in.idle(ev)
	case drawingState:
		in.drawing(st, ev)
	case panningState:
		in.panning(st, ev)
	}
}

func (in *Input) idle(ev PointerEvent) {
	if ev.Kind != PointerPress {
		// Stray move or release, e.g. a button released outside the canvas.
		return
	}
	if in.isPanGesture(ev) {
		in.state = panningState{button: ev.Button, last: ev.Screen}
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}
	id, err := in.canvas.BeginStroke(ev.Scene, in.style)
	if err != nil {
		Logger().Debug("inkpage: press ignored", "err", err)
		return
	}
	in.state = drawingState{stroke: id}
}

func (in *Input) drawing(st drawingState, ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		err := in.canvas.ExtendStroke(st.stroke, ev.Scene)
		if errors.Is(err, ErrInvalidStroke) {
			// The stroke was terminated behind our back (document reload).
			in.state = idleState{}
		}
		if err != nil {
			Logger().Debug("inkpage: move ignored", "stroke", st.stroke, "err", err)
		}
	case PointerRelease:
		if ev.Button != ButtonPrimary {
			return
		}
		if err := in.canvas.EndStroke(st.stroke); err != nil {
			Logger().Debug("inkpage: release ignored", "stroke", st.stroke, "err", err)
		}
		in.state = idleState{}
	}
}

func (in *Input) panning(st panningState, ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		in.view.Pan(ev.Screen.Sub(st.last))
		in.state = panningState{button: st.button, last: ev.Screen}
	case PointerRelease:
		if ev.Button == st.button {
			in.state = idleState{}
		}
	}
}

// isPanGesture reports whether a press starts panning instead of drawing:
// secondary or middle button, or primary with Alt held.
func (in *Input) isPanGesture(ev PointerEvent) bool {
	switch ev.Button {
	case ButtonSecondary, ButtonMiddle:
		return true
	default:
		return ev.Mods.Has(ModAlt)
	}
}

// HandleWheel zooms toward the pointer when Ctrl is held and scrolls
// otherwise (horizontally with Shift).
func (in *Input) HandleWheel(ev WheelEvent) {
	if in.canvas.PageCount() == 0 || ev.DeltaY == 0 || math.IsNaN(ev.DeltaY) {
		return
	}
	switch {
	case ev.Mods.Has(ModCtrl):
		factor := in.zoomStep
		if ev.DeltaY < 0 {
			factor = 1 / in.zoomStep
		}
		in.view.Zoom(factor, ev.Screen)
	case ev.Mods.Has(ModShift):
		in.view.Pan(Pt(ev.DeltaY*in.scrollStep, 0))
	default:
		in.view.Pan(Pt(0, ev.DeltaY*in.scrollStep))
	}
}

// FocusLost terminates any gesture in progress. An active stroke is frozen
// with whatever points it has.
func (in *Input) FocusLost() {
	if d, ok := in.state.(drawingState); ok {
		if err := in.canvas.EndStroke(d.stroke); err != nil {
			Logger().Debug("inkpage: focus loss", "stroke", d.stroke, "err", err)
		}
	}
	in.state = idleState{}
}
