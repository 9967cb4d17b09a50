package inkpage

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"
)

func press(p Point) PointerEvent {
	return PointerEvent{Kind: PointerPress, Button: ButtonPrimary, Scene: p, Screen: p}
}

func move(p Point) PointerEvent {
	return PointerEvent{Kind: PointerMove, Button: ButtonPrimary, Scene: p, Screen: p}
}

func release(p Point) PointerEvent {
	return PointerEvent{Kind: PointerRelease, Button: ButtonPrimary, Scene: p, Screen: p}
}

func newTestInput(t *testing.T, opts ...Option) (*Input, *Canvas, *View) {
	t.Helper()
	c := newTestCanvas(t, opts...)
	v := NewView(opts...)
	return NewInput(c, v, opts...), c, v
}

func TestInputScenario(t *testing.T) {
	in, c, _ := newTestInput(t)
	in.HandlePointer(press(Pt(100, 100)))
	drawing, ok := in.Drawing()
	if active, _ := c.Active(); !ok || drawing != active {
		t.Fatalf("Drawing() = %d, %v; want active stroke %d", drawing, ok, active)
	}
	in.HandlePointer(move(Pt(100, 200)))
	in.HandlePointer(release(Pt(100, 200)))
	if _, ok := in.Drawing(); ok {
		t.Error("Drawing() still reports a stroke after release")
	}

	strokes := c.AllStrokes()
	if len(strokes) != 1 {
		t.Fatalf("AllStrokes() = %d strokes, want 1", len(strokes))
	}
	s := strokes[0]
	if diff := cmp.Diff([]Point{Pt(100, 100), Pt(100, 200)}, s.Points()); diff != "" {
		t.Errorf("Points() mismatch (-want +got):\n%s", diff)
	}
	for _, p := range s.Points() {
		if i, ok := c.PageAt(p); !ok || i != 0 {
			t.Errorf("point %v on page (%d, %v), want page 0", p, i, ok)
		}
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", in.Mode())
	}
}

func TestInputPointCountMatchesMoves(t *testing.T) {
	for _, moves := range []int{0, 1, 2, 17, 100} {
		in, c, _ := newTestInput(t)
		in.HandlePointer(press(Pt(10, 10)))
		want := []Point{Pt(10, 10)}
		for i := range moves {
			p := Pt(10+float64(i), 10+math.Sin(float64(i))*5)
			in.HandlePointer(move(p))
			want = append(want, p)
		}
		in.HandlePointer(release(Pt(0, 0)))

		s := c.AllStrokes()[0]
		if s.Len() != moves+1 {
			t.Errorf("%d moves: Len() = %d, want %d", moves, s.Len(), moves+1)
		}
		if diff := cmp.Diff(want, s.Points()); diff != "" {
			t.Errorf("%d moves: order mismatch (-want +got):\n%s", moves, diff)
		}
	}
}

func TestInputStrayEvents(t *testing.T) {
	in, c, _ := newTestInput(t)
	in.HandlePointer(release(Pt(10, 10)))
	in.HandlePointer(move(Pt(20, 20)))
	in.HandlePointer(release(Pt(30, 30)))
	if got := c.AllStrokes(); len(got) != 0 {
		t.Fatalf("stray events created %d strokes", len(got))
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", in.Mode())
	}

	// A finished stroke is not touched by later stray moves.
	in.HandlePointer(press(Pt(1, 1)))
	in.HandlePointer(release(Pt(1, 1)))
	in.HandlePointer(move(Pt(5, 5)))
	in.HandlePointer(release(Pt(5, 5)))
	strokes := c.AllStrokes()
	if len(strokes) != 1 {
		t.Fatalf("after stray move: %d strokes, want 1", len(strokes))
	}
	if strokes[0].Len() != 1 {
		t.Errorf("stray move extended a frozen stroke to %d points", strokes[0].Len())
	}
}

func TestInputNoPagesIsNoop(t *testing.T) {
	c := NewCanvas()
	v := NewView()
	in := NewInput(c, v)

	in.HandlePointer(press(Pt(1, 1)))
	in.HandlePointer(move(Pt(2, 2)))
	in.HandlePointer(PointerEvent{Kind: PointerPress, Button: ButtonMiddle, Screen: Pt(0, 0)})
	in.HandlePointer(PointerEvent{Kind: PointerMove, Button: ButtonMiddle, Screen: Pt(50, 50)})
	in.HandleWheel(WheelEvent{DeltaY: 1, Screen: Pt(5, 5), Mods: ModCtrl})

	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", in.Mode())
	}
	if len(c.AllStrokes()) != 0 {
		t.Error("stroke created without pages")
	}
	if v.Scale() != 1 || v.Offset() != (Point{}) {
		t.Errorf("view changed without pages: scale=%v offset=%v", v.Scale(), v.Offset())
	}
}

func TestInputPanning(t *testing.T) {
	tests := []struct {
		name   string
		button Button
		mods   Modifiers
	}{
		{"secondary", ButtonSecondary, 0},
		{"middle", ButtonMiddle, 0},
		{"alt primary", ButtonPrimary, ModAlt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, c, v := newTestInput(t)
			in.HandlePointer(PointerEvent{Kind: PointerPress, Button: tt.button, Screen: Pt(100, 100), Mods: tt.mods})
			if in.Mode() != ModePanning {
				t.Fatalf("Mode() = %v, want panning", in.Mode())
			}
			in.HandlePointer(PointerEvent{Kind: PointerMove, Button: tt.button, Screen: Pt(110, 90)})
			in.HandlePointer(PointerEvent{Kind: PointerMove, Button: tt.button, Screen: Pt(130, 95)})
			in.HandlePointer(PointerEvent{Kind: PointerRelease, Button: tt.button, Screen: Pt(130, 95)})

			if v.Offset() != Pt(30, -5) {
				t.Errorf("Offset() = %v, want {30 -5}", v.Offset())
			}
			if in.Mode() != ModeIdle {
				t.Errorf("Mode() = %v, want idle", in.Mode())
			}
			if len(c.AllStrokes()) != 0 {
				t.Error("panning created a stroke")
			}
		})
	}
}

func TestInputSecondaryReleaseWhileDrawing(t *testing.T) {
	in, c, _ := newTestInput(t)
	in.HandlePointer(press(Pt(10, 10)))
	in.HandlePointer(PointerEvent{Kind: PointerRelease, Button: ButtonSecondary, Scene: Pt(10, 10)})
	if in.Mode() != ModeDrawing {
		t.Fatalf("Mode() = %v, want drawing", in.Mode())
	}
	in.HandlePointer(move(Pt(20, 20)))
	in.HandlePointer(release(Pt(20, 20)))
	if s := c.AllStrokes()[0]; s.Len() != 2 || !s.Frozen() {
		t.Errorf("stroke Len=%d Frozen=%v, want 2 and true", s.Len(), s.Frozen())
	}
}

func TestInputStyleAppliesToNextStroke(t *testing.T) {
	in, c, _ := newTestInput(t)
	blue := Style{Color: gg.RGB(0, 0, 1), Width: 8}

	in.HandlePointer(press(Pt(10, 10)))
	in.SetStyle(blue)
	in.HandlePointer(move(Pt(20, 20)))
	in.HandlePointer(release(Pt(20, 20)))

	in.HandlePointer(press(Pt(30, 30)))
	in.HandlePointer(release(Pt(30, 30)))

	strokes := c.AllStrokes()
	if strokes[0].Style() != DefaultStyle() {
		t.Errorf("first stroke style = %+v, want default", strokes[0].Style())
	}
	if strokes[1].Style() != blue {
		t.Errorf("second stroke style = %+v, want %+v", strokes[1].Style(), blue)
	}
}

func TestInputFocusLost(t *testing.T) {
	in, c, _ := newTestInput(t)
	in.HandlePointer(press(Pt(10, 10)))
	in.FocusLost()

	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", in.Mode())
	}
	s := c.AllStrokes()[0]
	if !s.Frozen() || !s.IsDot() {
		t.Errorf("aborted stroke Frozen=%v IsDot=%v, want both true", s.Frozen(), s.IsDot())
	}
	in.HandlePointer(move(Pt(50, 50)))
	if got, _ := c.Stroke(s.ID()); got.Len() != 1 {
		t.Errorf("move after focus loss extended the stroke to %d points", got.Len())
	}
}

func TestInputRecoversFromExternalEnd(t *testing.T) {
	in, c, _ := newTestInput(t)
	in.HandlePointer(press(Pt(10, 10)))
	c.AbortActive()

	in.HandlePointer(move(Pt(20, 20)))
	if in.Mode() != ModeIdle {
		t.Fatalf("Mode() = %v, want idle after external end", in.Mode())
	}
	in.HandlePointer(press(Pt(30, 30)))
	if in.Mode() != ModeDrawing {
		t.Errorf("Mode() = %v, want drawing", in.Mode())
	}
}

func TestInputWheel(t *testing.T) {
	in, _, v := newTestInput(t)

	in.HandleWheel(WheelEvent{DeltaY: 1, Screen: Pt(200, 100), Mods: ModCtrl})
	if math.Abs(v.Scale()-DefaultZoomStep) > 1e-12 {
		t.Errorf("Scale() after ctrl+wheel up = %v, want %v", v.Scale(), DefaultZoomStep)
	}
	in.HandleWheel(WheelEvent{DeltaY: -1, Screen: Pt(200, 100), Mods: ModCtrl})
	if math.Abs(v.Scale()-1) > 1e-12 {
		t.Errorf("Scale() after ctrl+wheel down = %v, want 1", v.Scale())
	}

	v.Reset()
	in.HandleWheel(WheelEvent{DeltaY: -2, Screen: Pt(0, 0)})
	if v.Offset() != Pt(0, -2*DefaultScrollStep) {
		t.Errorf("Offset() after scroll = %v", v.Offset())
	}
	in.HandleWheel(WheelEvent{DeltaY: 1, Screen: Pt(0, 0), Mods: ModShift})
	if v.Offset() != Pt(DefaultScrollStep, -2*DefaultScrollStep) {
		t.Errorf("Offset() after shift scroll = %v", v.Offset())
	}
}

func TestInputLogsRejectedPress(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	in, c, _ := newTestInput(t)
	// Another component holds the active stroke.
	if _, err := c.BeginStroke(Pt(1, 1), DefaultStyle()); err != nil {
		t.Fatal(err)
	}
	in.HandlePointer(press(Pt(5, 5)))

	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", in.Mode())
	}
	if !strings.Contains(buf.String(), "press ignored") {
		t.Errorf("expected debug log for rejected press, got: %s", buf.String())
	}
}
