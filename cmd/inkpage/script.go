package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/inkpage"
)

// Step is one line of an event script. X and Y are screen coordinates;
// they are mapped into the scene through the session's view when the step
// is applied, so a script interleaving wheel zooms and strokes behaves
// like a recorded interactive session.
type Step struct {
	Type   string   `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Button string   `json:"button,omitempty"`
	Mods   []string `json:"mods,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Color  string   `json:"color,omitempty"`
	Width  float64  `json:"width,omitempty"`
}

var errUnknownStep = errors.New("unknown step")

// ParseScript reads one JSON object per line. Blank lines and lines
// starting with # are skipped.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var st Step
		if err := json.Unmarshal([]byte(text), &st); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		steps = append(steps, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

func (st Step) validate() error {
	switch st.Type {
	case "press", "move", "release", "wheel", "focuslost", "style":
	default:
		return fmt.Errorf("%w %q", errUnknownStep, st.Type)
	}
	if _, err := st.button(); err != nil {
		return err
	}
	if _, err := st.mods(); err != nil {
		return err
	}
	return nil
}

func (st Step) button() (inkpage.Button, error) {
	switch st.Button {
	case "", "primary", "left":
		return inkpage.ButtonPrimary, nil
	case "secondary", "right":
		return inkpage.ButtonSecondary, nil
	case "middle":
		return inkpage.ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", st.Button)
}

func (st Step) mods() (inkpage.Modifiers, error) {
	var m inkpage.Modifiers
	for _, name := range st.Mods {
		switch strings.ToLower(name) {
		case "shift":
			m |= inkpage.ModShift
		case "ctrl", "control":
			m |= inkpage.ModCtrl
		case "alt":
			m |= inkpage.ModAlt
		default:
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return m, nil
}

// Apply feeds the steps to s in order.
func Apply(s *inkpage.Session, steps []Step) {
	for _, st := range steps {
		// validate already rejected bad buttons and modifiers.
		b, _ := st.button()
		m, _ := st.mods()
		screen := inkpage.Pt(st.X, st.Y)

		switch st.Type {
		case "press":
			s.HandlePointer(s.PointerAt(inkpage.PointerPress, b, screen, m))
		case "move":
			s.HandlePointer(s.PointerAt(inkpage.PointerMove, b, screen, m))
		case "release":
			s.HandlePointer(s.PointerAt(inkpage.PointerRelease, b, screen, m))
		case "wheel":
			s.HandleWheel(inkpage.WheelEvent{DeltaY: st.DY, Screen: screen, Mods: m})
		case "focuslost":
			s.FocusLost()
		case "style":
			style := s.Input().Style()
			if st.Color != "" {
				style.Color = gg.Hex(st.Color)
			}
			if st.Width != 0 {
				style.Width = st.Width
			}
			s.SetStyle(style)
		}
	}
}
