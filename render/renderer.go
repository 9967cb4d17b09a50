// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/inkpage"
)

// ErrNilContext is returned when Render is called without a drawing context.
var ErrNilContext = errors.New("render: nil context")

// Theme holds the colors used around the annotations.
type Theme struct {
	// Background fills the viewport outside the pages.
	Background gg.RGBA

	// Paper fills each page rectangle behind its image.
	Paper gg.RGBA

	// Border outlines each page.
	Border gg.RGBA
}

// DefaultTheme returns a light gray desk with white, gray-bordered pages.
func DefaultTheme() Theme {
	return Theme{
		Background: gg.RGB(0.82, 0.82, 0.82),
		Paper:      gg.RGB(1, 1, 1),
		Border:     gg.Hex("#a0a0a4"),
	}
}

// cachedImage is a page image converted for gg.
type cachedImage struct {
	src image.Image
	buf *gg.ImageBuf
}

// Renderer draws canvas snapshots. It keeps converted page images between
// frames, keyed by page index; an entry is refreshed when the page image
// changes. Page images must be pointer types (all image package types are).
type Renderer struct {
	Theme Theme

	images map[int]cachedImage
}

// NewRenderer creates a Renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{
		Theme:  DefaultTheme(),
		images: make(map[int]cachedImage),
	}
}

// Render draws snap as seen through view onto dc, replacing its content.
func (r *Renderer) Render(dc *gg.Context, snap inkpage.Snapshot, view *inkpage.View) error {
	if dc == nil {
		return ErrNilContext
	}
	if view == nil {
		view = inkpage.NewView()
	}
	dc.Identity()
	dc.ClearWithColor(r.Theme.Background)

	visible := inkpage.Rect{
		Min: view.ScreenToScene(inkpage.Pt(0, 0)),
		Max: view.ScreenToScene(inkpage.Pt(float64(dc.Width()), float64(dc.Height()))),
	}
	m := view.Matrix()
	scale := view.Scale()

	r.evict(snap)
	for _, p := range snap.Pages {
		if !overlaps(p.Rect(), visible) {
			continue
		}
		var img image.Image
		if p.Index < len(snap.Images) {
			img = snap.Images[p.Index]
		}
		if err := r.drawPage(dc, m, scale, p, img); err != nil {
			return fmt.Errorf("render: page %d: %w", p.Index, err)
		}
	}
	for _, s := range snap.Strokes {
		if !overlaps(s.Bounds(), visible) {
			continue
		}
		if err := drawStroke(dc, m, scale, s); err != nil {
			return fmt.Errorf("render: stroke %d: %w", s.ID(), err)
		}
	}
	return nil
}

func (r *Renderer) drawPage(dc *gg.Context, m gg.Matrix, scale float64, p inkpage.Page, img image.Image) error {
	tl := m.TransformPoint(gg.Pt(p.Origin.X, p.Origin.Y))
	w, h := p.Size.W*scale, p.Size.H*scale

	dc.SetColor(r.Theme.Paper.Color())
	dc.DrawRectangle(tl.X, tl.Y, w, h)
	if err := dc.Fill(); err != nil {
		return err
	}

	if img != nil {
		dc.DrawImageEx(r.imageBuf(p.Index, img), gg.DrawImageOptions{
			X:             tl.X,
			Y:             tl.Y,
			DstWidth:      w,
			DstHeight:     h,
			Interpolation: gg.InterpBilinear,
			Opacity:       1,
			BlendMode:     gg.BlendNormal,
		})
	}

	dc.SetColor(r.Theme.Border.Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(tl.X, tl.Y, w, h)
	return dc.Stroke()
}

func (r *Renderer) imageBuf(index int, img image.Image) *gg.ImageBuf {
	if c, ok := r.images[index]; ok && c.src == img {
		return c.buf
	}
	buf := gg.ImageBufFromImage(img)
	r.images[index] = cachedImage{src: img, buf: buf}
	return buf
}

// evict drops cached conversions of images no longer on the canvas.
func (r *Renderer) evict(snap inkpage.Snapshot) {
	for i, c := range r.images {
		if i >= len(snap.Images) || snap.Images[i] != c.src {
			delete(r.images, i)
		}
	}
}

// drawStroke draws a polyline with round caps and joins; single-point
// strokes become a dot of the pen diameter.
func drawStroke(dc *gg.Context, m gg.Matrix, scale float64, s inkpage.Stroke) error {
	st := s.Style()
	width := st.Width * scale
	dc.SetRGBA(st.Color.R, st.Color.G, st.Color.B, st.Color.A)

	pts := s.Points()
	if len(pts) == 1 {
		c := m.TransformPoint(gg.Pt(pts[0].X, pts[0].Y))
		dc.DrawCircle(c.X, c.Y, width/2)
		return dc.Fill()
	}

	dc.SetStroke(gg.DefaultStroke().
		WithWidth(width).
		WithCap(gg.LineCapRound).
		WithJoin(gg.LineJoinRound))
	for i, p := range pts {
		q := m.TransformPoint(gg.Pt(p.X, p.Y))
		if i == 0 {
			dc.MoveTo(q.X, q.Y)
		} else {
			dc.LineTo(q.X, q.Y)
		}
	}
	return dc.Stroke()
}

func overlaps(a, b inkpage.Rect) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// Frame renders the session's current state into a new width x height
// context.
func Frame(r *Renderer, s *inkpage.Session, width, height int) (*gg.Context, error) {
	dc := gg.NewContext(width, height)
	if err := r.Render(dc, s.Canvas().Snapshot(), s.View()); err != nil {
		_ = dc.Close()
		return nil, err
	}
	return dc, nil
}

// WritePNG renders the session into a width x height PNG.
func WritePNG(w io.Writer, s *inkpage.Session, width, height int) error {
	dc, err := Frame(NewRenderer(), s, width, height)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	inkpage.Logger().Debug("render: frame written", "width", width, "height", height,
		"strokes", len(s.Canvas().AllStrokes()))
	return nil
}
