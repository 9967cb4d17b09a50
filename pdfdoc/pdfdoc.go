// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pdfdoc adapts PDF files to the inkpage.Document interface.
//
// Page geometry comes from the page tree: the CropBox when present,
// otherwise the MediaBox, with 90/270 degree /Rotate values swapping width
// and height. Page rasters are produced by a pluggable Rasterizer; the
// default PaperRasterizer paints blank paper of the right size, which is
// enough to annotate on and keeps this package free of a PDF content
// renderer.
package pdfdoc

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/inkpage"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// US Letter in PDF points, used when a page has neither CropBox nor MediaBox.
const (
	defaultWidth  = 612
	defaultHeight = 792
)

var errClosed = errors.New("pdfdoc: document is closed")

// Page describes one PDF page as seen by the canvas.
type Page struct {
	// Index is the 0-based page number.
	Index int

	// Size is the displayed size in PDF points, after rotation.
	Size inkpage.Size

	// Rotate is the normalized /Rotate value: 0, 90, 180 or 270.
	Rotate int

	// Dict is the page dictionary with inherited attributes resolved.
	Dict pdf.Dict
}

// Rasterizer renders one page to an image of (about) the target size.
type Rasterizer interface {
	Rasterize(r pdf.Getter, page Page, target inkpage.Size) (image.Image, error)
}

// PaperRasterizer renders every page as blank paper.
type PaperRasterizer struct {
	Paper gg.RGBA
}

// Rasterize implements Rasterizer.
func (p PaperRasterizer) Rasterize(_ pdf.Getter, _ Page, target inkpage.Size) (image.Image, error) {
	w, h := max(1, int(target.W+0.5)), max(1, int(target.H+0.5))
	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(p.Paper)
	return dc.Image(), nil
}

// Option configures a Document.
type Option func(*Document)

// WithRasterizer replaces the default PaperRasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(d *Document) {
		if r != nil {
			d.raster = r
		}
	}
}

// Document is an open PDF file. It implements inkpage.Document.
type Document struct {
	r      *pdf.Reader
	pages  []Page
	raster Rasterizer
}

// Open reads the page tree of the named PDF file. Any failure, including
// a malformed page tree, is reported as an *inkpage.LoadError and no
// Document is returned.
func Open(path string, opts ...Option) (*Document, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return nil, &inkpage.LoadError{Page: -1, Err: fmt.Errorf("pdfdoc: open %s: %w", path, err)}
	}
	d, err := New(r, opts...)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	inkpage.Logger().Info("pdfdoc: opened", "path", path, "pages", len(d.pages))
	return d, nil
}

// New wraps an already opened reader. The Document takes ownership of r
// and closes it in Close.
func New(r *pdf.Reader, opts ...Option) (*Document, error) {
	n, err := pagetree.NumPages(r)
	if err != nil {
		return nil, &inkpage.LoadError{Page: -1, Err: fmt.Errorf("pdfdoc: page tree: %w", err)}
	}
	d := &Document{
		r:      r,
		pages:  make([]Page, 0, n),
		raster: PaperRasterizer{Paper: gg.RGB(1, 1, 1)},
	}
	for _, opt := range opts {
		opt(d)
	}
	for i := range n {
		p, err := readPage(r, i)
		if err != nil {
			return nil, &inkpage.LoadError{Page: i, Err: err}
		}
		d.pages = append(d.pages, p)
	}
	return d, nil
}

func readPage(r pdf.Getter, i int) (Page, error) {
	_, dict, err := pagetree.GetPage(r, i)
	if err != nil {
		return Page{}, fmt.Errorf("pdfdoc: page dict: %w", err)
	}

	box, err := pdf.GetRectangle(r, dict["CropBox"])
	if err != nil || box == nil || box.IsZero() {
		box, err = pdf.GetRectangle(r, dict["MediaBox"])
		if err != nil {
			return Page{}, fmt.Errorf("pdfdoc: MediaBox: %w", err)
		}
	}
	size := inkpage.Size{W: defaultWidth, H: defaultHeight}
	if box != nil && !box.IsZero() {
		size = inkpage.Size{W: box.URx - box.LLx, H: box.URy - box.LLy}
	}

	rot, err := pdf.GetInteger(r, dict["Rotate"])
	if err != nil {
		return Page{}, fmt.Errorf("pdfdoc: Rotate: %w", err)
	}
	rotate := normalizeRotation(int(rot))
	if rotate == 90 || rotate == 270 {
		size.W, size.H = size.H, size.W
	}
	return Page{Index: i, Size: size, Rotate: rotate, Dict: dict}, nil
}

// normalizeRotation maps any multiple of 90 into [0, 360). Values that are
// not multiples of 90 are invalid in PDF and treated as 0.
func normalizeRotation(rot int) int {
	if rot%90 != 0 {
		return 0
	}
	return ((rot % 360) + 360) % 360
}

// PageCount implements inkpage.Document.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the description of page i.
func (d *Document) Page(i int) (Page, bool) {
	if i < 0 || i >= len(d.pages) {
		return Page{}, false
	}
	return d.pages[i], true
}

// PageSize implements inkpage.Document.
func (d *Document) PageSize(i int) (inkpage.Size, error) {
	p, ok := d.Page(i)
	if !ok {
		return inkpage.Size{}, fmt.Errorf("%w: %d", inkpage.ErrPageOutOfRange, i)
	}
	return p.Size, nil
}

// RenderPage implements inkpage.Document.
func (d *Document) RenderPage(i int, target inkpage.Size) (image.Image, error) {
	if d.r == nil {
		return nil, errClosed
	}
	p, ok := d.Page(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d", inkpage.ErrPageOutOfRange, i)
	}
	return d.raster.Rasterize(d.r, p, target)
}

// Close releases the underlying file.
func (d *Document) Close() error {
	if d.r == nil {
		return nil
	}
	err := d.r.Close()
	d.r = nil
	return err
}
