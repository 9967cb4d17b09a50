package inkpage

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// DefaultSpacing is the vertical gap between consecutive pages in scene units.
const DefaultSpacing = 20.0

// Page is one page of the laid-out document.
type Page struct {
	// Index is the 0-based position of the page in the document.
	Index int

	// Size is the native page size in document units.
	Size Size

	// Origin is the top-left corner of the page in scene space.
	Origin Point
}

// Rect returns the page rectangle in scene space.
func (p Page) Rect() Rect {
	return RectAt(p.Origin, p.Size)
}

// Bottom returns the scene Y coordinate of the lower page edge.
func (p Page) Bottom() float64 {
	return p.Origin.Y + p.Size.H
}

// Layout stacks pages vertically in scene space. Every page is left-aligned
// at X = 0; page i+1 starts Spacing units below the bottom of page i.
//
// Origins are computed once. Only Insert moves existing pages.
type Layout struct {
	pages   []Page
	spacing float64
}

// NewLayout computes the placement of pages with the given native sizes.
// An empty sizes slice yields an empty layout.
func NewLayout(sizes []Size, spacing float64) (*Layout, error) {
	if spacing < 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpacing, spacing)
	}
	l := &Layout{
		pages:   make([]Page, 0, len(sizes)),
		spacing: spacing,
	}
	y := 0.0
	for i, s := range sizes {
		if !s.valid() {
			return nil, fmt.Errorf("%w: page %d is %vx%v", ErrInvalidPageSize, i, s.W, s.H)
		}
		l.pages = append(l.pages, Page{Index: i, Size: s, Origin: Pt(0, y)})
		y += s.H + spacing
	}
	return l, nil
}

// Len returns the number of pages.
func (l *Layout) Len() int {
	if l == nil {
		return 0
	}
	return len(l.pages)
}

// Spacing returns the gap between pages.
func (l *Layout) Spacing() float64 { return l.spacing }

// Page returns the page with the given index.
func (l *Layout) Page(index int) (Page, bool) {
	if index < 0 || index >= l.Len() {
		return Page{}, false
	}
	return l.pages[index], true
}

// Pages returns a copy of all pages in index order.
func (l *Layout) Pages() []Page {
	if l == nil {
		return nil
	}
	return slices.Clone(l.pages)
}

// PageOrigin returns the precomputed scene-space origin of a page.
func (l *Layout) PageOrigin(index int) (Point, bool) {
	p, ok := l.Page(index)
	return p.Origin, ok
}

// PageAt returns the index of the page whose rectangle contains p.
// Points in the gap between pages, beside a narrow page or outside the
// document return ok == false.
func (l *Layout) PageAt(p Point) (index int, ok bool) {
	n := l.Len()
	if n == 0 || !p.finite() {
		return -1, false
	}
	// Page bottoms are strictly increasing, so the first page whose bottom
	// is at or below p.Y is the only candidate.
	i := sort.Search(n, func(i int) bool {
		return l.pages[i].Bottom() >= p.Y
	})
	if i == n || !l.pages[i].Rect().Contains(p) {
		return -1, false
	}
	return i, true
}

// ToPageLocal converts a scene point to coordinates relative to the origin
// of the page containing it.
func (l *Layout) ToPageLocal(p Point) (index int, local Point, ok bool) {
	index, ok = l.PageAt(p)
	if !ok {
		return -1, Point{}, false
	}
	return index, p.Sub(l.pages[index].Origin), true
}

// ToScene converts a page-local point on the given page to scene space.
func (l *Layout) ToScene(index int, local Point) (Point, bool) {
	o, ok := l.PageOrigin(index)
	if !ok {
		return Point{}, false
	}
	return local.Add(o), true
}

// Bounds returns the union of all page rectangles. An empty layout has an
// empty bounds rectangle.
func (l *Layout) Bounds() Rect {
	var r Rect
	for _, p := range l.Pages() {
		r = r.Union(p.Rect())
	}
	return r
}

// Insert places a new page of the given size at index at, shifting that
// page and every following one down by size.H + spacing. Inserting at
// Len() appends. It returns the vertical shift applied to moved pages.
func (l *Layout) Insert(at int, size Size) (dy float64, err error) {
	if at < 0 || at > len(l.pages) {
		return 0, fmt.Errorf("%w: insert at %d of %d", ErrPageOutOfRange, at, len(l.pages))
	}
	if !size.valid() {
		return 0, fmt.Errorf("%w: %vx%v", ErrInvalidPageSize, size.W, size.H)
	}
	y := 0.0
	if at > 0 {
		y = l.pages[at-1].Bottom() + l.spacing
	}
	dy = size.H + l.spacing
	l.pages = slices.Insert(l.pages, at, Page{Index: at, Size: size, Origin: Pt(0, y)})
	for i := at + 1; i < len(l.pages); i++ {
		l.pages[i].Index = i
		l.pages[i].Origin.Y += dy
	}
	return dy, nil
}

func (l *Layout) clone() *Layout {
	if l == nil {
		return nil
	}
	return &Layout{pages: slices.Clone(l.pages), spacing: l.spacing}
}
