package inkpage

import (
	"fmt"
	"image"
	"io"
	"slices"
	"sync"
)

// Canvas is the arena that owns the pages, their rendered images and all
// strokes of one open document. Pages are addressed by index, strokes by
// StrokeID.
//
// Canvas is driven from a single goroutine. Its state is additionally
// guarded by a read/write lock so that a renderer running on another
// callback always reads whole point lists (see Snapshot).
type Canvas struct {
	mu sync.RWMutex

	layout  *Layout
	images  []image.Image
	strokes map[StrokeID]*Stroke
	order   []StrokeID

	active StrokeID
	nextID StrokeID

	dots DotPolicy

	// version is incremented on each mutation for render cache invalidation.
	version uint64
}

// NewCanvas creates an empty canvas.
func NewCanvas(opts ...Option) *Canvas {
	o := applyOptions(opts)
	return &Canvas{
		layout:  &Layout{spacing: o.spacing},
		strokes: make(map[StrokeID]*Stroke),
		dots:    o.dots,
	}
}

// Version returns a counter that changes whenever the canvas changes.
func (c *Canvas) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Layout returns a copy of the current page layout.
func (c *Canvas) Layout() *Layout {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout.clone()
}

// PageCount returns the number of pages on the canvas.
func (c *Canvas) PageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout.Len()
}

// PageAt returns the index of the page containing the scene point p.
func (c *Canvas) PageAt(p Point) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout.PageAt(p)
}

// SetLayout replaces the page list. Page images are dropped and the page
// anchors of existing strokes are recomputed against the new layout.
// It fails with ErrStrokeActive while a stroke is being authored.
func (c *Canvas) SetLayout(l *Layout) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l == nil {
		l = &Layout{spacing: c.layout.Spacing()}
	}
	if c.active != 0 {
		return ErrStrokeActive
	}
	c.releaseImages()
	c.layout = l.clone()
	c.images = make([]image.Image, l.Len())
	for _, s := range c.strokes {
		s.page = anchorPage(c.layout, s.points)
	}
	c.version++
	return nil
}

// AddPage attaches the rendered image of a page in the current layout.
// A previous image of the same page is released.
func (c *Canvas) AddPage(index int, img image.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.layout.Len() {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	if old := c.images[index]; old != nil && old != img {
		releaseImage(index, old)
	}
	c.images[index] = img
	c.version++
	return nil
}

// PageImage returns the rendered image of a page, or nil.
func (c *Canvas) PageImage(index int) image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.images) {
		return nil
	}
	return c.images[index]
}

// Clear removes all pages, images and strokes. An active stroke is ended
// first, so no handle is left dangling. Page images implementing io.Closer
// are closed.
func (c *Canvas) Clear() {
	if id, ok := c.Active(); ok {
		_ = c.EndStroke(id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseImages()
	c.layout = &Layout{spacing: c.layout.spacing}
	c.images = nil
	clear(c.strokes)
	c.order = nil
	c.active = 0
	c.version++
}

// BeginStroke starts a new stroke at p with the given style and makes it
// the active stroke. The style width is clamped to the pen width range.
func (c *Canvas) BeginStroke(p Point, style Style) (StrokeID, error) {
	if !p.finite() {
		return 0, ErrInvalidPoint
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layout.Len() == 0 {
		return 0, ErrNoPages
	}
	if c.active != 0 {
		return 0, ErrStrokeActive
	}
	c.nextID++
	id := c.nextID
	c.strokes[id] = &Stroke{
		id:     id,
		style:  style.normalized(),
		points: []Point{p},
		page:   -1,
	}
	c.order = append(c.order, id)
	c.active = id
	c.version++
	return id, nil
}

// ExtendStroke appends p to the active stroke. Any other handle, including
// frozen strokes, is rejected with ErrInvalidStroke and nothing changes.
func (c *Canvas) ExtendStroke(id StrokeID, p Point) error {
	if !p.finite() {
		return ErrInvalidPoint
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == 0 || id != c.active {
		return fmt.Errorf("%w: extend %d", ErrInvalidStroke, id)
	}
	s := c.strokes[id]
	s.points = append(s.points, p)
	c.version++
	return nil
}

// EndStroke freezes the active stroke and anchors it to the page holding
// most of its points. With DotDiscard a single-point stroke is removed.
func (c *Canvas) EndStroke(id StrokeID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == 0 || id != c.active {
		return fmt.Errorf("%w: end %d", ErrInvalidStroke, id)
	}
	s := c.strokes[id]
	s.frozen = true
	s.page = anchorPage(c.layout, s.points)
	c.active = 0
	if len(s.points) < 2 && c.dots == DotDiscard {
		delete(c.strokes, id)
		c.order = slices.DeleteFunc(c.order, func(o StrokeID) bool { return o == id })
	}
	c.version++
	return nil
}

// Active returns the handle of the stroke being authored.
func (c *Canvas) Active() (StrokeID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active, c.active != 0
}

// AbortActive force-terminates the active stroke through EndStroke, leaving
// it frozen (or discarded, depending on the dot policy).
func (c *Canvas) AbortActive() (StrokeID, bool) {
	id, ok := c.Active()
	if !ok {
		return 0, false
	}
	if err := c.EndStroke(id); err != nil {
		return 0, false
	}
	return id, true
}

// Stroke returns a snapshot of one stroke.
func (c *Canvas) Stroke(id StrokeID) (Stroke, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.strokes[id]
	if !ok {
		return Stroke{}, false
	}
	return s.snapshot(), true
}

// AllStrokes returns snapshots of all strokes in creation order, including
// the active one (whose Frozen method reports false).
func (c *Canvas) AllStrokes() []Stroke {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strokesLocked()
}

// StrokesOnPage returns the frozen strokes anchored to a page, in creation
// order.
func (c *Canvas) StrokesOnPage(index int) []Stroke {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Stroke
	for _, id := range c.order {
		s := c.strokes[id]
		if s.frozen && s.page == index {
			out = append(out, s.snapshot())
		}
	}
	return out
}

// InsertBlankPage inserts an empty page of the given size at index at.
// Following pages move down, and so do the strokes anchored to them, so
// every stroke keeps its position relative to its page. Page-list mutation
// is refused while a stroke is being authored.
func (c *Canvas) InsertBlankPage(at int, size Size) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != 0 {
		return ErrStrokeActive
	}
	top := c.layout.Bounds().Max.Y
	if o, ok := c.layout.PageOrigin(at); ok {
		top = o.Y
	}
	dy, err := c.layout.Insert(at, size)
	if err != nil {
		return err
	}
	c.images = slices.Insert(c.images, at, image.Image(nil))
	shift := Pt(0, dy)
	for _, s := range c.strokes {
		switch {
		case s.page >= at:
			s.translate(shift)
			s.page++
		case s.page < 0 && s.Bounds().Min.Y >= top:
			// Unanchored strokes below the insertion point keep their
			// place relative to the surrounding pages.
			s.translate(shift)
			s.page = anchorPage(c.layout, s.points)
		}
	}
	c.version++
	Logger().Info("inkpage: page inserted", "index", at, "width", size.W, "height", size.H)
	return nil
}

// Snapshot is a consistent copy of the canvas for rendering.
type Snapshot struct {
	Pages   []Page
	Images  []image.Image
	Strokes []Stroke
	Version uint64
}

// Snapshot copies pages, image references and strokes under one read lock.
func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Pages:   c.layout.Pages(),
		Images:  slices.Clone(c.images),
		Strokes: c.strokesLocked(),
		Version: c.version,
	}
}

func (c *Canvas) strokesLocked() []Stroke {
	out := make([]Stroke, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.strokes[id].snapshot())
	}
	return out
}

func (c *Canvas) releaseImages() {
	for i, img := range c.images {
		if img != nil {
			releaseImage(i, img)
		}
	}
	c.images = nil
}

func releaseImage(index int, img image.Image) {
	cl, ok := img.(io.Closer)
	if !ok {
		return
	}
	if err := cl.Close(); err != nil {
		Logger().Warn("inkpage: page image release failed", "page", index, "err", err)
	}
}
