package inkpage

import (
	"errors"
	"fmt"
)

// Common errors returned by canvas, layout and session operations.
var (
	// ErrDocumentLoad is the class of all document load failures.
	// Use errors.Is(err, ErrDocumentLoad) and errors.As with *LoadError.
	ErrDocumentLoad = errors.New("inkpage: document load failed")

	// ErrInvalidStroke is returned when a stroke operation names a handle
	// that is not the active stroke (unknown, stale or already frozen).
	ErrInvalidStroke = errors.New("inkpage: invalid stroke operation")

	// ErrStrokeActive is returned when an operation requires that no stroke
	// is being authored.
	ErrStrokeActive = errors.New("inkpage: stroke in progress")

	// ErrNoPages is returned when an operation needs a loaded document.
	ErrNoPages = errors.New("inkpage: no pages loaded")

	// ErrPageOutOfRange is returned for a page index outside the layout.
	ErrPageOutOfRange = errors.New("inkpage: page index out of range")

	// ErrInvalidPageSize is returned for non-positive or non-finite page sizes.
	ErrInvalidPageSize = errors.New("inkpage: invalid page size")

	// ErrInvalidSpacing is returned for negative or non-finite page spacing.
	ErrInvalidSpacing = errors.New("inkpage: invalid page spacing")

	// ErrBusy is returned when a document load is started from inside
	// another load.
	ErrBusy = errors.New("inkpage: load already in progress")

	// ErrInvalidPoint is returned for NaN or infinite coordinates.
	ErrInvalidPoint = errors.New("inkpage: invalid point")
)

// LoadError describes a failed document load. Page is the page being
// measured or rendered when the failure happened, or -1 when the failure
// concerns the document as a whole.
type LoadError struct {
	Page int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("%v: %v", ErrDocumentLoad, e.Err)
	}
	return fmt.Sprintf("%v: page %d: %v", ErrDocumentLoad, e.Page, e.Err)
}

// Unwrap returns both the class sentinel and the underlying cause, so that
// errors.Is matches ErrDocumentLoad as well as the collaborator's error.
func (e *LoadError) Unwrap() []error {
	return []error{ErrDocumentLoad, e.Err}
}
