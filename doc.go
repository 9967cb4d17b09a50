// Package inkpage provides the model of a paginated annotation canvas.
//
// # Overview
//
// A document is laid out as a vertical stack of pages in one continuous
// coordinate space, the scene. Freehand pointer input is turned into vector
// strokes stored in scene coordinates; each stroke is anchored to the page
// that contains it when the stroke is finished. A separate view transform
// provides pan and zoom without ever touching the stored coordinates.
//
// # Quick Start
//
//	s := inkpage.NewSession()
//	if err := s.Open(ctx, doc); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Pointer events from the windowing layer.
//	s.HandlePointer(s.PointerAt(inkpage.PointerPress, inkpage.ButtonPrimary, inkpage.Pt(100, 100), 0))
//	s.HandlePointer(s.PointerAt(inkpage.PointerMove, inkpage.ButtonPrimary, inkpage.Pt(100, 200), 0))
//	s.HandlePointer(s.PointerAt(inkpage.PointerRelease, inkpage.ButtonPrimary, inkpage.Pt(100, 200), 0))
//
//	for _, st := range s.Canvas().AllStrokes() {
//	    page, _ := st.Page()
//	    fmt.Println(page, st.Points())
//	}
//
// # Architecture
//
//   - Layout: page placement and scene <-> page-local mapping
//   - Canvas: arena of pages, page images and strokes addressed by handles
//   - Input: pointer state machine (idle, drawing, panning)
//   - View: scale and pan applied only at render time
//   - Session: document loading and event routing
//
// Rendering lives in the render sub-package, PDF input in pdfdoc and file
// watching in watch.
//
// # Coordinate System
//
//   - Origin (0,0) at the top-left corner of the first page
//   - X increases right, Y increases down
//   - Pages are left-aligned at X = 0 and separated by a fixed spacing
package inkpage
