// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws an inkpage canvas with gg.
//
// The canvas stores everything in scene space. A Renderer maps the scene
// through an inkpage.View onto a gg.Context: page backgrounds and borders
// first, then page images, then strokes in creation order. Only items that
// intersect the visible viewport are drawn.
//
// # Usage
//
//	dc := gg.NewContext(800, 600)
//	r := render.NewRenderer()
//	if err := r.Render(dc, session.Canvas().Snapshot(), session.View()); err != nil {
//	    log.Printf("render failed: %v", err)
//	}
//	_ = dc.SavePNG("frame.png")
//
// Thread Safety: a Renderer is NOT thread-safe. It may run on a different
// callback than the one feeding pointer events because it only reads
// canvas snapshots.
package render
