package inkpage

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Document is the source of page geometry and page rasters.
//
// Implementations report corrupt or unreadable input through errors;
// Session turns any such error into a *LoadError and leaves the canvas
// untouched.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageSize returns the native size of a page in document units.
	PageSize(index int) (Size, error)

	// RenderPage rasterizes a page. target is the requested pixel size;
	// implementations may return a different size, which is rescaled.
	RenderPage(index int, target Size) (image.Image, error)
}

// pixelSize rounds a size to whole pixels, at least 1x1.
func pixelSize(s Size) (w, h int) {
	w = max(1, int(math.Round(s.W)))
	h = max(1, int(math.Round(s.H)))
	return w, h
}

// FitImage returns img scaled to exactly target pixels. Images that already
// have the requested size are returned unchanged.
func FitImage(img image.Image, target Size) image.Image {
	w, h := pixelSize(target)
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
