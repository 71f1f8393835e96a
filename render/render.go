// Package render defines the page renderer port: the external collaborator
// that turns a PDF page into an on-screen bitmap. The engine only consumes
// rendered surfaces; it never rasterizes PDF content itself.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"
)

// ErrTimeout is returned when a page surface does not become available
// within the bounded wait. Raster export skips the page and continues.
var ErrTimeout = errors.New("render: page surface not ready before timeout")

// PageRenderer renders document pages to bitmaps.
//
// RenderPage renders the 1-based page at the given scale and returns the
// rendered surface. Implementations block until the surface is ready or
// ctx is done; they do not busy-poll callers.
type PageRenderer interface {
	RenderPage(ctx context.Context, page int, scale float64) (image.Image, error)
}

// WithTimeout renders a page with a bounded wait, mapping a deadline hit
// to [ErrTimeout].
func WithTimeout(r PageRenderer, page int, scale float64, timeout time.Duration) (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	img, err := r.RenderPage(ctx, page, scale)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	return img, nil
}

// Blank renders plain white surfaces sized from the document's page
// dimensions. It is the fallback renderer for environments without a PDF
// rasterizer: exported images then show annotations on a blank page.
type Blank struct {
	// PageDim reports the media box of the 1-based page in points.
	PageDim func(page int) (w, h float64, err error)
}

// RenderPage implements [PageRenderer]. One point maps to scale pixels.
func (b *Blank) RenderPage(ctx context.Context, page int, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h, err := b.PageDim(page)
	if err != nil {
		return nil, fmt.Errorf("render: page %d: %w", page, err)
	}
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w*scale+0.5), int(h*scale+0.5)))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img, nil
}
