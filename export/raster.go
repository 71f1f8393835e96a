package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pdfink/pdfink"
	"github.com/pdfink/pdfink/render"
)

// Raster text draws with the bundled Go faces; vector output embeds PDF
// standard fonts instead, but raster needs actual glyph outlines. Each
// face is parsed once, on first use.
type fontKey struct {
	bold   bool
	italic bool
}

var rasterFonts = map[fontKey]func() (*text.FontSource, error){
	{false, false}: sync.OnceValues(func() (*text.FontSource, error) { return text.NewFontSource(goregular.TTF) }),
	{true, false}:  sync.OnceValues(func() (*text.FontSource, error) { return text.NewFontSource(gobold.TTF) }),
	{false, true}:  sync.OnceValues(func() (*text.FontSource, error) { return text.NewFontSource(goitalic.TTF) }),
	{true, true}:   sync.OnceValues(func() (*text.FontSource, error) { return text.NewFontSource(gobolditalic.TTF) }),
}

// rasterFont returns the Go face matching the annotation's bold and
// italic flags.
func rasterFont(t *pdfink.TextBox) (*text.FontSource, error) {
	return rasterFonts[fontKey{bold: t.Bold, italic: t.Italic}]()
}

// exportRaster renders each requested page, composites its annotations on
// top and encodes one image per page. Pages whose render fails or times
// out are skipped and reported.
func (e *Exporter) exportRaster(ctx context.Context, req Request, pages []int) ([]Output, []PageError, error) {
	if e.Renderer == nil {
		return nil, nil, fmt.Errorf("export: no page renderer configured")
	}

	format := req.Format
	if format == FormatWebP {
		// No pure Go WebP encoder is wired in; fall back to PNG so the
		// export still produces usable images.
		pdfink.Logger().Warn("webp encoding unavailable, writing png instead")
		format = FormatPNG
	}

	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	groups, _ := byPage(e.Annotations)
	base := e.baseName(req)

	var outs []Output
	var skipped []PageError
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return outs, skipped, err
		}
		img, err := render.WithTimeout(e.Renderer, page, scale, timeout)
		if err != nil {
			pdfink.Logger().Warn("skipping page", "page", page, "err", err)
			skipped = append(skipped, PageError{Page: page, Err: err})
			continue
		}

		data, err := e.compositePage(page, img, groups[page], format, req.Quality)
		if err != nil {
			pdfink.Logger().Warn("skipping page", "page", page, "err", err)
			skipped = append(skipped, PageError{Page: page, Err: err})
			continue
		}
		name := fmt.Sprintf("%s-page-%d.%s", base, page, format)
		outs = append(outs, Output{Name: name, Data: data})
	}
	return outs, skipped, nil
}

// compositePage draws the page's annotations over the rendered bitmap and
// encodes the result.
func (e *Exporter) compositePage(page int, img image.Image, anns pdfink.Collection, format Format, quality float64) ([]byte, error) {
	dc := gg.NewContextForImage(img)
	defer dc.Close()

	// Annotations are stored in surface pixels; the rendered bitmap may
	// use a different pixel size, so map through the per-axis ratio.
	dim, err := e.Doc.PageDim(page)
	if err != nil {
		return nil, err
	}
	surface := e.surfaceFor(page, dim)
	fx := float64(dc.Width()) / surface.W
	fy := float64(dc.Height()) / surface.H

	for _, a := range anns {
		drawRaster(dc, a, fx, fy)
	}

	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		err = dc.EncodeJPEG(&buf, jpegQuality(quality))
	default:
		err = dc.EncodePNG(&buf)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jpegQuality maps the request quality in (0, 1] to the encoder's 1..100
// range. Zero (unset) means maximum quality.
func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		return 100
	}
	n := int(q*100 + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// drawRaster draws one annotation onto the context. fx and fy scale
// surface pixels to bitmap pixels; raster space keeps the top-left origin,
// so no axis flip is needed.
func drawRaster(dc *gg.Context, a pdfink.Annotation, fx, fy float64) {
	c := a.GetCommon()
	f := (fx + fy) / 2
	switch v := a.(type) {
	case *pdfink.TextBox:
		drawRasterText(dc, v, fx, fy)

	case *pdfink.Rect:
		dc.DrawRectangle(c.Position.X*fx, c.Position.Y*fy, v.Width*fx, v.Height*fy)
		setRasterStroke(dc, c, f)
		dc.Stroke()

	case *pdfink.Ellipse:
		cx := (c.Position.X + v.Width/2) * fx
		cy := (c.Position.Y + v.Height/2) * fy
		dc.DrawEllipse(cx, cy, v.Width/2*fx, v.Height/2*fy)
		setRasterStroke(dc, c, f)
		dc.Stroke()

	case *pdfink.Highlight:
		dc.DrawRectangle(c.Position.X*fx, c.Position.Y*fy, v.Width*fx, v.Height*fy)
		col := fillPaint(c)
		dc.SetRGBA(col.R, col.G, col.B, pdfink.HighlightOpacity)
		dc.Fill()

	case *pdfink.Line:
		dc.DrawLine(c.Position.X*fx, c.Position.Y*fy, v.End.X*fx, v.End.Y*fy)
		setRasterStroke(dc, c, f)
		dc.Stroke()

	case *pdfink.Arrow:
		drawRasterArrow(dc, c, v.End, fx, fy)

	case *pdfink.Stroke:
		drawRasterPolyline(dc, c, v.Points, strokePaint(c), fx, fy)

	case *pdfink.Erasure:
		// Erasures paint in the page background color.
		drawRasterPolyline(dc, c, v.Points, pdfink.RGBA{R: 1, G: 1, B: 1, A: 1}, fx, fy)

	case *pdfink.ImageStamp:
		drawRasterImage(dc, c, v.Data, v.Size(), fx, fy)

	case *pdfink.Signature:
		drawRasterImage(dc, c, v.Data, v.Size(), fx, fy)
	}
}

// setRasterStroke applies the annotation's stroke color, opacity and
// width. f is the scalar pixel factor for widths.
func setRasterStroke(dc *gg.Context, c *pdfink.Common, f float64) {
	col := strokePaint(c)
	dc.SetRGBA(col.R, col.G, col.B, c.EffectiveOpacity())
	w := c.StrokeWidth
	if w <= 0 {
		w = 2
	}
	dc.SetLineWidth(w * f)
}

func drawRasterArrow(dc *gg.Context, c *pdfink.Common, end pdfink.Point, fx, fy float64) {
	f := (fx + fy) / 2
	x1, y1 := c.Position.X*fx, c.Position.Y*fy
	x2, y2 := end.X*fx, end.Y*fy
	setRasterStroke(dc, c, f)
	dc.DrawLine(x1, y1, x2, y2)

	w := c.StrokeWidth
	if w <= 0 {
		w = 2
	}
	barb := math.Max(8, 3*w) * f
	angle := math.Atan2(y2-y1, x2-x1)
	for _, off := range []float64{math.Pi - math.Pi/6, math.Pi + math.Pi/6} {
		dc.MoveTo(x2, y2)
		dc.LineTo(x2+barb*math.Cos(angle+off), y2+barb*math.Sin(angle+off))
	}
	dc.Stroke()
}

func drawRasterPolyline(dc *gg.Context, c *pdfink.Common, pts []pdfink.Point, col pdfink.RGBA, fx, fy float64) {
	if len(pts) < 2 {
		return
	}
	dc.SetRGBA(col.R, col.G, col.B, c.EffectiveOpacity())
	w := c.StrokeWidth
	if w <= 0 {
		w = 2
	}
	dc.SetLineWidth(w * (fx + fy) / 2)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(pts[0].X*fx, pts[0].Y*fy)
	for _, p := range pts[1:] {
		dc.LineTo(p.X*fx, p.Y*fy)
	}
	dc.Stroke()
}

func drawRasterText(dc *gg.Context, t *pdfink.TextBox, fx, fy float64) {
	c := &t.Common
	size := t.FontSize
	if size <= 0 {
		size = 16
	}
	size *= fy

	src, err := rasterFont(t)
	if err != nil {
		pdfink.Logger().Warn("text font unavailable, skipping annotation", "id", c.ID, "err", err)
		return
	}
	dc.SetFont(src.Face(size))

	lines := strings.Split(t.Text, "\n")
	if bg, ok := pdfink.ParseHex(t.Background); ok && t.Background != "" {
		h := size * 1.2 * float64(len(lines))
		var w float64
		for _, line := range lines {
			lw, _ := dc.MeasureString(line)
			w = math.Max(w, lw)
		}
		dc.SetRGBA(bg.R, bg.G, bg.B, bg.A)
		dc.DrawRectangle(c.Position.X*fx, c.Position.Y*fy, w, h)
		dc.Fill()
	}

	col := fillPaint(c)
	dc.SetRGBA(col.R, col.G, col.B, c.EffectiveOpacity())
	for i, line := range lines {
		baseline := c.Position.Y*fy + size + float64(i)*size*1.2
		dc.DrawString(line, c.Position.X*fx, baseline)
	}
}

func drawRasterImage(dc *gg.Context, c *pdfink.Common, dataURI string, box pdfink.Size, fx, fy float64) {
	img, _, err := decodePayload(dataURI)
	if err != nil {
		pdfink.Logger().Warn("bad image payload, skipping annotation", "id", c.ID, "err", err)
		return
	}
	w := int(box.W*fx + 0.5)
	h := int(box.H*fy + 0.5)
	if w < 1 || h < 1 {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	dc.DrawImage(gg.ImageBufFromImage(scaled), c.Position.X*fx, c.Position.Y*fy)
}
