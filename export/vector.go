package export

import (
	"bytes"
	"context"
	"fmt"
	gocolor "image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"
	"seehuhn.de/go/pdf/graphics/extgstate"
	pdfimage "seehuhn.de/go/pdf/graphics/image"

	"github.com/pdfink/pdfink"
	"github.com/pdfink/pdfink/pagedoc"
)

// Vector export: each page with annotations gets a transparent overlay PDF
// drawn with native primitives and stamped on top of the original page.
// Pages without annotations pass through untouched; a document with no
// annotations at all is returned byte-identical.

// kappa is the cubic Bézier circle approximation constant.
const kappa = 0.5522847498307936

func (e *Exporter) exportPDF(ctx context.Context, req Request, pages []int) (Output, []PageError, error) {
	requested := make(map[int]bool, len(pages))
	for _, p := range pages {
		requested[p] = true
	}

	groups, annotated := byPage(e.Annotations)

	var skipped []PageError
	overlays := make(map[int][]byte)
	for _, page := range annotated {
		if !requested[page] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Output{}, skipped, err
		}
		dim, err := e.Doc.PageDim(page)
		if err != nil {
			skipped = append(skipped, PageError{Page: page, Err: err})
			continue
		}
		overlay, err := e.buildOverlay(groups[page], page, dim)
		if err != nil {
			pdfink.Logger().Warn("overlay build failed, skipping page", "page", page, "err", err)
			skipped = append(skipped, PageError{Page: page, Err: err})
			continue
		}
		overlays[page] = overlay
	}

	data, err := e.Doc.StampOverlays(overlays)
	if err != nil {
		return Output{}, skipped, fmt.Errorf("export: stamp: %w", err)
	}
	return Output{Name: e.baseName(req) + ".pdf", Data: data}, skipped, nil
}

// buildOverlay draws one page's annotations, in layer order, onto a fresh
// transparent page of the target page's point size.
func (e *Exporter) buildOverlay(anns pdfink.Collection, page int, dim pagedoc.Dim) ([]byte, error) {
	surface := e.surfaceFor(page, dim)
	pageSize := pdfink.Size{W: dim.Width, H: dim.Height}

	var buf bytes.Buffer
	pg, err := document.WriteSinglePage(&buf, &pdf.Rectangle{URx: dim.Width, URy: dim.Height}, pdf.V1_7, nil)
	if err != nil {
		return nil, fmt.Errorf("overlay page: %w", err)
	}

	for _, a := range anns {
		drawVector(pg, a, surface, pageSize)
	}

	if err := pg.Close(); err != nil {
		return nil, fmt.Errorf("overlay close: %w", err)
	}
	return buf.Bytes(), nil
}

// drawVector translates one annotation into PDF drawing primitives.
// Failures on individual annotations (bad image payloads) are logged and
// skipped so one broken annotation cannot sink the page.
func drawVector(pg *document.Page, a pdfink.Annotation, surface, page pdfink.Size) {
	c := a.GetCommon()

	switch v := a.(type) {
	case *pdfink.TextBox:
		drawVectorText(pg, v, surface, page)

	case *pdfink.Rect:
		x, y, w, h := pdfink.BoxToPage(c.Position, v.Size(), surface, page)
		pg.PushGraphicsState()
		setAlpha(pg, c.EffectiveOpacity())
		pg.SetStrokeColor(rgb(strokePaint(c)))
		pg.SetLineWidth(pdfink.ScaleScalar(c.StrokeWidth, surface, page))
		pg.Rectangle(x, y, w, h)
		pg.Stroke()
		pg.PopGraphicsState()

	case *pdfink.Highlight:
		x, y, w, h := pdfink.BoxToPage(c.Position, v.Size(), surface, page)
		pg.PushGraphicsState()
		setAlpha(pg, pdfink.HighlightOpacity)
		pg.SetFillColor(rgb(fillPaint(c)))
		pg.Rectangle(x, y, w, h)
		pg.Fill()
		pg.PopGraphicsState()

	case *pdfink.Ellipse:
		x, y, w, h := pdfink.BoxToPage(c.Position, v.Size(), surface, page)
		pg.PushGraphicsState()
		setAlpha(pg, c.EffectiveOpacity())
		pg.SetStrokeColor(rgb(strokePaint(c)))
		pg.SetLineWidth(pdfink.ScaleScalar(c.StrokeWidth, surface, page))
		ellipsePath(pg, x+w/2, y+h/2, w/2, h/2)
		pg.Stroke()
		pg.PopGraphicsState()

	case *pdfink.Line:
		drawVectorSegment(pg, c, v.End, false, surface, page)

	case *pdfink.Arrow:
		drawVectorSegment(pg, c, v.End, true, surface, page)

	case *pdfink.Stroke:
		drawVectorPolyline(pg, c, v.Points, strokePaint(c), surface, page)

	case *pdfink.Erasure:
		// Erasures paint in the page background color.
		white := pdfink.RGBA{R: 1, G: 1, B: 1, A: 1}
		drawVectorPolyline(pg, c, v.Points, white, surface, page)

	case *pdfink.ImageStamp:
		drawVectorImage(pg, c, v.Size(), v.Data, surface, page)

	case *pdfink.Signature:
		drawVectorImage(pg, c, v.Size(), v.Data, surface, page)
	}
}

func drawVectorText(pg *document.Page, t *pdfink.TextBox, surface, page pdfink.Size) {
	c := t.GetCommon()
	F, err := standardFont(t)
	if err != nil {
		pdfink.Logger().Warn("skipping text annotation, font unavailable", "id", c.ID, "err", err)
		return
	}
	size := pdfink.ScaleScalar(t.FontSize, surface, page)
	if size <= 0 {
		size = pdfink.ScaleScalar(16, surface, page)
	}
	x, top := pdfink.ToPage(c.Position, surface, page)

	pg.PushGraphicsState()
	setAlpha(pg, c.EffectiveOpacity())
	pg.SetFillColor(rgb(fillPaint(c)))
	pg.TextBegin()
	pg.TextSetFont(F, size)
	// The anchor is the top-left corner of the text; the first baseline
	// sits one em below the top edge.
	pg.TextFirstLine(x, top-size)
	for i, line := range strings.Split(t.Text, "\n") {
		if i > 0 {
			pg.TextSecondLine(0, -size*1.2)
		}
		pg.TextShow(line)
	}
	pg.TextEnd()
	pg.PopGraphicsState()
}

func drawVectorSegment(pg *document.Page, c *pdfink.Common, end pdfink.Point, arrowhead bool, surface, page pdfink.Size) {
	x1, y1 := pdfink.ToPage(c.Position, surface, page)
	x2, y2 := pdfink.ToPage(end, surface, page)
	width := pdfink.ScaleScalar(c.StrokeWidth, surface, page)

	pg.PushGraphicsState()
	setAlpha(pg, c.EffectiveOpacity())
	pg.SetStrokeColor(rgb(strokePaint(c)))
	pg.SetLineWidth(width)
	pg.MoveTo(x1, y1)
	pg.LineTo(x2, y2)
	if arrowhead {
		// Two barbs splayed 30 degrees off the shaft, pointing back
		// from the endpoint.
		length := math.Max(8, 3*width)
		angle := math.Atan2(y2-y1, x2-x1)
		for _, da := range []float64{math.Pi - math.Pi/6, math.Pi + math.Pi/6} {
			pg.MoveTo(x2, y2)
			pg.LineTo(x2+length*math.Cos(angle+da), y2+length*math.Sin(angle+da))
		}
	}
	pg.Stroke()
	pg.PopGraphicsState()
}

func drawVectorPolyline(pg *document.Page, c *pdfink.Common, points []pdfink.Point, paint pdfink.RGBA, surface, page pdfink.Size) {
	if len(points) < 2 {
		return
	}
	pg.PushGraphicsState()
	setAlpha(pg, c.EffectiveOpacity())
	pg.SetStrokeColor(rgb(paint))
	pg.SetLineWidth(pdfink.ScaleScalar(c.StrokeWidth, surface, page))
	x, y := pdfink.ToPage(points[0], surface, page)
	pg.MoveTo(x, y)
	for _, p := range points[1:] {
		x, y = pdfink.ToPage(p, surface, page)
		pg.LineTo(x, y)
	}
	pg.Stroke()
	pg.PopGraphicsState()
}

func drawVectorImage(pg *document.Page, c *pdfink.Common, box pdfink.Size, dataURI string, surface, page pdfink.Size) {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		pdfink.Logger().Warn("skipping image annotation", "id", c.ID, "err", err)
		return
	}
	xo, err := imageXObject(data)
	if err != nil {
		pdfink.Logger().Warn("skipping image annotation", "id", c.ID, "err", err)
		return
	}
	x, y, w, h := pdfink.BoxToPage(c.Position, box, surface, page)

	pg.PushGraphicsState()
	setAlpha(pg, c.EffectiveOpacity())
	pg.Transform(matrix.Translate(x, y))
	pg.Transform(matrix.Scale(w, h))
	pg.DrawXObject(xo)
	pg.PopGraphicsState()
}

// imageXObject builds the XObject for a sniffed payload. PNG payloads
// embed through the lossless pixel path; JPEG payloads keep their
// original DCT data so photographs do not balloon the output.
func imageXObject(data []byte) (graphics.XObject, error) {
	switch sniffPayload(data) {
	case payloadPNG:
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("export: decode png: %w", err)
		}
		return &pdfimage.PNG{Data: img}, nil

	case payloadJPEG:
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("export: decode jpeg: %w", err)
		}
		cs := color.FamilyDeviceRGB
		switch cfg.ColorModel {
		case gocolor.GrayModel:
			cs = color.FamilyDeviceGray
		case gocolor.CMYKModel:
			// Adobe CMYK JPEGs need inverted decode arrays; re-encode
			// those through the lossless path instead.
			img, err := jpeg.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("export: decode jpeg: %w", err)
			}
			return &pdfimage.PNG{Data: img}, nil
		}
		return &jpegXObject{data: data, width: cfg.Width, height: cfg.Height, colorSpace: cs}, nil

	default:
		return nil, ErrUnsupportedImage
	}
}

// jpegXObject embeds JPEG bytes verbatim behind a DCTDecode filter.
type jpegXObject struct {
	data          []byte
	width, height int
	colorSpace    pdf.Name
}

func (im *jpegXObject) Subtype() pdf.Name { return pdf.Name("Image") }

func (im *jpegXObject) Embed(rm *pdf.ResourceManager) (pdf.Native, pdf.Unused, error) {
	var zero pdf.Unused
	ref := rm.Out.Alloc()
	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(im.width),
		"Height":           pdf.Integer(im.height),
		"ColorSpace":       im.colorSpace,
		"BitsPerComponent": pdf.Integer(8),
		"Filter":           pdf.Name("DCTDecode"),
	}
	stream, err := rm.Out.OpenStream(ref, dict)
	if err != nil {
		return nil, zero, err
	}
	if _, err := stream.Write(im.data); err != nil {
		return nil, zero, err
	}
	if err := stream.Close(); err != nil {
		return nil, zero, err
	}
	return ref, zero, nil
}

// ellipsePath appends a four-Bézier ellipse approximation centered at
// (cx, cy) with radii rx, ry.
func ellipsePath(pg *document.Page, cx, cy, rx, ry float64) {
	ox, oy := rx*kappa, ry*kappa
	pg.MoveTo(cx+rx, cy)
	pg.CurveTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	pg.CurveTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	pg.CurveTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	pg.CurveTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	pg.ClosePath()
}

// setAlpha applies a uniform paint opacity to the graphics state.
func setAlpha(pg *document.Page, alpha float64) {
	if alpha >= 1 {
		return
	}
	pg.SetExtGState(&extgstate.ExtGState{
		Set:         graphics.StateStrokeAlpha | graphics.StateFillAlpha,
		StrokeAlpha: alpha,
		FillAlpha:   alpha,
		SingleUse:   true,
	})
}

// rgb converts an engine color to a PDF DeviceRGB color.
func rgb(c pdfink.RGBA) color.Color {
	return color.DeviceRGB(c.R, c.G, c.B)
}

// strokePaint resolves the outline color, preferring StrokeColor and
// falling back to Color, with the malformed-hex default applied.
func strokePaint(c *pdfink.Common) pdfink.RGBA {
	hex := c.StrokeColor
	if hex == "" {
		hex = c.Color
	}
	return pdfink.HexOrDefault(hex)
}

// fillPaint resolves the fill color.
func fillPaint(c *pdfink.Common) pdfink.RGBA {
	return pdfink.HexOrDefault(c.Color)
}

// standardFont picks the standard 14 font matching the text annotation's
// family and style flags.
func standardFont(t *pdfink.TextBox) (font.Instance, error) {
	return standardFamily(t).New(nil)
}

// standardFamily maps the annotation's font family and style flags onto
// one of the standard 14 fonts. Unknown families fall back to Helvetica.
func standardFamily(t *pdfink.TextBox) standard.Font {
	family := strings.ToLower(t.FontFamily)
	switch {
	case strings.Contains(family, "times"):
		return pickStandard(t, standard.TimesRoman, standard.TimesBold, standard.TimesItalic, standard.TimesBoldItalic)
	case strings.Contains(family, "courier"):
		return pickStandard(t, standard.Courier, standard.CourierBold, standard.CourierOblique, standard.CourierBoldOblique)
	default:
		return pickStandard(t, standard.Helvetica, standard.HelveticaBold, standard.HelveticaOblique, standard.HelveticaBoldOblique)
	}
}

func pickStandard(t *pdfink.TextBox, regular, bold, italic, boldItalic standard.Font) standard.Font {
	switch {
	case t.Bold && t.Italic:
		return boldItalic
	case t.Bold:
		return bold
	case t.Italic:
		return italic
	default:
		return regular
	}
}
