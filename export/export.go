// Package export walks the annotation collection and produces either a new
// PDF with annotations drawn as native primitives (vector export) or one
// raster image per page with annotations composited onto the rendered page
// bitmap (raster export).
package export

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdfink/pdfink"
	"github.com/pdfink/pdfink/pagedoc"
	"github.com/pdfink/pdfink/render"
)

// Format selects the export output type.
type Format string

// The export formats.
const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// ScopeAll exports every page.
const ScopeAll = "all"

// DefaultTimeout bounds the wait for a page surface during raster export.
const DefaultTimeout = 5 * time.Second

// ErrNoDocument is returned when export is requested without a loaded
// document.
var ErrNoDocument = errors.New("export: no document loaded")

// Request describes one export invocation.
type Request struct {
	// Format is the output format. Raster formats produce one output per
	// page; FormatPDF produces a single document.
	Format Format

	// Scope is "all" or "page-N" with a 1-based N.
	Scope string

	// Quality is the raster encoding quality in (0, 1]. Zero means 1.0.
	Quality float64

	// DownloadName is the base output name. Empty derives a name from
	// the source file name.
	DownloadName string
}

// Output is one produced download blob.
type Output struct {
	Name string
	Data []byte
}

// PageError records a page that was skipped during export. The export
// continues with the remaining pages; skipped pages are reported once.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("export: page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Exporter converts the annotation state into output blobs. It reads the
// engine's state and collaborators but never mutates them.
type Exporter struct {
	// Doc is the loaded document.
	Doc *pagedoc.Document

	// Annotations is the live collection, in layer order.
	Annotations pdfink.Collection

	// Surface reports the rendered surface pixel size of a 1-based page,
	// as recorded by the session. Pages without a recorded surface map
	// identically (one pixel per point).
	Surface func(page int) (pdfink.Size, bool)

	// Renderer supplies page bitmaps for raster export.
	Renderer render.PageRenderer

	// Scale is the view zoom used when rendering pages for raster
	// export. Zero means 1.
	Scale float64

	// SourceName is the loaded file name, used to derive output names.
	SourceName string

	// Timeout bounds the wait for each page surface during raster
	// export. Zero means [DefaultTimeout].
	Timeout time.Duration
}

// Export runs the request and returns the produced outputs plus the pages
// skipped due to per-page failures. A missing document fails immediately.
func (e *Exporter) Export(ctx context.Context, req Request) ([]Output, []PageError, error) {
	if e.Doc == nil {
		return nil, nil, ErrNoDocument
	}
	pages, err := e.pages(req.Scope)
	if err != nil {
		return nil, nil, err
	}

	switch req.Format {
	case FormatPDF:
		out, skipped, err := e.exportPDF(ctx, req, pages)
		if err != nil {
			return nil, skipped, err
		}
		return []Output{out}, skipped, nil
	case FormatPNG, FormatJPEG, FormatWebP:
		return e.exportRaster(ctx, req, pages)
	default:
		return nil, nil, fmt.Errorf("export: unknown format %q", req.Format)
	}
}

// pages resolves the request scope to an ascending page list.
func (e *Exporter) pages(scope string) ([]int, error) {
	return parseScope(scope, e.Doc.PageCount())
}

// parseScope expands "all" or "page-N" against an n-page document.
func parseScope(scope string, n int) ([]int, error) {
	if scope == "" || scope == ScopeAll {
		pages := make([]int, n)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}
	num, ok := strings.CutPrefix(scope, "page-")
	if !ok {
		return nil, fmt.Errorf("export: bad scope %q", scope)
	}
	p, err := strconv.Atoi(num)
	if err != nil || p < 1 || p > n {
		return nil, fmt.Errorf("export: bad scope %q for %d pages", scope, n)
	}
	return []int{p}, nil
}

// surfaceFor returns the coordinate-mapper surface size for a page,
// falling back to the page's point size (identity mapping) when the page
// was never rendered.
func (e *Exporter) surfaceFor(page int, dim pagedoc.Dim) pdfink.Size {
	if e.Surface != nil {
		if s, ok := e.Surface(page); ok && !s.IsZero() {
			return s
		}
	}
	pdfink.Logger().Debug("no recorded surface, mapping identically", "page", page)
	return pdfink.Size{W: dim.Width, H: dim.Height}
}

// baseName returns the output name stem: the request name if given, else
// the source file name without its extension, else "annotated".
func (e *Exporter) baseName(req Request) string {
	if req.DownloadName != "" {
		return strings.TrimSuffix(req.DownloadName, ".pdf")
	}
	name := e.SourceName
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return "annotated"
	}
	return name + "-annotated"
}

// byPage groups the collection by page number, keeping layer order within
// each page, and returns the sorted page numbers that carry annotations.
func byPage(c pdfink.Collection) (map[int]pdfink.Collection, []int) {
	groups := make(map[int]pdfink.Collection)
	for _, a := range c {
		p := a.GetCommon().Page
		groups[p] = append(groups[p], a)
	}
	pages := make([]int, 0, len(groups))
	for p := range groups {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return groups, pages
}
