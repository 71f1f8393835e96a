// Package pagedoc wraps the PDF byte-level document mutator used by the
// annotation engine: loading, page inventory, page removal and reordering,
// overlay stamping, and serialization. All PDF structure work is delegated
// to pdfcpu; this package only adapts it to the engine's needs.
package pagedoc

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Dim is a page media box size in PDF points.
type Dim struct {
	Width  float64
	Height float64
}

// Document is a loaded PDF held as serialized bytes plus cached page
// metadata. Mutations produce a new byte serialization and refresh the
// metadata, so the bytes are always consistent with the reported pages.
type Document struct {
	data []byte
	conf *model.Configuration

	pageCount int
	dims      []Dim
}

// Load parses and validates a PDF from data.
func Load(data []byte) (*Document, error) {
	d := &Document{
		data: append([]byte(nil), data...),
		conf: model.NewDefaultConfiguration(),
	}
	if err := d.refresh(); err != nil {
		return nil, err
	}
	return d, nil
}

// refresh re-reads the current bytes and updates page count and dims.
func (d *Document) refresh() error {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(d.data), d.conf)
	if err != nil {
		return fmt.Errorf("pagedoc: read: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return fmt.Errorf("pagedoc: page dims: %w", err)
	}
	d.pageCount = ctx.PageCount
	d.dims = make([]Dim, len(dims))
	for i, dim := range dims {
		d.dims[i] = Dim{Width: dim.Width, Height: dim.Height}
	}
	return nil
}

// Bytes returns the current serialized document. The slice is owned by the
// document; callers must copy before mutating.
func (d *Document) Bytes() []byte { return d.data }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// PageDim returns the media box size of the 1-based page.
func (d *Document) PageDim(page int) (Dim, error) {
	if page < 1 || page > len(d.dims) {
		return Dim{}, fmt.Errorf("pagedoc: page %d out of range [1, %d]", page, len(d.dims))
	}
	return d.dims[page-1], nil
}

// pageOrder returns the 1-based page numbers 1..n.
func (d *Document) pageOrder() []int {
	order := make([]int, d.pageCount)
	for i := range order {
		order[i] = i + 1
	}
	return order
}

// selection formats a page order as a pdfcpu page selection.
func selection(order []int) []string {
	sel := make([]string, len(order))
	for i, p := range order {
		sel[i] = strconv.Itoa(p)
	}
	return sel
}
