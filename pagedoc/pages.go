package pagedoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// RemovePage deletes the 1-based page. On success the document bytes and
// page metadata are replaced atomically; on failure the document is
// unchanged.
func (d *Document) RemovePage(page int) error {
	if page < 1 || page > d.pageCount {
		return fmt.Errorf("pagedoc: page %d out of range [1, %d]", page, d.pageCount)
	}
	if d.pageCount == 1 {
		return fmt.Errorf("pagedoc: cannot remove the only page")
	}

	var buf bytes.Buffer
	err := api.RemovePages(bytes.NewReader(d.data), &buf, selection([]int{page}), d.conf)
	if err != nil {
		return fmt.Errorf("pagedoc: remove page %d: %w", page, err)
	}
	return d.replace(buf.Bytes())
}

// MovePage moves the page at 0-based index old to index new, with
// remove-then-insert semantics: the page is taken out of the sequence and
// re-inserted at the target index, shifting the pages in between.
func (d *Document) MovePage(old, new int) error {
	n := d.pageCount
	if old < 0 || old >= n || new < 0 || new >= n {
		return fmt.Errorf("pagedoc: move %d -> %d out of range [0, %d)", old, new, n)
	}
	if old == new {
		return nil
	}

	order := d.pageOrder()
	moved := order[old]
	order = append(order[:old], order[old+1:]...)
	order = append(order[:new], append([]int{moved}, order[new:]...)...)

	var buf bytes.Buffer
	err := api.Collect(bytes.NewReader(d.data), &buf, selection(order), d.conf)
	if err != nil {
		return fmt.Errorf("pagedoc: move page %d -> %d: %w", old, new, err)
	}
	return d.replace(buf.Bytes())
}

// StampOverlays draws each overlay PDF (a single page sized like its
// target page) on top of the corresponding 1-based page and returns the
// resulting document bytes. The receiver is not modified. Pages without an
// overlay pass through untouched; an empty map returns the source bytes
// unchanged.
func (d *Document) StampOverlays(overlays map[int][]byte) ([]byte, error) {
	if len(overlays) == 0 {
		return d.data, nil
	}

	tmpDir, err := os.MkdirTemp("", "pagedoc-overlay-*")
	if err != nil {
		return nil, fmt.Errorf("pagedoc: overlay temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	wms := make(map[int]*model.Watermark, len(overlays))
	for page, overlay := range overlays {
		if page < 1 || page > d.pageCount {
			return nil, fmt.Errorf("pagedoc: overlay page %d out of range [1, %d]", page, d.pageCount)
		}
		path := filepath.Join(tmpDir, fmt.Sprintf("p%d.pdf", page))
		if err := os.WriteFile(path, overlay, 0o600); err != nil {
			return nil, fmt.Errorf("pagedoc: write overlay: %w", err)
		}
		wm, err := api.PDFWatermark(path, "sc:1 abs, pos:bl, off:0 0, rot:0", true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("pagedoc: overlay watermark: %w", err)
		}
		wms[page] = wm
	}

	var buf bytes.Buffer
	err = api.AddWatermarksMap(bytes.NewReader(d.data), &buf, wms, d.conf)
	if err != nil {
		return nil, fmt.Errorf("pagedoc: stamp overlays: %w", err)
	}
	return buf.Bytes(), nil
}

// replace installs new document bytes, refreshing page metadata. On a
// refresh failure the previous state is restored.
func (d *Document) replace(data []byte) error {
	prevData, prevCount, prevDims := d.data, d.pageCount, d.dims
	d.data = data
	if err := d.refresh(); err != nil {
		d.data, d.pageCount, d.dims = prevData, prevCount, prevDims
		return err
	}
	return nil
}
