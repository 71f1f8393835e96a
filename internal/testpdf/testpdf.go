// Package testpdf builds minimal but well-formed PDF documents for tests.
// Cross-reference offsets are computed while writing, so strict parsers
// accept the output without repair.
package testpdf

import (
	"fmt"
	"strings"
)

// Page is a page media box size in PDF points.
type Page struct {
	Width  float64
	Height float64
}

// Letter is a US Letter page.
var Letter = Page{Width: 612, Height: 792}

// Doc serializes a PDF with one page per entry. Each page carries its own
// tiny content stream, so the pages stay distinguishable after reordering.
func Doc(pages ...Page) []byte {
	n := len(pages)
	size := 3 + 2*n // obj 0, catalog, page tree, n pages, n content streams
	offsets := make([]int, size)

	var b strings.Builder
	b.WriteString("%PDF-1.7\n")

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	offsets[2] = b.Len()
	fmt.Fprintf(&b, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n)

	for i, p := range pages {
		offsets[3+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Contents %d 0 R >>\nendobj\n",
			3+i, p.Width, p.Height, 3+n+i)
	}
	for i := range pages {
		content := fmt.Sprintf("q 1 0 0 1 %d 0 cm Q", i)
		offsets[3+n+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			3+n+i, len(content), content)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", size)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return []byte(b.String())
}
