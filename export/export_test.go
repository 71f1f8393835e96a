package export

import (
	"bytes"
	"testing"

	"github.com/pdfink/pdfink"
	"github.com/pdfink/pdfink/internal/testpdf"
	"github.com/pdfink/pdfink/pagedoc"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		scope   string
		n       int
		want    []int
		wantErr bool
	}{
		{"all", "all", 3, []int{1, 2, 3}, false},
		{"empty means all", "", 2, []int{1, 2}, false},
		{"single page", "page-2", 3, []int{2}, false},
		{"first page", "page-1", 1, []int{1}, false},
		{"page out of range", "page-4", 3, nil, true},
		{"page zero", "page-0", 3, nil, true},
		{"not a number", "page-x", 3, nil, true},
		{"garbage", "pages", 3, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScope(tt.scope, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseScope(%q, %d) error = %v, wantErr %v", tt.scope, tt.n, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseScope(%q, %d) = %v, want %v", tt.scope, tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseScope(%q, %d)[%d] = %d, want %d", tt.scope, tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		source string
		want   string
	}{
		{"explicit name", Request{DownloadName: "report"}, "in.pdf", "report"},
		{"explicit name strips pdf suffix", Request{DownloadName: "report.pdf"}, "in.pdf", "report"},
		{"derived from source", Request{}, "contract.pdf", "contract-annotated"},
		{"source without extension", Request{}, "contract", "contract-annotated"},
		{"no source at all", Request{}, "", "annotated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Exporter{SourceName: tt.source}
			if got := e.baseName(tt.req); got != tt.want {
				t.Errorf("baseName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 100},
		{1, 100},
		{0.92, 92},
		{0.005, 1},
		{1.5, 100},
		{-1, 100},
	}
	for _, tt := range tests {
		if got := jpegQuality(tt.in); got != tt.want {
			t.Errorf("jpegQuality(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestByPage(t *testing.T) {
	c := pdfink.Collection{
		&pdfink.Rect{Common: pdfink.Common{ID: "a", Page: 3}},
		&pdfink.Rect{Common: pdfink.Common{ID: "b", Page: 1}},
		&pdfink.Rect{Common: pdfink.Common{ID: "c", Page: 3}},
	}
	groups, pages := byPage(c)
	if len(pages) != 2 || pages[0] != 1 || pages[1] != 3 {
		t.Fatalf("pages = %v, want [1 3]", pages)
	}
	// Layer order within a page is preserved.
	p3 := groups[3]
	if len(p3) != 2 || p3[0].GetCommon().ID != "a" || p3[1].GetCommon().ID != "c" {
		t.Errorf("page 3 group out of order: %v, %v", p3[0].GetCommon().ID, p3[1].GetCommon().ID)
	}
}

func TestExportWithoutDocument(t *testing.T) {
	e := &Exporter{}
	if _, _, err := e.Export(t.Context(), Request{Format: FormatPDF}); err != ErrNoDocument {
		t.Errorf("Export = %v, want ErrNoDocument", err)
	}
}

func TestSurfaceForFallsBackToPageSize(t *testing.T) {
	e := &Exporter{
		Surface: func(page int) (pdfink.Size, bool) {
			if page == 1 {
				return pdfink.Size{W: 1224, H: 1584}, true
			}
			return pdfink.Size{}, false
		},
	}
	dim := pagedoc.Dim{Width: 612, Height: 792}
	if got := e.surfaceFor(1, dim); got != (pdfink.Size{W: 1224, H: 1584}) {
		t.Errorf("surfaceFor(1) = %v, want the recorded surface", got)
	}
	if got := e.surfaceFor(2, dim); got != (pdfink.Size{W: 612, H: 792}) {
		t.Errorf("surfaceFor(2) = %v, want the page size", got)
	}
}

func TestExportPDFWithoutAnnotationsPassesThrough(t *testing.T) {
	doc, err := pagedoc.Load(testpdf.Doc(testpdf.Letter, testpdf.Page{Width: 595, Height: 842}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	e := &Exporter{Doc: doc, SourceName: "report.pdf"}
	outs, skipped, err := e.Export(t.Context(), Request{Format: FormatPDF})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(outs) != 1 {
		t.Fatalf("len(outs) = %d, want 1", len(outs))
	}
	if got, want := outs[0].Name, "report-annotated.pdf"; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
	if !bytes.Equal(outs[0].Data, doc.Bytes()) {
		t.Error("export without annotations did not return the source bytes unchanged")
	}
}

func TestExportPDFStampsAnnotatedPages(t *testing.T) {
	doc, err := pagedoc.Load(testpdf.Doc(testpdf.Letter, testpdf.Letter))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	e := &Exporter{
		Doc: doc,
		Annotations: pdfink.Collection{&pdfink.Rect{
			Common: pdfink.Common{ID: "r1", Page: 2, Position: pdfink.Pt(50, 50), Color: "#ff0000", StrokeWidth: 2},
			Box:    pdfink.Box{Width: 120, Height: 80},
		}},
	}
	outs, skipped, err := e.Export(t.Context(), Request{Format: FormatPDF})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if bytes.Equal(outs[0].Data, doc.Bytes()) {
		t.Error("export with annotations returned the source bytes unchanged")
	}
	stamped, err := pagedoc.Load(outs[0].Data)
	if err != nil {
		t.Fatalf("Load stamped output: %v", err)
	}
	if got := stamped.PageCount(); got != 2 {
		t.Errorf("stamped PageCount() = %d, want 2", got)
	}
}
