package pdfink

import (
	"math"
	"testing"
)

func TestToPageFlipsYAxis(t *testing.T) {
	surface := Size{W: 1224, H: 1584}
	page := Size{W: 612, H: 792}

	// Top-left of the surface is the top-left of the page, which in page
	// space sits at (0, pageHeight).
	if x, y := ToPage(Pt(0, 0), surface, page); x != 0 || y != 792 {
		t.Errorf("ToPage(0,0) = (%g, %g), want (0, 792)", x, y)
	}
	// Bottom-right of the surface maps to (pageWidth, 0).
	if x, y := ToPage(Pt(1224, 1584), surface, page); x != 612 || y != 0 {
		t.Errorf("ToPage(bottom right) = (%g, %g), want (612, 0)", x, y)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	pairs := []struct {
		name          string
		surface, page Size
	}{
		{"2x render", Size{W: 1224, H: 1584}, Size{W: 612, H: 792}},
		{"identity", Size{W: 612, H: 792}, Size{W: 612, H: 792}},
		{"anisotropic", Size{W: 1000, H: 700}, Size{W: 595, H: 842}},
		{"fractional", Size{W: 977.5, H: 1303.25}, Size{W: 612, H: 792}},
	}
	points := []Point{Pt(0, 0), Pt(13.7, 200.01), Pt(500, 1), Pt(976, 699)}

	const tol = 1e-9
	for _, pair := range pairs {
		t.Run(pair.name, func(t *testing.T) {
			for _, p := range points {
				x, y := ToPage(p, pair.surface, pair.page)
				got := ToSurface(x, y, pair.surface, pair.page)
				if math.Abs(got.X-p.X) > tol || math.Abs(got.Y-p.Y) > tol {
					t.Errorf("round trip of %v = %v", p, got)
				}
			}
		})
	}
}

func TestBoxToPage(t *testing.T) {
	surface := Size{W: 612, H: 792}
	page := Size{W: 612, H: 792}

	// A 100x50 box at surface (10, 20) occupies y in [722, 772] in page
	// space; the returned origin is its bottom-left corner.
	x, y, w, h := BoxToPage(Pt(10, 20), Size{W: 100, H: 50}, surface, page)
	if x != 10 || y != 722 || w != 100 || h != 50 {
		t.Errorf("BoxToPage = (%g, %g, %g, %g), want (10, 722, 100, 50)", x, y, w, h)
	}
}

func TestScaleScalar(t *testing.T) {
	tests := []struct {
		name          string
		surface, page Size
		v, want       float64
	}{
		{"identity", Size{W: 612, H: 792}, Size{W: 612, H: 792}, 4, 4},
		{"half-size surface", Size{W: 306, H: 396}, Size{W: 612, H: 792}, 4, 8},
		{"anisotropic mean", Size{W: 612, H: 396}, Size{W: 612, H: 792}, 4, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleScalar(tt.v, tt.surface, tt.page); got != tt.want {
				t.Errorf("ScaleScalar(%g) = %g, want %g", tt.v, got, tt.want)
			}
		})
	}
}
