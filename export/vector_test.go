package export

import (
	"testing"

	"seehuhn.de/go/pdf/font/standard"

	"github.com/pdfink/pdfink"
)

func TestStandardFontMapping(t *testing.T) {
	tests := []struct {
		name   string
		family string
		bold   bool
		italic bool
		want   standard.Font
	}{
		{"default", "", false, false, standard.Helvetica},
		{"helvetica bold", "Helvetica", true, false, standard.HelveticaBold},
		{"arial maps to helvetica", "Arial", false, false, standard.Helvetica},
		{"times", "Times New Roman", false, false, standard.TimesRoman},
		{"times bold italic", "times", true, true, standard.TimesBoldItalic},
		{"courier italic", "Courier New", false, true, standard.CourierOblique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := &pdfink.TextBox{FontFamily: tt.family, Bold: tt.bold, Italic: tt.italic}
			if got := standardFamily(tb); got != tt.want {
				t.Errorf("font = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrokeAndFillPaintFallbacks(t *testing.T) {
	c := &pdfink.Common{}
	if got := strokePaint(c); got != pdfink.DefaultColor {
		t.Errorf("strokePaint(empty) = %+v, want the default color", got)
	}
	if got := fillPaint(c); got != pdfink.DefaultColor {
		t.Errorf("fillPaint(empty) = %+v, want the default color", got)
	}

	c = &pdfink.Common{Color: "#0000ff", StrokeColor: "#00ff00"}
	if got := strokePaint(c); got != (pdfink.RGBA{G: 1, A: 1}) {
		t.Errorf("strokePaint = %+v, want green", got)
	}
	if got := fillPaint(c); got != (pdfink.RGBA{B: 1, A: 1}) {
		t.Errorf("fillPaint = %+v, want blue", got)
	}

	// A stroked kind without an explicit stroke color borrows the fill
	// color.
	c = &pdfink.Common{Color: "#0000ff"}
	if got := strokePaint(c); got != (pdfink.RGBA{B: 1, A: 1}) {
		t.Errorf("strokePaint without stroke color = %+v, want the fill color", got)
	}
}
