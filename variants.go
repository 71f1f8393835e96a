package pdfink

// This file defines the concrete annotation variants. Each variant carries
// only the fields its kind uses; shared fields live in [Common].

// compile-time interface checks
var (
	_ Annotation = (*TextBox)(nil)
	_ Annotation = (*Rect)(nil)
	_ Annotation = (*Ellipse)(nil)
	_ Annotation = (*Highlight)(nil)
	_ Annotation = (*Line)(nil)
	_ Annotation = (*Arrow)(nil)
	_ Annotation = (*Stroke)(nil)
	_ Annotation = (*Erasure)(nil)
	_ Annotation = (*ImageStamp)(nil)
	_ Annotation = (*Signature)(nil)
)

// TextBox is a text annotation anchored at its top-left corner.
type TextBox struct {
	Common

	// Text is the displayed string.
	Text string `json:"text"`

	// FontSize is the font size in screen pixels. Export scales it to
	// page space.
	FontSize float64 `json:"fontSize,omitempty"`

	// FontFamily names the requested font family.
	FontFamily string `json:"fontFamily,omitempty"`

	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`

	// TextAlign is "left", "center" or "right".
	TextAlign string `json:"textAlign,omitempty"`

	// Background is an optional background fill as a hex color. Empty
	// means transparent.
	Background string `json:"backgroundColor,omitempty"`
}

// Kind returns [KindText].
func (t *TextBox) Kind() Kind { return KindText }

// Clone implements the [Annotation] interface.
func (t *TextBox) Clone() Annotation {
	c := *t
	return &c
}

// Rect is a stroked rectangle.
type Rect struct {
	Common
	Box
}

// Kind returns [KindRectangle].
func (r *Rect) Kind() Kind { return KindRectangle }

// Clone implements the [Annotation] interface.
func (r *Rect) Clone() Annotation {
	c := *r
	return &c
}

// Ellipse is a stroked ellipse inscribed in its bounding box. The "circle"
// tool creates it; the stored shape follows the dragged box, so it is an
// ellipse in general.
type Ellipse struct {
	Common
	Box
}

// Kind returns [KindCircle].
func (e *Ellipse) Kind() Kind { return KindCircle }

// Clone implements the [Annotation] interface.
func (e *Ellipse) Clone() Annotation {
	c := *e
	return &c
}

// HighlightOpacity is the fixed paint opacity for highlight annotations,
// applied regardless of the stored opacity value.
const HighlightOpacity = 0.3

// Highlight is a filled translucent rectangle.
type Highlight struct {
	Common
	Box
}

// Kind returns [KindHighlight].
func (h *Highlight) Kind() Kind { return KindHighlight }

// Clone implements the [Annotation] interface.
func (h *Highlight) Clone() Annotation {
	c := *h
	return &c
}

// Line is a straight segment from Position to End.
type Line struct {
	Common

	// End is the terminal point of the segment.
	End Point `json:"endPoint"`
}

// Kind returns [KindLine].
func (l *Line) Kind() Kind { return KindLine }

// Clone implements the [Annotation] interface.
func (l *Line) Clone() Annotation {
	c := *l
	return &c
}

// Translate moves both endpoints rigidly.
func (l *Line) Translate(d Point) {
	l.Position = l.Position.Add(d)
	l.End = l.End.Add(d)
}

// Arrow is a straight segment from Position to End with an arrowhead at
// End. The arrowhead is cosmetic; geometry is the segment.
type Arrow struct {
	Common

	// End is the terminal point, where the arrowhead is drawn.
	End Point `json:"endPoint"`
}

// Kind returns [KindArrow].
func (a *Arrow) Kind() Kind { return KindArrow }

// Clone implements the [Annotation] interface.
func (a *Arrow) Clone() Annotation {
	c := *a
	return &c
}

// Translate moves both endpoints rigidly.
func (a *Arrow) Translate(d Point) {
	a.Position = a.Position.Add(d)
	a.End = a.End.Add(d)
}

// Stroke is a freehand pen stroke: raw pointer samples connected by
// straight segments. A stroke is meaningful with two or more points.
type Stroke struct {
	Common

	// Points are the sampled pointer positions, in order. No smoothing
	// or decimation is applied.
	Points []Point `json:"points"`
}

// Kind returns [KindPen].
func (s *Stroke) Kind() Kind { return KindPen }

// Clone implements the [Annotation] interface.
func (s *Stroke) Clone() Annotation {
	c := *s
	c.Points = append([]Point(nil), s.Points...)
	return &c
}

// Translate moves the anchor and every sample point rigidly.
func (s *Stroke) Translate(d Point) {
	s.Position = s.Position.Add(d)
	for i := range s.Points {
		s.Points[i] = s.Points[i].Add(d)
	}
}

// Erasure is an eraser stroke. It shares the geometry of [Stroke] but is
// painted in the page background color.
type Erasure struct {
	Common

	Points []Point `json:"points"`
}

// Kind returns [KindEraser].
func (e *Erasure) Kind() Kind { return KindEraser }

// Clone implements the [Annotation] interface.
func (e *Erasure) Clone() Annotation {
	c := *e
	c.Points = append([]Point(nil), e.Points...)
	return &c
}

// Translate moves the anchor and every sample point rigidly.
func (e *Erasure) Translate(d Point) {
	e.Position = e.Position.Add(d)
	for i := range e.Points {
		e.Points[i] = e.Points[i].Add(d)
	}
}

// ImageStamp is a raster image drawn into its bounding box.
type ImageStamp struct {
	Common
	Box

	// Data is the image payload as a data URI (PNG or JPEG).
	Data string `json:"imageData"`
}

// Kind returns [KindImage].
func (i *ImageStamp) Kind() Kind { return KindImage }

// Clone implements the [Annotation] interface.
func (i *ImageStamp) Clone() Annotation {
	c := *i
	return &c
}

// Signature is a captured signature image drawn into its bounding box.
// It differs from [ImageStamp] only in provenance and display name.
type Signature struct {
	Common
	Box

	// Data is the signature payload as a data URI (PNG or JPEG).
	Data string `json:"imageData"`
}

// Kind returns [KindSignature].
func (s *Signature) Kind() Kind { return KindSignature }

// Clone implements the [Annotation] interface.
func (s *Signature) Clone() Annotation {
	c := *s
	return &c
}

// newOfKind returns a zero value of the variant for k, used when decoding
// serialized annotations.
func newOfKind(k Kind) Annotation {
	switch k {
	case KindText:
		return &TextBox{}
	case KindRectangle:
		return &Rect{}
	case KindCircle:
		return &Ellipse{}
	case KindLine:
		return &Line{}
	case KindArrow:
		return &Arrow{}
	case KindHighlight:
		return &Highlight{}
	case KindPen:
		return &Stroke{}
	case KindEraser:
		return &Erasure{}
	case KindImage:
		return &ImageStamp{}
	case KindSignature:
		return &Signature{}
	default:
		return nil
	}
}
