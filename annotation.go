package pdfink

// Kind identifies an annotation variant. The set of kinds is closed; every
// consumer that switches on Kind handles all of them.
type Kind string

// The annotation kinds.
const (
	KindText      Kind = "text"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindHighlight Kind = "highlight"
	KindPen       Kind = "pen"
	KindEraser    Kind = "eraser"
	KindImage     Kind = "image"
	KindSignature Kind = "signature"
)

// Kinds lists all annotation kinds in a stable order.
var Kinds = []Kind{
	KindText, KindRectangle, KindCircle, KindLine, KindArrow,
	KindHighlight, KindPen, KindEraser, KindImage, KindSignature,
}

// Annotation is a single user-added markup object anchored to one page.
//
// Concrete types are one struct per kind ([TextBox], [Rect], [Ellipse],
// [Line], [Arrow], [Highlight], [Stroke], [Erasure], [ImageStamp],
// [Signature]); each declares only the fields its kind uses.
type Annotation interface {
	// Kind returns the variant tag of the annotation.
	Kind() Kind

	// GetCommon returns the fields shared by all annotation kinds.
	GetCommon() *Common

	// Clone returns a deep copy sharing no mutable state with the
	// receiver.
	Clone() Annotation

	// Translate moves the whole annotation rigidly by d, including any
	// secondary geometry (stroke points, line endpoints).
	Translate(d Point)
}

// Common holds the fields shared by all annotation kinds.
type Common struct {
	// ID is an opaque identifier assigned at creation. It is unique for
	// the lifetime of the collection and never reused.
	ID string `json:"id"`

	// Name is the human-readable label shown in the layers panel, e.g.
	// "Rectangle 2". Assigned at creation from the next unused sequence
	// number for the kind.
	Name string `json:"name"`

	// Page is the 1-based number of the page the annotation belongs to.
	// It always references a page that exists in the current document;
	// page deletion and reordering keep it consistent.
	Page int `json:"pageNumber"`

	// Position is the anchor point: top-left corner for box-like kinds,
	// start point for line/arrow, bounding origin for pen strokes.
	Position Point `json:"position"`

	// Color is the fill or stroke color, depending on the kind, as a hex
	// string. Malformed values fall back to [DefaultColor] at export.
	Color string `json:"color,omitempty"`

	// StrokeColor is the outline color for stroked kinds.
	StrokeColor string `json:"strokeColor,omitempty"`

	// StrokeWidth is the outline width in screen pixels.
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// Opacity is the paint opacity in [0, 1]. Zero means "unset" and is
	// treated as fully opaque.
	Opacity float64 `json:"opacity,omitempty"`

	// Rotation is reserved; export currently ignores it.
	Rotation float64 `json:"rotation,omitempty"`
}

// GetCommon implements the [Annotation] interface.
func (c *Common) GetCommon() *Common { return c }

// Translate implements the [Annotation] interface for kinds without
// secondary geometry. Kinds with stroke points or endpoints override it.
func (c *Common) Translate(d Point) {
	c.Position = c.Position.Add(d)
}

// EffectiveOpacity returns the opacity to paint with: the stored value
// clamped to (0, 1], with zero (unset) meaning opaque.
func (c *Common) EffectiveOpacity() float64 {
	if c.Opacity <= 0 || c.Opacity > 1 {
		return 1
	}
	return c.Opacity
}

// Box holds the dimensions of box-like annotations, in screen pixels.
// Embedded so that width/height serialize as top-level annotation fields.
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the box dimensions as a Size.
func (b Box) Size() Size { return Size{W: b.Width, H: b.Height} }

// boxRef exposes the box for in-place geometry edits. Promotion through
// embedding marks the box-like kinds; kinds without a Box (text, lines,
// strokes) cannot be resized by handle.
func (b *Box) boxRef() *Box { return b }

// boxed is satisfied by annotations with box geometry.
type boxed interface {
	boxRef() *Box
}
