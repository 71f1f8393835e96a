package pdfink

// Pointer gesture state machines. A Gesture tracks one annotation-creation
// drag (Idle -> Drawing -> Idle); a DragSession tracks one move of an
// existing annotation (Idle -> Dragging -> Idle). Both are driven by the
// UI's pointer events and commit into the store.

// DefaultText is the placeholder content of a freshly placed text
// annotation.
const DefaultText = "Text"

// Gesture accumulates a new annotation's geometry while the user drags
// with a creation tool, then commits it on pointer-up.
//
// Shape tools store nothing until the commit; the in-progress shape is a
// live preview owned by the UI. The pen and eraser tools accumulate every
// raw pointer sample.
type Gesture struct {
	store *Store

	active bool
	tool   Tool
	page   int
	anchor Point
	points []Point // pen/eraser samples, anchor included
}

// NewGesture returns a gesture bound to the store.
func NewGesture(store *Store) *Gesture {
	return &Gesture{store: store}
}

// Active reports whether a creation gesture is in progress.
func (g *Gesture) Active() bool { return g.active }

// Begin starts a creation gesture on the given 1-based page at the
// pointer-down position. It reports whether a gesture started: the select
// tool and the dialog-driven image/signature tools do not draw.
func (g *Gesture) Begin(page int, p Point) bool {
	tool := g.store.Tool()
	switch tool {
	case ToolSelect, ToolImage, ToolSignature:
		return false
	}
	g.active = true
	g.tool = tool
	g.page = page
	g.anchor = p
	g.points = nil
	if tool == ToolPen || tool == ToolEraser {
		g.points = append(g.points, p)
	}
	return true
}

// Move feeds a pointer-move position. For the pen and eraser tools the
// sample is appended to the stroke; shape tools ignore moves until the
// commit.
func (g *Gesture) Move(p Point) {
	if !g.active {
		return
	}
	if g.tool == ToolPen || g.tool == ToolEraser {
		g.points = append(g.points, p)
	}
}

// End commits the gesture at the pointer-up position and returns the added
// annotation, or nil if the gesture was degenerate (single-point stroke)
// or no gesture was active.
//
// After a commit, one-shot placement tools revert to the select tool; pen
// and eraser stay active for repeated strokes.
func (g *Gesture) End(p Point) Annotation {
	if !g.active {
		return nil
	}
	g.active = false

	a := g.build(p)
	if a == nil {
		return nil
	}
	g.store.Add(a)

	switch g.tool {
	case ToolPen, ToolEraser:
		// keep the tool armed
	default:
		g.store.SetTool(ToolSelect)
	}
	return a
}

// Cancel abandons the gesture without committing.
func (g *Gesture) Cancel() {
	g.active = false
	g.points = nil
}

// build constructs the annotation record for the completed gesture.
func (g *Gesture) build(up Point) Annotation {
	f := g.store.Format()
	common := Common{
		Page:        g.page,
		Position:    g.anchor,
		Color:       f.Color,
		StrokeColor: f.StrokeColor,
		StrokeWidth: f.StrokeWidth,
		Opacity:     f.Opacity,
	}

	switch g.tool {
	case ToolText:
		return &TextBox{
			Common:     common,
			Text:       DefaultText,
			FontSize:   f.FontSize,
			FontFamily: f.FontFamily,
			Bold:       f.Bold,
			Italic:     f.Italic,
			Underline:  f.Underline,
			TextAlign:  f.TextAlign,
			Background: f.Background,
		}

	case ToolRectangle, ToolCircle, ToolHighlight:
		min := g.anchor.Min(up)
		max := g.anchor.Max(up)
		common.Position = min
		box := Box{Width: max.X - min.X, Height: max.Y - min.Y}
		switch g.tool {
		case ToolRectangle:
			return &Rect{Common: common, Box: box}
		case ToolCircle:
			return &Ellipse{Common: common, Box: box}
		default:
			common.Opacity = HighlightOpacity
			return &Highlight{Common: common, Box: box}
		}

	case ToolLine:
		return &Line{Common: common, End: up}
	case ToolArrow:
		return &Arrow{Common: common, End: up}

	case ToolPen, ToolEraser:
		// A tap produces a single sample; a degenerate stroke is
		// discarded rather than committed.
		if len(g.points) < 2 {
			Logger().Debug("discarding single-point stroke")
			return nil
		}
		pts := append([]Point(nil), g.points...)
		if g.tool == ToolPen {
			return &Stroke{Common: common, Points: pts}
		}
		return &Erasure{Common: common, Points: pts}
	}
	return nil
}

// DragSession moves an existing annotation rigidly while the select tool
// is active. Moves update the live collection for immediate feedback but
// buffer the history: exactly one entry is pushed at drag end, so a drag
// is a single undo step.
type DragSession struct {
	store *Store

	active bool
	id     string
	offset Point // pointer position relative to the annotation anchor
	moved  bool
}

// NewDragSession returns a drag session bound to the store.
func NewDragSession(store *Store) *DragSession {
	return &DragSession{store: store}
}

// Active reports whether a drag is in progress.
func (d *DragSession) Active() bool { return d.active }

// Begin starts dragging the annotation with the given id from the
// pointer-down position. It reports whether a drag started.
func (d *DragSession) Begin(id string, p Point) bool {
	if d.store.Tool() != ToolSelect {
		return false
	}
	a := d.store.Annotations().Find(id)
	if a == nil {
		return false
	}
	d.store.Select(id)
	d.active = true
	d.id = id
	d.offset = p.Sub(a.GetCommon().Position)
	d.moved = false
	return true
}

// Move recomputes the anchor from the pointer position and translates the
// whole annotation by the resulting delta.
func (d *DragSession) Move(p Point) {
	if !d.active {
		return
	}
	d.store.apply(d.id, func(a Annotation) {
		delta := p.Sub(d.offset).Sub(a.GetCommon().Position)
		if delta == (Point{}) {
			return
		}
		a.Translate(delta)
		d.moved = true
	})
}

// End finishes the drag, pushing one history entry if the annotation
// actually moved.
func (d *DragSession) End() {
	if !d.active {
		return
	}
	d.active = false
	if d.moved {
		d.store.commit()
	}
}

// Handle identifies the corner grabbed for a resize.
type Handle int

// The resize handles, by corner.
const (
	HandleNW Handle = iota
	HandleNE
	HandleSW
	HandleSE
)

// ResizeSession resizes a box-like annotation by dragging one of its
// corner handles. Like [DragSession] it updates the live collection per
// move and pushes exactly one history entry at the end.
type ResizeSession struct {
	store *Store

	active bool
	id     string
	fixed  Point // the corner opposite the grabbed handle
	moved  bool
}

// NewResizeSession returns a resize session bound to the store.
func NewResizeSession(store *Store) *ResizeSession {
	return &ResizeSession{store: store}
}

// Active reports whether a resize is in progress.
func (r *ResizeSession) Active() bool { return r.active }

// Begin starts resizing the annotation with the given id from the grabbed
// handle. It reports whether a resize started: only box-like kinds resize,
// and only while the select tool is active.
func (r *ResizeSession) Begin(id string, h Handle) bool {
	if r.store.Tool() != ToolSelect {
		return false
	}
	a := r.store.Annotations().Find(id)
	if a == nil {
		return false
	}
	b, ok := a.(boxed)
	if !ok {
		return false
	}
	pos := a.GetCommon().Position
	box := b.boxRef()

	// The corner diagonally opposite the handle stays put.
	r.fixed = pos
	switch h {
	case HandleNW:
		r.fixed = pos.Add(Pt(box.Width, box.Height))
	case HandleNE:
		r.fixed = pos.Add(Pt(0, box.Height))
	case HandleSW:
		r.fixed = pos.Add(Pt(box.Width, 0))
	}

	r.store.Select(id)
	r.active = true
	r.id = id
	r.moved = false
	return true
}

// Move resizes so the dragged corner follows the pointer while the fixed
// corner stays put. The box normalizes to its min corner, so dragging past
// the fixed corner flips the box instead of inverting it.
func (r *ResizeSession) Move(p Point) {
	if !r.active {
		return
	}
	r.store.apply(r.id, func(a Annotation) {
		box := a.(boxed).boxRef()
		c := a.GetCommon()
		min, max := r.fixed.Min(p), r.fixed.Max(p)
		next := Box{Width: max.X - min.X, Height: max.Y - min.Y}
		if c.Position == min && *box == next {
			return
		}
		c.Position = min
		*box = next
		r.moved = true
	})
}

// End finishes the resize, pushing one history entry if the box changed.
func (r *ResizeSession) End() {
	if !r.active {
		return
	}
	r.active = false
	if r.moved {
		r.store.commit()
	}
}
