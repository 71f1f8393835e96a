package pdfink

import "github.com/google/uuid"

// Tool identifies the active editing tool.
type Tool string

// The editing tools. Every tool except ToolSelect creates annotations.
const (
	ToolSelect    Tool = "select"
	ToolText      Tool = "text"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolHighlight Tool = "highlight"
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolImage     Tool = "image"
	ToolSignature Tool = "signature"
)

// PasteOffset is the shift, in device-independent pixels on both axes,
// applied to pasted and duplicated annotations.
const PasteOffset = 20.0

// Format is the current formatting state applied to newly created
// annotations and live-edited selections.
type Format struct {
	Color       string  `json:"currentColor"`
	StrokeColor string  `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
	FontFamily  string  `json:"fontFamily"`
	FontSize    float64 `json:"fontSize"`
	Bold        bool    `json:"textBold"`
	Italic      bool    `json:"textItalic"`
	Underline   bool    `json:"textUnderline"`
	TextAlign   string  `json:"textAlign"`
	Background  string  `json:"backgroundColor"`
}

// DefaultFormat returns the formatting state of a fresh session.
func DefaultFormat() Format {
	return Format{
		Color:       "#000000",
		StrokeColor: "#000000",
		StrokeWidth: 2,
		Opacity:     1,
		FontFamily:  "Helvetica",
		FontSize:    16,
		TextAlign:   "left",
	}
}

// Store owns the canonical annotation collection, the undo/redo history,
// and the current tool, selection and formatting state.
//
// Every mutating operation pushes exactly one history entry. Batched edits
// that belong to one logical user action (a drag, a formatting-panel sync)
// go through an uncommitted apply phase and a single commit.
type Store struct {
	annotations Collection
	history     *History

	selected  string // id of the selected annotation, or ""
	tool      Tool
	format    Format
	clipboard Annotation
}

// NewStore returns an empty store with a fresh history.
func NewStore() *Store {
	return &Store{
		history: NewHistory(),
		tool:    ToolSelect,
		format:  DefaultFormat(),
	}
}

// Annotations returns the live collection in layer order. The returned
// slice is owned by the store; callers must not mutate it.
func (s *Store) Annotations() Collection { return s.annotations }

// Tool returns the active tool.
func (s *Store) Tool() Tool { return s.tool }

// SetTool changes the active tool. Changing tools clears the selection
// unless the new tool is the selection tool.
func (s *Store) SetTool(t Tool) {
	s.tool = t
	if t != ToolSelect {
		s.selected = ""
	}
}

// Format returns the current formatting state.
func (s *Store) Format() Format { return s.format }

// SetFormat replaces the current formatting state. This affects newly
// created annotations only; it does not touch existing ones and pushes no
// history entry.
func (s *Store) SetFormat(f Format) { s.format = f }

// Selected returns the selected annotation, or nil.
func (s *Store) Selected() Annotation {
	if s.selected == "" {
		return nil
	}
	return s.annotations.Find(s.selected)
}

// Select marks the annotation with the given id as selected. An unknown id
// clears the selection.
func (s *Store) Select(id string) {
	if s.annotations.Find(id) == nil {
		s.selected = ""
		return
	}
	s.selected = id
}

// ClearSelection clears the selection.
func (s *Store) ClearSelection() { s.selected = "" }

// newID returns an identifier guaranteed unique within the session.
func newID() string { return uuid.NewString() }

// Add assigns a fresh id and display name to a, appends it as the top
// layer, selects it, and pushes one history entry. It returns a.
func (s *Store) Add(a Annotation) Annotation {
	c := a.GetCommon()
	c.ID = newID()
	c.Name = NextName(a.Kind(), s.annotations)
	s.annotations = append(s.annotations, a)
	s.selected = c.ID
	s.push()
	return a
}

// Update applies mutate to the annotation with the given id and pushes one
// history entry. Unknown ids are a silent no-op.
func (s *Store) Update(id string, mutate func(Annotation)) {
	a := s.annotations.Find(id)
	if a == nil {
		return
	}
	mutate(a)
	s.push()
}

// apply mutates without recording history. Gestures use it for live
// feedback and call commit once at gesture end.
func (s *Store) apply(id string, mutate func(Annotation)) {
	if a := s.annotations.Find(id); a != nil {
		mutate(a)
	}
}

// commit records the current collection as one history entry.
func (s *Store) commit() { s.push() }

// Delete removes the annotation with the given id and pushes one history
// entry. If it was selected the selection is cleared. Unknown ids are a
// silent no-op.
func (s *Store) Delete(id string) {
	i := s.annotations.IndexOf(id)
	if i < 0 {
		return
	}
	s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.push()
}

// Reorder moves the annotation at layer index old to index new and pushes
// one history entry. Out-of-range or equal indices are a silent no-op.
// Layer order changes rendering order only, never page association.
func (s *Store) Reorder(old, new int) {
	n := len(s.annotations)
	if old < 0 || old >= n || new < 0 || new >= n || old == new {
		return
	}
	a := s.annotations[old]
	s.annotations = append(s.annotations[:old], s.annotations[old+1:]...)
	s.annotations = append(s.annotations[:new], append(Collection{a}, s.annotations[new:]...)...)
	s.push()
}

// DuplicateWithOffset deep-copies src, assigns a new id and name, shifts
// the whole geometry by [PasteOffset] on both axes, appends the copy as the
// top layer, selects it, and pushes one history entry.
func (s *Store) DuplicateWithOffset(src Annotation) Annotation {
	dup := src.Clone()
	dup.Translate(Pt(PasteOffset, PasteOffset))
	c := dup.GetCommon()
	c.ID = newID()
	c.Name = NextName(dup.Kind(), s.annotations)
	s.annotations = append(s.annotations, dup)
	s.selected = c.ID
	s.push()
	return dup
}

// Copy places a deep copy of the selected annotation on the clipboard.
func (s *Store) Copy() error {
	sel := s.Selected()
	if sel == nil {
		return ErrNoSelection
	}
	s.clipboard = sel.Clone()
	return nil
}

// Paste duplicates the clipboard annotation with the paste offset. The
// clipboard keeps its content, so repeated pastes produce staggered copies.
func (s *Store) Paste() (Annotation, error) {
	if s.clipboard == nil {
		return nil, ErrEmptyClipboard
	}
	return s.DuplicateWithOffset(s.clipboard), nil
}

// Undo replaces the collection with the previous history entry. It reports
// whether anything changed.
func (s *Store) Undo() bool {
	snapshot, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// Redo replaces the collection with the next history entry. It reports
// whether anything changed.
func (s *Store) Redo() bool {
	snapshot, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// CanUndo reports whether Undo would change state.
func (s *Store) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change state.
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// Reset drops all annotations, clears selection and clipboard, and starts
// a fresh history. Used on document load and session reset.
func (s *Store) Reset() {
	s.annotations = nil
	s.selected = ""
	s.clipboard = nil
	s.history.Reset(nil)
}

// Load replaces the collection with annotations restored from a persisted
// session and resets history to that state as the single entry.
func (s *Store) Load(c Collection) {
	s.annotations = c.Clone()
	s.selected = ""
	s.history.Reset(s.annotations)
}

// restore installs a history snapshot as the live collection, dropping the
// selection if the selected annotation no longer exists.
func (s *Store) restore(snapshot Collection) {
	s.annotations = snapshot
	if s.selected != "" && s.annotations.Find(s.selected) == nil {
		s.selected = ""
	}
}

// push records the live collection as one history entry.
func (s *Store) push() {
	s.history.Push(s.annotations)
}
