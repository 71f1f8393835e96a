package pdfink

import (
	"fmt"

	"github.com/pdfink/pdfink/pagedoc"
)

// DocumentState is the viewer-facing state of the loaded document.
type DocumentState struct {
	FileName    string
	PageCount   int
	CurrentPage int     // 1-based
	Scale       float64 // view zoom factor
	Rotation    int     // view rotation in degrees, multiples of 90
}

// Session is the single source of truth for one editing session: it owns
// the annotation [Store], the loaded document, the per-page rendered
// surface sizes, and the transactional page-mutation commands. UI layers
// call commands; they never mutate fields directly.
type Session struct {
	store *Store
	doc   *pagedoc.Document
	state DocumentState

	// surfaces records the rendered surface pixel size per 1-based page,
	// as reported by the page renderer. Export reads these to compute
	// per-page coordinate scale factors.
	surfaces map[int]Size

	// release frees the resource handle backing the current document
	// (an object URL or equivalent). Called when the document is
	// superseded or the session closes.
	release func()
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		store:    NewStore(),
		surfaces: make(map[int]Size),
	}
}

// Store returns the annotation store.
func (s *Session) Store() *Store { return s.store }

// Document returns the loaded document, or nil.
func (s *Session) Document() *pagedoc.Document { return s.doc }

// State returns the current document state.
func (s *Session) State() DocumentState { return s.state }

// LoadDocument loads a new PDF, resetting annotations, history, selection
// and recorded surfaces. release, if non-nil, is invoked when this
// document is superseded or the session closes.
func (s *Session) LoadDocument(fileName string, data []byte, release func()) error {
	doc, err := pagedoc.Load(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", fileName, err)
	}
	s.dropRelease()
	s.doc = doc
	s.release = release
	s.state = DocumentState{
		FileName:    fileName,
		PageCount:   doc.PageCount(),
		CurrentPage: 1,
		Scale:       1,
	}
	s.surfaces = make(map[int]Size)
	s.store.Reset()
	Logger().Info("document loaded", "file", fileName, "pages", doc.PageCount())
	return nil
}

// Close releases the document handle. The session may be reused by
// loading another document.
func (s *Session) Close() {
	s.dropRelease()
	s.doc = nil
	s.state = DocumentState{}
}

func (s *Session) dropRelease() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// DeletePage removes the 1-based page from the document and cascades to
// the annotation store: annotations on the page are dropped and later
// pages renumbered, as one history entry. The document mutation and the
// renumbering apply together or not at all.
func (s *Session) DeletePage(page int) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	if page < 1 || page > s.state.PageCount {
		return ErrPageOutOfRange
	}
	before := s.state.PageCount
	if err := s.doc.RemovePage(page); err != nil {
		return err
	}
	// The document mutation succeeded; the store remap cannot fail for a
	// validated page, so the pair is atomic.
	if err := s.store.RemovePage(page, before); err != nil {
		return err
	}
	s.state.PageCount = s.doc.PageCount()
	if s.state.CurrentPage > s.state.PageCount {
		s.state.CurrentPage = s.state.PageCount
	}
	// Recorded surfaces no longer match the page sequence; the renderer
	// reports fresh sizes on re-render.
	s.surfaces = make(map[int]Size)
	Logger().Info("page deleted", "page", page, "pages", s.state.PageCount)
	return nil
}

// ReorderPage moves the page at 0-based index old to index new, updating
// annotation page numbers to mirror the document's remove-then-insert
// move. One history entry is pushed.
func (s *Session) ReorderPage(old, new int) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	n := s.state.PageCount
	if old < 0 || old >= n || new < 0 || new >= n {
		return ErrPageOutOfRange
	}
	if old == new {
		return nil
	}
	if err := s.doc.MovePage(old, new); err != nil {
		return err
	}
	if err := s.store.MovePage(old, new, n); err != nil {
		return err
	}
	s.surfaces = make(map[int]Size)
	Logger().Info("page moved", "from", old, "to", new)
	return nil
}

// PlaceImage adds an image or signature annotation from a data-URI
// payload at the given position on the current page.
func (s *Session) PlaceImage(kind Kind, data string, pos Point, box Box) (Annotation, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	f := s.store.Format()
	common := Common{
		Page:     s.state.CurrentPage,
		Position: pos,
		Opacity:  f.Opacity,
	}
	var a Annotation
	switch kind {
	case KindImage:
		a = &ImageStamp{Common: common, Box: box, Data: data}
	case KindSignature:
		a = &Signature{Common: common, Box: box, Data: data}
	default:
		return nil, fmt.Errorf("pdfink: cannot place kind %q as image", kind)
	}
	return s.store.Add(a), nil
}

// SetCurrentPage navigates the viewer. Out-of-range pages are clamped.
func (s *Session) SetCurrentPage(page int) {
	if page < 1 {
		page = 1
	}
	if s.state.PageCount > 0 && page > s.state.PageCount {
		page = s.state.PageCount
	}
	s.state.CurrentPage = page
}

// SetScale sets the view zoom factor.
func (s *Session) SetScale(scale float64) {
	if scale > 0 {
		s.state.Scale = scale
	}
}

// SetRotation sets the view rotation in degrees, normalized to [0, 360).
func (s *Session) SetRotation(deg int) {
	s.state.Rotation = ((deg % 360) + 360) % 360
}

// RecordSurface stores the rendered surface pixel size of a 1-based page.
// The page renderer reports it after each (re-)render.
func (s *Session) RecordSurface(page int, size Size) {
	if size.IsZero() {
		return
	}
	s.surfaces[page] = size
}

// Surface returns the recorded surface size for a page.
func (s *Session) Surface(page int) (Size, bool) {
	size, ok := s.surfaces[page]
	return size, ok
}

// Keyboard shortcut dispatch. Chords use "ctrl" for Ctrl or Cmd.

// Chord is a normalized keyboard chord.
type Chord struct {
	Key   string // lowercase key
	Ctrl  bool   // Ctrl or Cmd
	Shift bool
}

// HandleKey dispatches the standard editing shortcuts:
// Ctrl/Cmd+Z undo, Ctrl/Cmd+Shift+Z or Ctrl/Cmd+Y redo, Ctrl/Cmd+C copy,
// Ctrl/Cmd+V paste. It reports whether the chord was handled.
func (s *Session) HandleKey(c Chord) bool {
	if !c.Ctrl {
		return false
	}
	switch {
	case c.Key == "z" && !c.Shift:
		s.store.Undo()
	case (c.Key == "z" && c.Shift) || c.Key == "y":
		s.store.Redo()
	case c.Key == "c":
		if err := s.store.Copy(); err != nil {
			return false
		}
	case c.Key == "v":
		if _, err := s.store.Paste(); err != nil {
			return false
		}
	default:
		return false
	}
	return true
}
