package pdfink

import (
	"errors"
	"testing"
)

func TestStoreAddAssignsUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		a := s.Add(&Rect{Common: Common{Page: 1}})
		id := a.GetCommon().ID
		if id == "" {
			t.Fatal("Add() assigned empty id")
		}
		if seen[id] {
			t.Fatalf("Add() reused id %q", id)
		}
		seen[id] = true
	}
}

func TestStoreAddSelectsAndNames(t *testing.T) {
	s := NewStore()
	a := s.Add(&Rect{Common: Common{Page: 1}})
	if got := a.GetCommon().Name; got != "Rectangle 1" {
		t.Errorf("first name = %q, want %q", got, "Rectangle 1")
	}
	if sel := s.Selected(); sel == nil || sel.GetCommon().ID != a.GetCommon().ID {
		t.Error("Add() did not select the new annotation")
	}
	b := s.Add(&Rect{Common: Common{Page: 1}})
	if got := b.GetCommon().Name; got != "Rectangle 2" {
		t.Errorf("second name = %q, want %q", got, "Rectangle 2")
	}
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore()
	a := s.Add(&Rect{Common: Common{Page: 1}})

	s.Update(a.GetCommon().ID, func(a Annotation) {
		a.GetCommon().Color = "#00ff00"
	})
	if got := s.Annotations()[0].GetCommon().Color; got != "#00ff00" {
		t.Errorf("color after update = %q, want %q", got, "#00ff00")
	}

	// Unknown id is a silent no-op: no mutation, no history entry.
	before := s.history.Len()
	s.Update("nope", func(a Annotation) { a.GetCommon().Color = "#0000ff" })
	if got := s.history.Len(); got != before {
		t.Errorf("history len after unknown-id update = %d, want %d", got, before)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	a := s.Add(&Rect{Common: Common{Page: 1}})
	b := s.Add(&Ellipse{Common: Common{Page: 1}})

	s.Delete(a.GetCommon().ID)
	if got := len(s.Annotations()); got != 1 {
		t.Fatalf("len after delete = %d, want 1", got)
	}
	if sel := s.Selected(); sel == nil || sel.GetCommon().ID != b.GetCommon().ID {
		t.Error("selection should still point at the remaining annotation")
	}

	s.Delete(b.GetCommon().ID)
	if s.Selected() != nil {
		t.Error("deleting the selected annotation must clear the selection")
	}
}

func TestStoreReorder(t *testing.T) {
	s := NewStore()
	a := s.Add(&Rect{Common: Common{Page: 1}})
	b := s.Add(&Ellipse{Common: Common{Page: 1}})
	c := s.Add(&Line{Common: Common{Page: 1}})

	s.Reorder(0, 2)
	want := []string{b.GetCommon().ID, c.GetCommon().ID, a.GetCommon().ID}
	for i, id := range want {
		if got := s.Annotations()[i].GetCommon().ID; got != id {
			t.Errorf("layer %d = %q, want %q", i, got, id)
		}
	}

	// Out-of-range indices change nothing.
	before := s.history.Len()
	s.Reorder(-1, 0)
	s.Reorder(0, 3)
	if got := s.history.Len(); got != before {
		t.Errorf("history len after no-op reorders = %d, want %d", got, before)
	}
}

func TestStoreCopyPaste(t *testing.T) {
	s := NewStore()

	if err := s.Copy(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Copy() with no selection = %v, want ErrNoSelection", err)
	}
	if _, err := s.Paste(); !errors.Is(err, ErrEmptyClipboard) {
		t.Errorf("Paste() with empty clipboard = %v, want ErrEmptyClipboard", err)
	}

	src := s.Add(&Line{
		Common: Common{Page: 2, Position: Pt(10, 20)},
		End:    Pt(30, 40),
	})
	if err := s.Copy(); err != nil {
		t.Fatalf("Copy() = %v", err)
	}

	pasted, err := s.Paste()
	if err != nil {
		t.Fatalf("Paste() = %v", err)
	}
	pc := pasted.GetCommon()
	sc := src.GetCommon()
	if pc.ID == sc.ID {
		t.Error("pasted copy shares the source id")
	}
	if pc.Name == sc.Name {
		t.Error("pasted copy shares the source name")
	}
	if got, want := pc.Position, Pt(10+PasteOffset, 20+PasteOffset); got != want {
		t.Errorf("pasted position = %v, want %v", got, want)
	}
	if got, want := pasted.(*Line).End, Pt(30+PasteOffset, 40+PasteOffset); got != want {
		t.Errorf("pasted endpoint = %v, want %v", got, want)
	}

	// The clipboard survives a paste; the next paste offsets from the
	// original again, not from the first copy.
	second, err := s.Paste()
	if err != nil {
		t.Fatalf("second Paste() = %v", err)
	}
	if got, want := second.GetCommon().Position, Pt(10+PasteOffset, 20+PasteOffset); got != want {
		t.Errorf("second pasted position = %v, want %v", got, want)
	}
}

func TestStoreDuplicateMovesStrokePoints(t *testing.T) {
	s := NewStore()
	src := s.Add(&Stroke{
		Common: Common{Page: 1, Position: Pt(1, 1)},
		Points: []Point{Pt(1, 1), Pt(5, 5)},
	})

	dup := s.DuplicateWithOffset(src).(*Stroke)
	if got, want := dup.Points[1], Pt(5+PasteOffset, 5+PasteOffset); got != want {
		t.Errorf("duplicated point = %v, want %v", got, want)
	}
	// The source geometry must be untouched.
	if got, want := src.(*Stroke).Points[1], Pt(5, 5); got != want {
		t.Errorf("source point after duplicate = %v, want %v", got, want)
	}
}

func TestStoreUndoRedo(t *testing.T) {
	s := NewStore()
	a := s.Add(&Rect{Common: Common{Page: 1}})
	s.Add(&Ellipse{Common: Common{Page: 1}})

	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	if got := len(s.Annotations()); got != 1 {
		t.Fatalf("len after undo = %d, want 1", got)
	}
	if !s.Redo() {
		t.Fatal("Redo() = false")
	}
	if got := len(s.Annotations()); got != 2 {
		t.Fatalf("len after redo = %d, want 2", got)
	}

	// Undoing past an annotation's creation drops a stale selection.
	s.Select(a.GetCommon().ID)
	s.Undo()
	s.Undo()
	if s.Selected() != nil {
		t.Error("selection should be cleared when the annotation no longer exists")
	}
}

func TestStoreLoadResetsHistory(t *testing.T) {
	s := NewStore()
	s.Add(&Rect{Common: Common{Page: 1}})

	s.Load(Collection{rectOn(3, "x")})
	if got := len(s.Annotations()); got != 1 {
		t.Fatalf("len after load = %d, want 1", got)
	}
	if s.CanUndo() {
		t.Error("CanUndo() = true after load, want false")
	}
	if got := s.Annotations()[0].GetCommon().Page; got != 3 {
		t.Errorf("loaded page = %d, want 3", got)
	}
}
