package pdfink

// History is a linear undo/redo stack of full collection snapshots.
//
// The entry sequence is never empty: a new History starts with one empty
// snapshot. The cursor always points at the entry equal to the live
// collection, so Undo/Redo replace the live collection wholesale with a
// deep copy of a neighbor entry. Pushing after an undo discards the
// redo-able future; there is no branching.
type History struct {
	entries []Collection
	cursor  int
}

// NewHistory returns a history containing a single empty snapshot.
func NewHistory() *History {
	return &History{entries: []Collection{nil}}
}

// Push records a new snapshot. Entries beyond the cursor (the redo branch)
// are discarded. The snapshot is deep-copied, so the caller may keep
// mutating the live collection afterwards without altering the entry.
func (h *History) Push(snapshot Collection) {
	h.entries = append(h.entries[:h.cursor+1], snapshot.Clone())
	h.cursor = len(h.entries) - 1
	Logger().Debug("history push", "entries", len(h.entries))
}

// Undo steps the cursor back one entry and returns a deep copy of it.
// If there is nothing to undo the current entry is returned and ok is
// false.
func (h *History) Undo() (snapshot Collection, ok bool) {
	if h.cursor == 0 {
		return h.entries[h.cursor].Clone(), false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo steps the cursor forward one entry and returns a deep copy of it.
// If there is nothing to redo the current entry is returned and ok is
// false.
func (h *History) Redo() (snapshot Collection, ok bool) {
	if h.cursor == len(h.entries)-1 {
		return h.entries[h.cursor].Clone(), false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// CanUndo reports whether Undo would change state.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would change state.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Reset discards all entries and starts over with the given snapshot as
// the single entry. Used on document load and session reset.
func (h *History) Reset(initial Collection) {
	h.entries = []Collection{initial.Clone()}
	h.cursor = 0
}
