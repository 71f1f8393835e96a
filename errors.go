package pdfink

import "errors"

// Sentinel errors for the annotation engine.
var (
	// ErrNoDocument is returned by operations that require a loaded
	// document when none is loaded.
	ErrNoDocument = errors.New("pdfink: no document loaded")

	// ErrPageOutOfRange is returned when a page number or page index
	// does not reference an existing page.
	ErrPageOutOfRange = errors.New("pdfink: page out of range")

	// ErrEmptyClipboard is returned by Paste when nothing has been copied.
	ErrEmptyClipboard = errors.New("pdfink: clipboard is empty")

	// ErrNoSelection is returned by Copy when no annotation is selected.
	ErrNoSelection = errors.New("pdfink: no annotation selected")
)
