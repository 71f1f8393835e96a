// Package pdfink implements the annotation state engine of a PDF markup
// editor.
//
// # Overview
//
// pdfink keeps the canonical collection of annotations a user has placed on
// top of a rendered PDF, together with the undo/redo history, the current
// tool and formatting state, and the geometry mapping between on-screen
// coordinates (CSS pixels, origin top-left) and PDF page coordinates
// (points, origin bottom-left).
//
// The engine is UI-agnostic: pointer gestures enter through [Gesture] and
// [DragSession], page mutations and exports go through [Session], and the
// rendered page surfaces and PDF byte mutation are supplied by external
// collaborators (see the render, pagedoc and export subpackages).
//
// # Quick Start
//
//	store := pdfink.NewStore()
//	store.SetTool(pdfink.ToolRectangle)
//
//	g := pdfink.NewGesture(store)
//	g.Begin(1, pdfink.Pt(10, 10))
//	g.End(pdfink.Pt(110, 60))
//
//	store.Undo()
//	store.Redo()
//
// # Coordinate Systems
//
// Annotation geometry is stored in screen space: floating-point pixels
// relative to the top-left corner of the page's rendered surface. Export
// converts to PDF page space per page via [ToPage], using the surface pixel
// size and the page point size recorded for that page; each page may render
// at a different size, so there is no global scale factor.
//
// # Concurrency
//
// The engine is single-writer by design: all mutation is driven by
// serialized UI events. Store, History and Session are not safe for
// concurrent mutation from multiple goroutines.
package pdfink
