// Package renderer provides the display layer for the jinxpad editor.
//
// The renderer virtualizes a large document: each invalidation paints only
// a padded window of lines around the visible ones.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│        Renderer (Invalidate)            │
//	├─────────────────────────────────────────┤
//	│ Viewport │ LineCache │ Highlight │ Gutter│
//	├─────────────────────────────────────────┤
//	│           Surface Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ Recorder (tests)    │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal(metrics)
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.SetScrollProvider(scroller)
//	r.SetDocument(doc)
//	r.Invalidate()
package renderer
