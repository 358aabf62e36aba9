// Package buffer provides the text document the editor renders and edits.
//
// A Document holds the full text as a string. Offsets are rune (code
// point) offsets, matching the offsets of highlight spans. Every edit bumps
// the document version and notifies subscribers, which is how the
// renderer learns to repaint.
//
// Basic usage:
//
//	doc := buffer.NewDocumentFromString("set x to 1")
//	doc.Insert(0, "-- ")      // "-- set x to 1"
//	doc.Delete(0, 3)          // "set x to 1"
//
// Line Endings:
//
// Text is normalized to '\n' on the way in: "\r\n" and lone '\r' both
// become '\n'. The style found in the original text is kept so WriteTo can
// restore it when saving.
//
// Thread Safety:
//
// A Document is not safe for concurrent use. The editor owns it from a
// single event loop.
package buffer
