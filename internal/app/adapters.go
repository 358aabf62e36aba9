package app

import (
	"github.com/dshills/jinxpad/internal/engine/buffer"
	"github.com/dshills/jinxpad/internal/engine/indent"
	"github.com/dshills/jinxpad/internal/renderer"
)

// Compile-time interface checks.
var (
	_ renderer.Document = (*batchedDocument)(nil)
	_ indent.Buffer     = (*buffer.Document)(nil)
)

// batchedDocument adapts a buffer.Document to renderer.Document, holding
// back edit notifications until Flush. The event loop applies a batch of
// input events and then repaints once.
type batchedDocument struct {
	*buffer.Document

	pending     bool
	listeners   map[int]func()
	nextID      int
	unsubscribe func()
}

func newBatchedDocument(doc *buffer.Document) *batchedDocument {
	b := &batchedDocument{
		Document:  doc,
		listeners: make(map[int]func()),
	}
	b.unsubscribe = doc.Subscribe(func() { b.pending = true })
	return b
}

// Subscribe registers fn to run on the Flush following an edit.
func (b *batchedDocument) Subscribe(fn func()) func() {
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	return func() { delete(b.listeners, id) }
}

// Pending reports whether the buffer changed since the last Flush.
func (b *batchedDocument) Pending() bool {
	return b.pending
}

// Flush notifies listeners once if the buffer changed since the last
// Flush. It reports whether they ran.
func (b *batchedDocument) Flush() bool {
	if !b.pending {
		return false
	}
	b.pending = false
	for _, fn := range b.listeners {
		fn()
	}
	return true
}

// Close stops tracking the buffer.
func (b *batchedDocument) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}
