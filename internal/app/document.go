package app

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dshills/jinxpad/internal/engine/buffer"
)

// ErrNoPath is returned when saving a document that has no file.
var ErrNoPath = errors.New("document has no file path")

// Document represents an open file with its text buffer.
type Document struct {
	// Path is the file path (empty for scratch buffers).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	// Buffer holds the text.
	Buffer *buffer.Document

	// savedVersion is the buffer version last written to disk.
	savedVersion uint64
}

// NewDocument creates a document for path holding content. The line
// ending of content is kept for saving.
func NewDocument(path string, content []byte) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}

	buf := buffer.NewDocumentFromString(string(content))
	return &Document{
		Path:         path,
		Name:         name,
		Buffer:       buf,
		savedVersion: buf.Version(),
	}
}

// NewScratchDocument creates a new scratch (unsaved) document.
func NewScratchDocument() *Document {
	return NewDocument("", nil)
}

// OpenDocument reads the file at path. A missing file opens as an empty
// document that is created on the first save.
func OpenDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, NewOperationError("open", path, err)
	}
	return NewDocument(path, content), nil
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.Buffer.Version() != d.savedVersion
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Save writes the document to its path, restoring its line ending. The
// file is replaced through a temporary file in the same directory.
func (d *Document) Save() error {
	if d.IsScratch() {
		return NewOperationError("save", d.Name, ErrNoPath)
	}

	if err := d.writeFile(); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	d.savedVersion = d.Buffer.Version()
	return nil
}

func (d *Document) writeFile() error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.Path), "."+filepath.Base(d.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := d.Buffer.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.Path)
}
