package source

import (
	"fmt"

	"fortio.org/safecast"
)

// File is one registered source file with its content kept for rendering.
type File struct {
	ID      FileID
	Name    string
	Content []byte
}

// FileSet owns every file participating in an analysis session.
// FileID 0 is reserved as the invalid sentinel.
type FileSet struct {
	files []File
}

func NewFileSet() *FileSet {
	return &FileSet{files: []File{{}}}
}

// Add registers a file and returns its ID.
func (fs *FileSet) Add(name string, content []byte) FileID {
	raw, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file id overflow: %w", err))
	}
	id := FileID(raw)
	fs.files = append(fs.files, File{ID: id, Name: name, Content: content})
	return id
}

// Get returns the file for id, or nil for unknown/sentinel ids.
func (fs *FileSet) Get(id FileID) *File {
	if fs == nil || id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Snippet returns the text under the span, or "" when unavailable.
func (fs *FileSet) Snippet(sp Span) string {
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil || sp.Start > sp.End || sp.End > n {
		return ""
	}
	return string(f.Content[sp.Start:sp.End])
}

func (fs *FileSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.files) - 1
}
