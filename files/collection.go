package files

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateFile is returned by Add when a file with the same name and size is present
	ErrDuplicateFile = errors.New("file already added")

	// ErrIndexOutOfRange is returned for positions outside the collection
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Identity is the de-duplication key of a source file
type Identity struct {
	Name string
	Size int64
}

// SourceFile is an uploaded document. Data is never modified after creation.
type SourceFile struct {
	ID      string
	Name    string
	Size    int64
	Data    []byte
	AddedAt time.Time
}

// NewSourceFile wraps data under name with a generated ID
func NewSourceFile(name string, data []byte) *SourceFile {
	return &SourceFile{
		ID:      uuid.NewString(),
		Name:    name,
		Size:    int64(len(data)),
		Data:    data,
		AddedAt: time.Now(),
	}
}

// Identity returns the (name, size) pair used for de-duplication
func (f *SourceFile) Identity() Identity {
	return Identity{Name: f.Name, Size: f.Size}
}

// Collection is an ordered list of source files with no two sharing an identity.
// Order is insertion order modulo explicit Move calls.
type Collection struct {
	files []*SourceFile
}

// NewCollection returns an empty collection
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends f unless an entry with the same identity exists
func (c *Collection) Add(f *SourceFile) error {
	if c.Contains(f.Identity()) {
		return fmt.Errorf("%w: %q (%d bytes)", ErrDuplicateFile, f.Name, f.Size)
	}
	c.files = append(c.files, f)
	return nil
}

// Contains reports whether an entry has the given identity
func (c *Collection) Contains(id Identity) bool {
	return slices.ContainsFunc(c.files, func(f *SourceFile) bool {
		return f.Identity() == id
	})
}

// Remove deletes the entry at index; later entries shift down by one
func (c *Collection) Remove(index int) (*SourceFile, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	removed := c.files[index]
	c.files = slices.Delete(c.files, index, index+1)
	return removed, nil
}

// Move takes the entry at from and re-inserts it at position to of the shortened list
func (c *Collection) Move(from, to int) error {
	if err := c.checkIndex(from); err != nil {
		return err
	}
	if err := c.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	moved := c.files[from]
	c.files = slices.Delete(c.files, from, from+1)
	c.files = slices.Insert(c.files, to, moved)
	return nil
}

// Clear removes every entry
func (c *Collection) Clear() {
	c.files = nil
}

// Len returns the number of entries
func (c *Collection) Len() int {
	return len(c.files)
}

// At returns the entry at index
func (c *Collection) At(index int) (*SourceFile, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	return c.files[index], nil
}

// IndexOf returns the current position of the entry with the given ID, or -1
func (c *Collection) IndexOf(id string) int {
	return slices.IndexFunc(c.files, func(f *SourceFile) bool {
		return f.ID == id
	})
}

// Snapshot returns the entries in their current order
func (c *Collection) Snapshot() []*SourceFile {
	return slices.Clone(c.files)
}

func (c *Collection) checkIndex(index int) error {
	if index < 0 || index >= len(c.files) {
		return fmt.Errorf("%w: %d (have %d files)", ErrIndexOutOfRange, index, len(c.files))
	}
	return nil
}
