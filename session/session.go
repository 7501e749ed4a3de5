package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"pdfmerge/files"
	"pdfmerge/pdf"
)

var (
	// ErrBusy is returned when a composition is requested while another is running
	ErrBusy = errors.New("another merge or split is in progress")

	// ErrNoFiles is returned by flows that need at least one file
	ErrNoFiles = errors.New("no files added")
)

// Options configures a Session
type Options struct {
	SplitSuffix string
}

// Session is the state of one user's workspace: the ordered files, the split target
// and the composition currently running, if any.
type Session struct {
	mu        sync.Mutex
	files     *files.Collection
	selected  string // ID of the split target, empty when none
	busy      bool
	stage     pdf.Stage
	lastError error

	composer *pdf.Composer
	logger   *logrus.Logger
}

// New creates an empty session composing documents with backend
func New(backend pdf.Backend, logger *logrus.Logger, opts Options) *Session {
	s := &Session{
		files:  files.NewCollection(),
		stage:  pdf.StageIdle,
		logger: logger,
	}
	s.composer = pdf.NewComposer(backend, logger,
		pdf.WithStageObserver(s.setStage),
		pdf.WithSplitSuffix(opts.SplitSuffix),
	)
	return s
}

func (s *Session) setStage(stage pdf.Stage) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
}

// AddFile appends a document. A file with the same name and size as an existing
// entry is skipped and files.ErrDuplicateFile is returned as a warning.
func (s *Session) AddFile(name string, data []byte) (*files.SourceFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := files.NewSourceFile(name, data)
	if err := s.files.Add(f); err != nil {
		s.logger.WithFields(logrus.Fields{
			"name": name,
			"size": f.Size,
		}).Warn("File already added, skipped")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":       f.ID,
		"name":     name,
		"size":     f.Size,
		"position": s.files.Len() - 1,
	}).Debug("File added")
	return f, nil
}

// Remove deletes the file at index, clearing the split target if it was that file
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.files.Remove(index)
	if err != nil {
		return err
	}
	if removed.ID == s.selected {
		s.selected = ""
	}
	s.logger.WithField("name", removed.Name).Debug("File removed")
	return nil
}

// Move repositions the file at from to index to
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.files.Move(from, to)
}

// Clear removes every file and the split target
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files.Clear()
	s.selected = ""
	s.logger.Debug("Files cleared")
}

// Select makes the file at index the split target
func (s *Session) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.files.At(index)
	if err != nil {
		return err
	}
	s.selected = f.ID
	return nil
}

// Deselect clears the split target
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = ""
}

// PageCount opens the file at index and returns its number of pages
func (s *Session) PageCount(index int) (int, error) {
	s.mu.Lock()
	f, err := s.files.At(index)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return s.composer.PageCount(f.Data)
}

// Merge concatenates all files in their current order
func (s *Session) Merge() (*pdf.OutputDocument, error) {
	snapshot, err := s.acquire()
	if err != nil {
		return nil, err
	}

	docs := make([][]byte, len(snapshot))
	names := make([]string, len(snapshot))
	for i, f := range snapshot {
		docs[i] = f.Data
		names[i] = f.Name
	}

	s.logger.WithField("files", names).Info("Merging files")
	out, err := s.composer.Merge(docs)
	s.release(err)
	return out, err
}

// Split extracts the pages named by spec from the split target. Without an explicit
// target the first file is used.
func (s *Session) Split(spec string) (*pdf.OutputDocument, error) {
	snapshot, err := s.acquire()
	if err != nil {
		return nil, err
	}

	out, err := s.split(snapshot, spec)
	s.release(err)
	return out, err
}

func (s *Session) split(snapshot []*files.SourceFile, spec string) (*pdf.OutputDocument, error) {
	target := s.target(snapshot)
	if target == nil {
		return nil, ErrNoFiles
	}
	if err := pdf.CheckPageSpec(spec); err != nil {
		return nil, err
	}

	totalPages, err := s.composer.PageCount(target.Data)
	if err != nil {
		return nil, err
	}

	pages, err := pdf.ParsePageRanges(spec, totalPages)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"name":  target.Name,
		"pages": pages.String(),
		"total": totalPages,
	}).Info("Splitting file")
	return s.composer.Extract(target.Name, target.Data, pages)
}

// target resolves the split target against a snapshot
func (s *Session) target(snapshot []*files.SourceFile) *files.SourceFile {
	if len(snapshot) == 0 {
		return nil
	}

	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()

	for _, f := range snapshot {
		if f.ID == selected {
			return f
		}
	}
	return snapshot[0]
}

// acquire marks the session busy and returns the current file order
func (s *Session) acquire() ([]*files.SourceFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, ErrBusy
	}
	s.busy = true
	s.stage = pdf.StageIdle
	s.lastError = nil
	return s.files.Snapshot(), nil
}

func (s *Session) release(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	s.lastError = err
	if err != nil {
		s.logger.WithError(err).Error("Composition failed")
		if !s.stage.Terminal() {
			s.stage = pdf.StageFailed
		}
	}
}

// Message returns the user-facing text for an error returned by a Session
func Message(err error) string {
	var pdfErr *pdf.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "Please wait for the current operation to finish."
	case errors.Is(err, ErrNoFiles):
		return "Please add a PDF file first."
	case errors.Is(err, files.ErrDuplicateFile):
		return fmt.Sprintf("Skipped: %v.", err)
	case errors.Is(err, files.ErrIndexOutOfRange):
		return "The selected file no longer exists."
	case errors.As(err, &pdfErr):
		switch pdfErr.Code {
		case pdf.CodeMalformedRangeToken:
			return fmt.Sprintf("Invalid page range: %s", pdfErr.Token)
		case pdf.CodeEmptySelection:
			return "No valid pages to split."
		case pdf.CodeInsufficientInput:
			return "Please add at least two PDF files to merge."
		case pdf.CodeDocumentLoad:
			return fmt.Sprintf("Could not open the PDF: %v", err)
		case pdf.CodePageCountMismatch:
			return fmt.Sprintf("The document changed: %s", pdfErr.Message)
		}
	}
	return fmt.Sprintf("Operation failed: %v", err)
}
