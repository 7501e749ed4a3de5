package session

import (
	"pdfmerge/files"
	"pdfmerge/pdf"
)

// FileView is one row of the file list
type FileView struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"size_label"`
	Selected  bool   `json:"selected"`
}

// View is derived from session state; the UI decides what to render and enable from it
type View struct {
	Files     []FileView `json:"files"`
	Empty     bool       `json:"empty"`
	CanMerge  bool       `json:"can_merge"`
	CanSplit  bool       `json:"can_split"`
	CanClear  bool       `json:"can_clear"`
	Busy      bool       `json:"busy"`
	Stage     pdf.Stage  `json:"stage"`
	LastError string     `json:"last_error,omitempty"`
}

// View returns the current derived view
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.files.Snapshot()
	v := View{
		Files:     make([]FileView, 0, len(snapshot)),
		Empty:     len(snapshot) == 0,
		CanMerge:  len(snapshot) >= pdf.MinMergeInputs && !s.busy,
		CanSplit:  len(snapshot) > 0 && !s.busy,
		CanClear:  len(snapshot) > 0 && !s.busy,
		Busy:      s.busy,
		Stage:     s.stage,
		LastError: Message(s.lastError),
	}

	for i, f := range snapshot {
		v.Files = append(v.Files, FileView{
			Index:     i,
			ID:        f.ID,
			Name:      f.Name,
			Size:      f.Size,
			SizeLabel: files.FormatBytes(f.Size, 2),
			Selected:  f.ID == s.selected,
		})
	}
	return v
}
