// Package pdftest provides an in-memory document backend for tests.
//
// Documents are encoded as a header line followed by one label per page, so tests can
// assert exactly which source page ended up where.
package pdftest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"pdfmerge/pdf"
)

const header = "%PDF-fake\n"

// ErrNotADocument is returned by Open for data not produced by Document
var ErrNotADocument = errors.New("not a fake document")

// Document encodes a document whose pages carry the given labels
func Document(labels ...string) []byte {
	return []byte(header + strings.Join(labels, "\n"))
}

// Labels decodes the page labels of a document produced by Document or by the backend
func Labels(data []byte) ([]string, error) {
	if !bytes.HasPrefix(data, []byte(header)) {
		return nil, ErrNotADocument
	}
	body := string(data[len(header):])
	if body == "" {
		return nil, nil
	}
	return strings.Split(body, "\n"), nil
}

type document struct {
	labels []string
}

func (d *document) PageCount() int {
	return len(d.labels)
}

type pages []string

func (p pages) Len() int {
	return len(p)
}

// Backend is a pdf.Backend over fake documents. Hooks run before the named step.
type Backend struct {
	BeforeOpen func()
	BeforeCopy func() error // a non-nil error fails CopyPages

	Opened []int // page counts of every opened document, in open order
}

var _ pdf.Backend = (*Backend)(nil)

func (b *Backend) Open(data []byte) (pdf.Document, error) {
	if b.BeforeOpen != nil {
		b.BeforeOpen()
	}
	labels, err := Labels(data)
	if err != nil {
		return nil, err
	}
	b.Opened = append(b.Opened, len(labels))
	return &document{labels: labels}, nil
}

func (b *Backend) CopyPages(src pdf.Document, offsets []int) (pdf.Pages, error) {
	if b.BeforeCopy != nil {
		if err := b.BeforeCopy(); err != nil {
			return nil, err
		}
	}
	doc, ok := src.(*document)
	if !ok {
		return nil, fmt.Errorf("unexpected document %T", src)
	}
	copied := make(pages, 0, len(offsets))
	for _, offset := range offsets {
		if offset < 0 || offset >= len(doc.labels) {
			return nil, fmt.Errorf("offset %d out of range", offset)
		}
		copied = append(copied, doc.labels[offset])
	}
	return copied, nil
}

func (b *Backend) CreateEmpty() pdf.Document {
	return &document{}
}

func (b *Backend) AppendPages(dst pdf.Document, p pdf.Pages) error {
	doc, ok := dst.(*document)
	if !ok {
		return fmt.Errorf("unexpected document %T", dst)
	}
	copied, ok := p.(pages)
	if !ok {
		return fmt.Errorf("unexpected pages %T", p)
	}
	doc.labels = append(doc.labels, copied...)
	return nil
}

func (b *Backend) Serialize(doc pdf.Document) ([]byte, error) {
	d, ok := doc.(*document)
	if !ok {
		return nil, fmt.Errorf("unexpected document %T", doc)
	}
	return Document(d.labels...), nil
}
