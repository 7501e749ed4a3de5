package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuOptions configures the pdfcpu backend
type PdfcpuOptions struct {
	// StrictValidation rejects documents pdfcpu would otherwise repair
	StrictValidation bool

	// OptimizeOutput runs pdfcpu's optimizer over every serialised result
	OptimizeOutput bool
}

// PdfcpuBackend implements Backend on top of the pdfcpu library, entirely in memory
type PdfcpuBackend struct {
	opts PdfcpuOptions
}

// NewPdfcpuBackend creates a pdfcpu backend. pdfcpu's on-disk config directory is disabled.
func NewPdfcpuBackend(opts PdfcpuOptions) *PdfcpuBackend {
	api.DisableConfigDir()
	return &PdfcpuBackend{opts: opts}
}

// pdfcpuDocument is a parsed source document
type pdfcpuDocument struct {
	ctx *model.Context
}

func (d *pdfcpuDocument) PageCount() int {
	return d.ctx.PageCount
}

// pdfcpuOutput is a document under construction, built from serialised page fragments
type pdfcpuOutput struct {
	fragments [][]byte
	pages     int
}

func (d *pdfcpuOutput) PageCount() int {
	return d.pages
}

// pdfcpuPages is a self-contained document holding copied pages
type pdfcpuPages struct {
	data  []byte
	count int
}

func (p *pdfcpuPages) Len() int {
	return p.count
}

func (b *PdfcpuBackend) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if b.opts.StrictValidation {
		conf.ValidationMode = model.ValidationStrict
	}
	return conf
}

// Open reads, validates and optimises data into a pdfcpu context
func (b *PdfcpuBackend) Open(data []byte) (Document, error) {
	if !SniffPDF(data) {
		return nil, errors.New("missing PDF header")
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), b.configuration())
	if err != nil {
		return nil, err
	}
	if ctx.PageCount < 1 {
		return nil, errNoPages
	}

	return &pdfcpuDocument{ctx: ctx}, nil
}

// CopyPages extracts the given 0-based offsets into a standalone fragment
func (b *PdfcpuBackend) CopyPages(src Document, offsets []int) (Pages, error) {
	doc, ok := src.(*pdfcpuDocument)
	if !ok {
		return nil, fmt.Errorf("unsupported document type %T", src)
	}
	if len(offsets) == 0 {
		return nil, errors.New("no pages to copy")
	}

	pageNrs := make([]int, len(offsets))
	for i, offset := range offsets {
		if offset < 0 || offset >= doc.ctx.PageCount {
			return nil, fmt.Errorf("page offset %d out of range (0-%d)", offset, doc.ctx.PageCount-1)
		}
		pageNrs[i] = offset + 1
	}

	extracted, err := pdfcpu.ExtractPages(doc.ctx, pageNrs, false)
	if err != nil {
		return nil, fmt.Errorf("failed to extract pages: %w", err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(extracted, &buf); err != nil {
		return nil, fmt.Errorf("failed to write extracted pages: %w", err)
	}

	return &pdfcpuPages{data: buf.Bytes(), count: len(pageNrs)}, nil
}

// CreateEmpty returns an output document without pages
func (b *PdfcpuBackend) CreateEmpty() Document {
	return &pdfcpuOutput{}
}

// AppendPages queues a fragment at the end of an output document
func (b *PdfcpuBackend) AppendPages(dst Document, pages Pages) error {
	out, ok := dst.(*pdfcpuOutput)
	if !ok {
		return fmt.Errorf("cannot append to document type %T", dst)
	}
	fragment, ok := pages.(*pdfcpuPages)
	if !ok {
		return fmt.Errorf("unsupported pages type %T", pages)
	}

	out.fragments = append(out.fragments, fragment.data)
	out.pages += fragment.count
	return nil
}

// Serialize writes doc. Output documents with several fragments are merged in order.
func (b *PdfcpuBackend) Serialize(doc Document) ([]byte, error) {
	var data []byte

	switch d := doc.(type) {
	case *pdfcpuDocument:
		var buf bytes.Buffer
		if err := api.WriteContext(d.ctx, &buf); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	case *pdfcpuOutput:
		merged, err := b.mergeFragments(d.fragments)
		if err != nil {
			return nil, err
		}
		data = merged
	default:
		return nil, fmt.Errorf("unsupported document type %T", doc)
	}

	if b.opts.OptimizeOutput {
		return b.resave(data)
	}
	return data, nil
}

func (b *PdfcpuBackend) mergeFragments(fragments [][]byte) ([]byte, error) {
	switch len(fragments) {
	case 0:
		return nil, errNoPages
	case 1:
		return fragments[0], nil
	}

	readers := make([]io.ReadSeeker, len(fragments))
	for i, fragment := range fragments {
		readers[i] = bytes.NewReader(fragment)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, b.configuration()); err != nil {
		return nil, fmt.Errorf("pdfcpu merge failed: %w", err)
	}
	return buf.Bytes(), nil
}
