package pdf_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmerge/pdf"
)

// buildPDF writes a minimal PDF whose page i has width widths[i].
// Widths identify pages after they have been copied around.
func buildPDF(t *testing.T, widths ...int) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := range widths {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(widths)))

	for i, width := range widths {
		content := fmt.Sprintf("BT /F1 12 Tf 10 10 Td (page %d) Tj ET", i+1)
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d 200] /Contents %d 0 R "+
			"/Resources << /Font << /F1 << /Type /Font /Subtype /Type1 /BaseFont /Helvetica >> >> >> >>",
			width, 4+2*i))
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func pageWidths(t *testing.T, data []byte) []int {
	t.Helper()
	dims, err := api.PageDims(bytes.NewReader(data), nil)
	require.NoError(t, err)

	widths := make([]int, len(dims))
	for i, dim := range dims {
		widths[i] = int(dim.Width)
	}
	return widths
}

func newPdfcpuComposer(opts pdf.PdfcpuOptions) *pdf.Composer {
	return pdf.NewComposer(pdf.NewPdfcpuBackend(opts), newTestLogger())
}

func TestPdfcpuOpen(t *testing.T) {
	backend := pdf.NewPdfcpuBackend(pdf.PdfcpuOptions{})

	doc, err := backend.Open(buildPDF(t, 101, 102, 103))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())

	_, err = backend.Open([]byte("hello"))
	assert.Error(t, err)

	_, err = backend.Open([]byte("%PDF-1.4\ntruncated"))
	assert.Error(t, err)
}

func TestPdfcpuMerge(t *testing.T) {
	composer := newPdfcpuComposer(pdf.PdfcpuOptions{})

	d1 := buildPDF(t, 101, 102)
	d2 := buildPDF(t, 201, 202, 203)

	out, err := composer.Merge([][]byte{d1, d2})
	require.NoError(t, err)

	assert.True(t, pdf.SniffPDF(out.Data))
	assert.Equal(t, 5, out.Pages)
	assert.Equal(t, []int{101, 102, 201, 202, 203}, pageWidths(t, out.Data))
}

func TestPdfcpuMergeRejectsInvalidInput(t *testing.T) {
	composer := newPdfcpuComposer(pdf.PdfcpuOptions{})

	_, err := composer.Merge([][]byte{buildPDF(t, 101), []byte("%PDF-1.4\nbroken")})
	assert.ErrorIs(t, err, pdf.ErrDocumentLoad)
}

func TestPdfcpuExtract(t *testing.T) {
	composer := newPdfcpuComposer(pdf.PdfcpuOptions{})
	doc := buildPDF(t, 101, 102, 103, 104, 105)

	pages, err := pdf.ParsePageRanges("4-5,1", 5)
	require.NoError(t, err)

	out, err := composer.Extract("source.pdf", doc, pages)
	require.NoError(t, err)

	assert.Equal(t, "source_split.pdf", out.Filename)
	assert.Equal(t, []int{101, 104, 105}, pageWidths(t, out.Data))

	_, err = composer.Extract("source.pdf", doc, pdf.PageSet{6})
	assert.ErrorIs(t, err, pdf.ErrPageCountMismatch)
}

func TestPdfcpuRoundTrip(t *testing.T) {
	composer := newPdfcpuComposer(pdf.PdfcpuOptions{OptimizeOutput: true})

	merged, err := composer.Merge([][]byte{buildPDF(t, 101, 102), buildPDF(t, 201, 202, 203)})
	require.NoError(t, err)

	count, err := composer.PageCount(merged.Data)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	extracted, err := composer.Extract(merged.Filename, merged.Data, pdf.AllPages(count))
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 201, 202, 203}, pageWidths(t, extracted.Data))
}
