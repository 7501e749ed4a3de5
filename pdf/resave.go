package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// resave optimizes and compresses a serialised PDF using pdfcpu
func (b *PdfcpuBackend) resave(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, b.configuration()); err != nil {
		return nil, fmt.Errorf("pdfcpu optimize failed: %w", err)
	}
	return buf.Bytes(), nil
}
