package pdf

import (
	"path/filepath"
	"strings"
)

// SplitFilename derives the suggested name of an extract output from the source name.
// A trailing ".pdf" (any case) is replaced by "_<suffix>.pdf"; otherwise the suffix is appended.
func SplitFilename(sourceName, suffix string) string {
	if suffix == "" {
		suffix = DefaultSplitSuffix
	}

	var filename string
	if strings.HasSuffix(strings.ToLower(sourceName), pdfExt) {
		filename = sourceName[:len(sourceName)-len(pdfExt)] + "_" + suffix + pdfExt
	} else {
		filename = sourceName + "_" + suffix + pdfExt
	}
	return SanitizeFilename(filename)
}

// SanitizeFilename removes path traversal attempts and dangerous characters
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	filename = strings.TrimSpace(filepath.Base(filename))

	if filename == "" || filename == "." || filename == pdfExt {
		filename = DefaultFilename
	}

	return filename
}

// SniffPDF reports whether data starts with the PDF header
func SniffPDF(data []byte) bool {
	return len(data) >= len(pdfMagic) && string(data[:len(pdfMagic)]) == pdfMagic
}
