package api

const (
	// UploadField is the multipart field carrying PDF files
	UploadField = "pdf"

	// PagesField is the form field carrying the page range specification
	PagesField = "pages"

	// PDFContentType is the content type of every download
	PDFContentType = "application/pdf"

	// MaxErrorLength truncates error messages returned to clients
	MaxErrorLength = 200
)
