package pdf

// Document is an opened or newly created document held by a Backend
type Document interface {
	PageCount() int
}

// Pages is a set of pages copied out of a Document, ready to be appended elsewhere
type Pages interface {
	Len() int
}

// Backend is the document manipulation capability the Composer orchestrates.
// Implementations decide how pages are physically re-encoded.
type Backend interface {
	// Open parses data as a document of the expected kind
	Open(data []byte) (Document, error)

	// CopyPages copies the pages at the given 0-based offsets, in that order
	CopyPages(src Document, offsets []int) (Pages, error)

	// CreateEmpty returns a new document with no pages
	CreateEmpty() Document

	// AppendPages adds pages to the end of dst
	AppendPages(dst Document, pages Pages) error

	// Serialize writes doc out as bytes
	Serialize(doc Document) ([]byte, error)
}
