package pdf

const (
	// MinMergeInputs is the smallest number of documents a merge accepts
	MinMergeInputs = 2

	// MergedFilename is the suggested name of every merge output
	MergedFilename = "merged.pdf"

	// DefaultSplitSuffix is appended to the source base name of an extract output
	DefaultSplitSuffix = "split"

	// DefaultFilename is used when a name sanitises to nothing
	DefaultFilename = "document.pdf"

	// pdfExt is the extension replaced when deriving output names
	pdfExt = ".pdf"

	// pdfMagic is the header every accepted document starts with
	pdfMagic = "%PDF"
)
