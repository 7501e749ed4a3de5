package pdf

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var errNoPages = errors.New("document has no pages")

// Stage is a state of a single composition call
type Stage string

const (
	StageIdle       Stage = "idle"
	StageLoading    Stage = "loading"
	StageValidating Stage = "validating"
	StageComposing  Stage = "composing"
	StageSerialized Stage = "serialized"
	StageFailed     Stage = "failed"
)

// Terminal reports whether no further transition follows s
func (s Stage) Terminal() bool {
	return s == StageSerialized || s == StageFailed
}

// StageObserver is notified of every transition of a composition call
type StageObserver func(Stage)

// OutputDocument is a composed document and its suggested download name
type OutputDocument struct {
	Data     []byte
	Filename string
	Pages    int
}

// Composer builds new documents by copying pages out of source documents.
// It is not safe for concurrent use; callers serialise requests.
type Composer struct {
	backend     Backend
	logger      *logrus.Logger
	observer    StageObserver
	splitSuffix string
}

// ComposerOption customises a Composer
type ComposerOption func(*Composer)

// WithStageObserver registers a callback for stage transitions
func WithStageObserver(observer StageObserver) ComposerOption {
	return func(c *Composer) {
		c.observer = observer
	}
}

// WithSplitSuffix overrides the suffix used for extract output names
func WithSplitSuffix(suffix string) ComposerOption {
	return func(c *Composer) {
		if suffix != "" {
			c.splitSuffix = suffix
		}
	}
}

// NewComposer creates a Composer over backend
func NewComposer(backend Backend, logger *logrus.Logger, opts ...ComposerOption) *Composer {
	c := &Composer{
		backend:     backend,
		logger:      logger,
		splitSuffix: DefaultSplitSuffix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call tracks the stage of one composition
type call struct {
	c     *Composer
	op    string
	stage Stage
}

func (c *Composer) begin(op string) *call {
	cl := &call{c: c, op: op, stage: StageIdle}
	cl.enter(StageIdle)
	return cl
}

func (cl *call) enter(stage Stage) {
	cl.stage = stage
	cl.c.logger.WithFields(logrus.Fields{
		"operation": cl.op,
		"stage":     stage,
	}).Debug("Composition stage")
	if cl.c.observer != nil {
		cl.c.observer(stage)
	}
}

func (cl *call) fail(err error) error {
	cl.c.logger.WithError(err).WithFields(logrus.Fields{
		"operation":    cl.op,
		"failed_stage": cl.stage,
	}).Debug("Composition failed")
	cl.enter(StageFailed)
	return err
}

// Merge concatenates every page of each document, in the given order
func (c *Composer) Merge(docs [][]byte) (*OutputDocument, error) {
	cl := c.begin("merge")

	if len(docs) < MinMergeInputs {
		return nil, cl.fail(insufficientInput(len(docs)))
	}

	// Documents are opened strictly in order; output page order depends on it.
	cl.enter(StageLoading)
	opened := make([]Document, 0, len(docs))
	for i, data := range docs {
		doc, err := c.backend.Open(data)
		if err != nil {
			return nil, cl.fail(loadFailure(i+1, err))
		}
		opened = append(opened, doc)
	}

	cl.enter(StageValidating)
	total := 0
	for i, doc := range opened {
		if doc.PageCount() < 1 {
			return nil, cl.fail(loadFailure(i+1, errNoPages))
		}
		total += doc.PageCount()
	}

	cl.enter(StageComposing)
	out := c.backend.CreateEmpty()
	for i, doc := range opened {
		pages, err := c.backend.CopyPages(doc, AllPages(doc.PageCount()).ZeroBased())
		if err != nil {
			return nil, cl.fail(serializeFailure(fmt.Errorf("document %d: %w", i+1, err)))
		}
		if err := c.backend.AppendPages(out, pages); err != nil {
			return nil, cl.fail(serializeFailure(err))
		}
	}

	data, err := c.backend.Serialize(out)
	if err != nil {
		return nil, cl.fail(serializeFailure(err))
	}

	cl.enter(StageSerialized)
	c.logger.WithFields(logrus.Fields{
		"documents": len(docs),
		"pages":     total,
		"bytes":     len(data),
	}).Info("Documents merged")

	return &OutputDocument{Data: data, Filename: MergedFilename, Pages: total}, nil
}

// Extract copies the selected pages of doc, in ascending order, into a new document.
// name is the source file name the output name is derived from.
func (c *Composer) Extract(name string, doc []byte, pages PageSet) (*OutputDocument, error) {
	cl := c.begin("extract")

	pages = pages.Normalize()
	if len(pages) == 0 {
		return nil, cl.fail(emptySelection())
	}

	cl.enter(StageLoading)
	src, err := c.backend.Open(doc)
	if err != nil {
		return nil, cl.fail(loadFailure(0, err))
	}

	cl.enter(StageValidating)
	if err := ValidatePageSet(pages, src.PageCount()); err != nil {
		return nil, cl.fail(err)
	}

	cl.enter(StageComposing)
	copied, err := c.backend.CopyPages(src, pages.ZeroBased())
	if err != nil {
		return nil, cl.fail(serializeFailure(err))
	}
	out := c.backend.CreateEmpty()
	if err := c.backend.AppendPages(out, copied); err != nil {
		return nil, cl.fail(serializeFailure(err))
	}

	data, err := c.backend.Serialize(out)
	if err != nil {
		return nil, cl.fail(serializeFailure(err))
	}

	cl.enter(StageSerialized)
	c.logger.WithFields(logrus.Fields{
		"source": name,
		"pages":  pages.String(),
		"bytes":  len(data),
	}).Info("Pages extracted")

	return &OutputDocument{
		Data:     data,
		Filename: SplitFilename(name, c.splitSuffix),
		Pages:    len(pages),
	}, nil
}

// PageCount opens doc and returns its number of pages
func (c *Composer) PageCount(doc []byte) (int, error) {
	src, err := c.backend.Open(doc)
	if err != nil {
		return 0, loadFailure(0, err)
	}
	return src.PageCount(), nil
}
