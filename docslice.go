// Package docslice extracts a bounded, representative text excerpt from
// arbitrary-length documents (PDF, DOCX, plain text).
//
// Small documents are extracted in full. Documents past a format-specific
// size threshold are sampled instead: document structure (headings, table
// of contents), an introduction window, evenly spread content chunks, and
// a conclusion window are assembled into one annotated text blob that
// never exceeds the configured character cap. The result carries
// provenance about what was included.
//
// The engine is stateless: every Parse call opens its own file handles
// and holds nothing across calls, so concurrent calls on different
// documents need no coordination.
//
//	eng := docslice.New(docslice.DefaultConfig())
//	res, err := eng.Parse(ctx, "/path/report.pdf", reader.FormatPDF)
package docslice

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/docslice/docslice/reader"
	"github.com/docslice/docslice/sampler"
)

// ExtractedSections records which structural elements a large-document
// extraction found. Diagnostic only; callers do not reprocess it.
type ExtractedSections struct {
	HasTableOfContents bool `json:"has_table_of_contents"`
	HasHeadings        bool `json:"has_headings"`
	HasIntroduction    bool `json:"has_introduction"`
	HasConclusion      bool `json:"has_conclusion"`
	NumChunks          int  `json:"num_chunks"`
}

// ExtractionResult is the unit of output of a Parse call. It is built
// once, never mutated afterwards, and owned by the caller.
type ExtractionResult struct {
	// Text is the assembled excerpt. Never empty: a document with no
	// extractable text yields an explicit sentinel. len(Text) never
	// exceeds Config.MaxChars.
	Text string `json:"text"`

	// Metadata holds format-dependent document properties (title,
	// author, ...). Always non-nil; values may be empty.
	Metadata map[string]string `json:"metadata"`

	// UnitCount is the number of atomic units: pages for PDF,
	// paragraphs for DOCX, lines for plain text.
	UnitCount int `json:"unit_count"`

	// IsLarge reports whether the document exceeded its format's
	// large-document threshold and was sampled.
	IsLarge bool `json:"is_large"`

	// ExtractedSections is populated iff IsLarge is true.
	ExtractedSections *ExtractedSections `json:"extracted_sections,omitempty"`

	// Format identifies the reader that produced this result.
	Format reader.Format `json:"format"`
}

// Engine is the extraction entry point. Construct once with New; safe
// for concurrent use.
type Engine struct {
	cfg     Config
	readers *reader.Registry
	planner *sampler.Planner
}

// New creates an Engine. Zero-value Config fields get defaults.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:     cfg,
		readers: reader.NewRegistry(),
		planner: sampler.New(sampler.Config{
			PDFLargePages:       cfg.PDFLargePages,
			DocxLargeParagraphs: cfg.DocxLargeParagraphs,
			TextLargeBytes:      cfg.TextLargeBytes,
		}),
	}
}

// Parse extracts a bounded text excerpt from the document at path,
// treating it as the declared format. Any failure is returned as a
// *ProcessingError; no partial result is ever returned alongside an
// error.
func (e *Engine) Parse(ctx context.Context, path string, format reader.Format) (*ExtractionResult, error) {
	rd, err := e.readers.Get(format)
	if err != nil {
		return nil, processingError(format, path, ErrUnsupportedFormat, nil)
	}

	e.cfg.Logger.Debug("parse: reading document", "path", path, "format", format)
	doc, err := rd.Read(ctx, path)
	if err != nil {
		return nil, processingError(format, path, failureKind(err), err)
	}
	defer doc.Close()

	n := doc.UnitCount()
	isLarge := e.planner.IsLarge(format, n, doc.ByteSize())
	e.cfg.Logger.Debug("parse: classified",
		"path", path, "units", n, "bytes", doc.ByteSize(), "large", isLarge)

	var text string
	var sections *ExtractedSections
	if isLarge {
		text, sections, err = e.assembleLarge(ctx, doc, format)
	} else {
		text, err = e.assembleSmall(ctx, doc, format)
	}
	if err != nil {
		return nil, processingError(format, path, failureKind(err), err)
	}

	meta := doc.Metadata()
	if meta == nil {
		meta = map[string]string{}
	}

	e.cfg.Logger.Info("parse: complete",
		"path", path, "format", format, "units", n,
		"large", isLarge, "chars", len(text))

	return &ExtractionResult{
		Text:              text,
		Metadata:          meta,
		UnitCount:         n,
		IsLarge:           isLarge,
		ExtractedSections: sections,
		Format:            format,
	}, nil
}

// Request names one document for batch extraction.
type Request struct {
	Path   string
	Format reader.Format
}

// BatchResult pairs a Request with its outcome.
type BatchResult struct {
	Path   string
	Format reader.Format
	Result *ExtractionResult
	Err    error
}

// ParseAll extracts every requested document, at most
// Config.BatchConcurrency at a time. Per-document failures are recorded
// in the corresponding BatchResult; one bad document does not abort the
// batch. Results are positionally aligned with reqs.
func (e *Engine) ParseAll(ctx context.Context, reqs []Request) []BatchResult {
	var g errgroup.Group
	g.SetLimit(e.cfg.BatchConcurrency)

	out := make([]BatchResult, len(reqs))
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := e.Parse(ctx, req.Path, req.Format)
			out[i] = BatchResult{Path: req.Path, Format: req.Format, Result: res, Err: err}
			return nil
		})
	}
	g.Wait()
	return out
}

// failureKind maps a lower-layer error to its sentinel.
func failureKind(err error) error {
	if errors.Is(err, reader.ErrDecode) {
		return ErrDecodeFailure
	}
	return ErrReadFailure
}
