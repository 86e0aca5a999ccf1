// Package reader provides format-specific document readers behind a
// single contract: ordered access to a document's atomic units (pages
// for PDF, paragraphs for DOCX, lines for plain text) plus format
// metadata.
//
// Readers fully open and validate a file before returning a Document;
// a corrupt file yields an error, never a partially usable Document.
package reader

import (
	"context"
	"fmt"
)

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// UnitNoun returns the name of the format's atomic unit, for use in
// provenance labels ("pages 1-10", "lines 2500-2700").
func (f Format) UnitNoun() string {
	switch f {
	case FormatPDF:
		return "pages"
	case FormatDOCX:
		return "paragraphs"
	case FormatTXT:
		return "lines"
	default:
		return "units"
	}
}

// Document gives ordered, index-addressable access to a parsed
// document. Indexes are zero-based and run [0, UnitCount()).
//
// A unit may legitimately yield empty text (a blank PDF page, an empty
// paragraph); that is not an error.
type Document interface {
	// UnitCount is the total number of atomic units.
	UnitCount() int

	// UnitText returns the trimmed text of unit i, or "" when the unit
	// holds no extractable text.
	UnitText(i int) (string, error)

	// UnitRange returns the texts of units [lo, hi), one entry per
	// unit, preserving order. Empty units yield empty strings.
	UnitRange(lo, hi int) ([]string, error)

	// ByteSize is the size of the underlying file in bytes.
	ByteSize() int64

	// Metadata returns format metadata (title, author, ...). The map is
	// always non-nil; values may be empty.
	Metadata() map[string]string

	// Close releases the underlying file handle(s).
	Close() error
}

// Heading is a structural heading found in a document, in document order.
type Heading struct {
	Level int    // 1 = top level
	Text  string
}

// HeadingLister is implemented by documents that expose a heading
// hierarchy (currently DOCX, derived from paragraph style names).
type HeadingLister interface {
	Headings() []Heading
}

// TableLister is implemented by documents that carry tables rendered as
// pipe-joined rows (currently DOCX). Tables are pseudo-units: they are
// not part of the unit list and are appended after the body when a
// small document is fully extracted.
type TableLister interface {
	Tables() []string
}

// HeadingsOf returns the document's headings, or nil when the format
// has none.
func HeadingsOf(doc Document) []Heading {
	if hl, ok := doc.(HeadingLister); ok {
		return hl.Headings()
	}
	return nil
}

// FullTexter is implemented by documents that can return their entire
// decoded content in one string (currently plain text, where the small
// path wants the literal file content rather than re-joined units).
type FullTexter interface {
	Content() (string, error)
}

// TablesOf returns the document's rendered tables, or nil.
func TablesOf(doc Document) []string {
	if tl, ok := doc.(TableLister); ok {
		return tl.Tables()
	}
	return nil
}

// Reader opens a document file of one specific format.
type Reader interface {
	Read(ctx context.Context, path string) (Document, error)
	Format() Format
}

// Registry maps formats to readers.
type Registry struct {
	readers map[Format]Reader
}

// NewRegistry returns a Registry with the built-in readers registered.
func NewRegistry() *Registry {
	r := &Registry{readers: make(map[Format]Reader)}
	for _, rd := range []Reader{&PDFReader{}, &DOCXReader{}, &TextReader{}} {
		r.readers[rd.Format()] = rd
	}
	return r
}

// Get returns the reader for a format.
func (r *Registry) Get(format Format) (Reader, error) {
	rd, ok := r.readers[format]
	if !ok {
		return nil, fmt.Errorf("no reader for format: %s", format)
	}
	return rd, nil
}

// Register adds or replaces the reader for a format.
func (r *Registry) Register(format Format, rd Reader) {
	r.readers[format] = rd
}

// Supported returns the formats with a registered reader.
func (r *Registry) Supported() []Format {
	out := make([]Format, 0, len(r.readers))
	for f := range r.readers {
		out = append(out, f)
	}
	return out
}

// collectRange is a UnitRange implementation shared by readers whose
// units are individually addressable.
func collectRange(doc Document, lo, hi int) ([]string, error) {
	if lo < 0 {
		lo = 0
	}
	if n := doc.UnitCount(); hi > n {
		hi = n
	}
	if hi <= lo {
		return nil, nil
	}
	out := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		text, err := doc.UnitText(i)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}
