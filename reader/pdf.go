package reader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFReader reads PDF files. Each page is one unit.
type PDFReader struct{}

func (r *PDFReader) Format() Format { return FormatPDF }

// Read opens the PDF and validates its cross-reference structure. Page
// text is extracted lazily, one page at a time.
func (r *PDFReader) Read(ctx context.Context, path string) (Document, error) {
	f, rd, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat PDF: %w", err)
	}

	return &pdfDocument{
		file:   f,
		reader: rd,
		size:   info.Size(),
		meta:   pdfMetadata(rd),
	}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
	size   int64
	meta   map[string]string
}

func (d *pdfDocument) UnitCount() int  { return d.reader.NumPage() }
func (d *pdfDocument) ByteSize() int64 { return d.size }

// UnitText extracts the text of page i (zero-based). Pages that fail
// text extraction yield empty text rather than an error: a scanned or
// image-only page is expected, not fatal.
func (d *pdfDocument) UnitText(i int) (string, error) {
	if i < 0 || i >= d.reader.NumPage() {
		return "", fmt.Errorf("page index %d out of range [0,%d)", i, d.reader.NumPage())
	}
	page := d.reader.Page(i + 1) // library pages are 1-based
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

func (d *pdfDocument) UnitRange(lo, hi int) ([]string, error) {
	return collectRange(d, lo, hi)
}

func (d *pdfDocument) Metadata() map[string]string { return d.meta }

func (d *pdfDocument) Close() error { return d.file.Close() }

// pdfMetadata reads the trailer Info dictionary. All keys are always
// present; missing or non-string entries yield empty values.
func pdfMetadata(rd *pdf.Reader) map[string]string {
	meta := map[string]string{
		"title":         "",
		"author":        "",
		"subject":       "",
		"keywords":      "",
		"creator":       "",
		"producer":      "",
		"creation_date": "",
	}

	info := rd.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}

	get := func(key string) string {
		v := info.Key(key)
		if v.Kind() != pdf.String {
			return ""
		}
		return strings.TrimSpace(v.Text())
	}

	meta["title"] = get("Title")
	meta["author"] = get("Author")
	meta["subject"] = get("Subject")
	meta["keywords"] = get("Keywords")
	meta["creator"] = get("Creator")
	meta["producer"] = get("Producer")
	meta["creation_date"] = get("CreationDate")
	return meta
}
