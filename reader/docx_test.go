package reader

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const coreXMLFixture = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
 xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
<dc:title>Quarterly Report</dc:title>
<dc:creator>J. Rivera</dc:creator>
<dc:subject>Finance</dc:subject>
<cp:keywords>q3, revenue</cp:keywords>
<cp:category>Reports</cp:category>
<dc:description>Draft for review</dc:description>
<dcterms:created>2024-03-01T09:00:00Z</dcterms:created>
<dcterms:modified>2024-03-05T17:30:00Z</dcterms:modified>
</cp:coreProperties>`

// paraXML renders one w:p element, optionally styled.
func paraXML(style, text string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(&b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	if text != "" {
		fmt.Fprintf(&b, "<w:r><w:t>%s</w:t></w:r>", text)
	}
	b.WriteString("</w:p>")
	return b.String()
}

// writeDocx builds a minimal DOCX archive on disk.
func writeDocx(t *testing.T, body string, withCoreProps bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body></w:document>`

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating document.xml: %v", err)
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("writing document.xml: %v", err)
	}

	if withCoreProps {
		w, err := zw.Create("docProps/core.xml")
		if err != nil {
			t.Fatalf("creating core.xml: %v", err)
		}
		if _, err := w.Write([]byte(coreXMLFixture)); err != nil {
			t.Fatalf("writing core.xml: %v", err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return path
}

func TestDOCXUnitsAndHeadings(t *testing.T) {
	body := paraXML("Heading1", "Introduction") +
		paraXML("", "First paragraph of body text.") +
		paraXML("", "") + // empty paragraph stays a unit
		paraXML("Heading2", "Background") +
		paraXML("", "Second paragraph.")

	doc, err := (&DOCXReader{}).Read(context.Background(), writeDocx(t, body, false))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	defer doc.Close()

	if got := doc.UnitCount(); got != 5 {
		t.Fatalf("UnitCount = %d, want 5", got)
	}

	text, err := doc.UnitText(1)
	if err != nil {
		t.Fatalf("UnitText(1): %v", err)
	}
	if text != "First paragraph of body text." {
		t.Errorf("UnitText(1) = %q", text)
	}

	empty, err := doc.UnitText(2)
	if err != nil {
		t.Fatalf("UnitText(2): %v", err)
	}
	if empty != "" {
		t.Errorf("empty paragraph yielded %q", empty)
	}

	headings := HeadingsOf(doc)
	if len(headings) != 2 {
		t.Fatalf("got %d headings, want 2: %+v", len(headings), headings)
	}
	if headings[0].Level != 1 || headings[0].Text != "Introduction" {
		t.Errorf("headings[0] = %+v", headings[0])
	}
	if headings[1].Level != 2 || headings[1].Text != "Background" {
		t.Errorf("headings[1] = %+v", headings[1])
	}
}

func TestDOCXTables(t *testing.T) {
	body := paraXML("", "Before the table.") + `
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Value</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>Alpha</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>1</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>`

	doc, err := (&DOCXReader{}).Read(context.Background(), writeDocx(t, body, false))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	defer doc.Close()

	// Tables are pseudo-units: not counted in the unit list.
	if got := doc.UnitCount(); got != 1 {
		t.Errorf("UnitCount = %d, want 1", got)
	}

	tables := TablesOf(doc)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	want := "Name | Value\nAlpha | 1"
	if tables[0] != want {
		t.Errorf("table = %q, want %q", tables[0], want)
	}
}

func TestDOCXMetadata(t *testing.T) {
	doc, err := (&DOCXReader{}).Read(context.Background(), writeDocx(t, paraXML("", "x"), true))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	defer doc.Close()

	meta := doc.Metadata()
	want := map[string]string{
		"title":    "Quarterly Report",
		"author":   "J. Rivera",
		"subject":  "Finance",
		"keywords": "q3, revenue",
		"category": "Reports",
		"comments": "Draft for review",
		"created":  "2024-03-01T09:00:00Z",
		"modified": "2024-03-05T17:30:00Z",
	}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, meta[k], v)
		}
	}
}

func TestDOCXMetadataMissingCoreProps(t *testing.T) {
	doc, err := (&DOCXReader{}).Read(context.Background(), writeDocx(t, paraXML("", "x"), false))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	defer doc.Close()

	meta := doc.Metadata()
	if meta == nil {
		t.Fatal("metadata must be non-nil")
	}
	if meta["title"] != "" || meta["author"] != "" {
		t.Errorf("expected empty values, got %v", meta)
	}
}

func TestDOCXCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.docx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&DOCXReader{}).Read(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
}

func TestDOCXMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := (&DOCXReader{}).Read(context.Background(), path); err == nil {
		t.Fatal("expected error for archive without word/document.xml")
	}
}

func TestHeadingStyleLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"Heading2", 2},
		{"Heading 3", 3},
		{"heading9", 9},
		{"Heading", 1},
		{"Title", 1},
		{"BodyText", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := headingStyleLevel(tt.style); got != tt.want {
			t.Errorf("headingStyleLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}
