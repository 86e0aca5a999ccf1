package reader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DOCXReader reads Word documents. Each paragraph is one unit. Tables
// are not units; they are rendered as pipe-joined rows and exposed via
// TableLister for full extraction of small documents.
type DOCXReader struct{}

func (r *DOCXReader) Format() Format { return FormatDOCX }

// Read opens the DOCX archive and parses word/document.xml and
// docProps/core.xml up front. DOCX is a zip container, so there is no
// useful way to materialize paragraphs lazily.
func (r *DOCXReader) Read(ctx context.Context, path string) (Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}
	defer zr.Close()

	fileIndex := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		fileIndex[f.Name] = f
	}

	docFile := fileIndex["word/document.xml"]
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in DOCX")
	}

	data, err := readZipFile(docFile)
	if err != nil {
		return nil, fmt.Errorf("reading document.xml: %w", err)
	}

	paras, tables, err := parseDocxBody(data)
	if err != nil {
		return nil, fmt.Errorf("parsing DOCX XML: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat DOCX: %w", err)
	}

	return &docxDocument{
		paras:  paras,
		tables: tables,
		size:   info.Size(),
		meta:   docxMetadata(fileIndex),
	}, nil
}

// docxParagraph is one body paragraph with its declared style.
type docxParagraph struct {
	text         string
	headingLevel int // 0 = not a heading
}

type docxDocument struct {
	paras  []docxParagraph
	tables []string
	size   int64
	meta   map[string]string
}

func (d *docxDocument) UnitCount() int  { return len(d.paras) }
func (d *docxDocument) ByteSize() int64 { return d.size }

func (d *docxDocument) UnitText(i int) (string, error) {
	if i < 0 || i >= len(d.paras) {
		return "", fmt.Errorf("paragraph index %d out of range [0,%d)", i, len(d.paras))
	}
	return d.paras[i].text, nil
}

func (d *docxDocument) UnitRange(lo, hi int) ([]string, error) {
	return collectRange(d, lo, hi)
}

func (d *docxDocument) Metadata() map[string]string { return d.meta }

// Headings returns every heading-styled paragraph with text, in
// document order.
func (d *docxDocument) Headings() []Heading {
	var out []Heading
	for _, p := range d.paras {
		if p.headingLevel > 0 && p.text != "" {
			out = append(out, Heading{Level: p.headingLevel, Text: p.text})
		}
	}
	return out
}

// Tables returns each table rendered as newline-separated rows of
// pipe-joined cell text.
func (d *docxDocument) Tables() []string { return d.tables }

// Close is a no-op; the archive is fully read during Read.
func (d *docxDocument) Close() error { return nil }

// DOCX XML structures (simplified to what extraction needs).
type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    wordBody `xml:"body"`
}

type wordBody struct {
	Paras  []wordPara  `xml:"p"`
	Tables []wordTable `xml:"tbl"`
}

type wordPara struct {
	PPr  *wordParaPr `xml:"pPr"`
	Runs []wordRun   `xml:"r"`
}

type wordParaPr struct {
	PStyle *wordPStyle `xml:"pStyle"`
}

type wordPStyle struct {
	Val string `xml:"val,attr"`
}

type wordRun struct {
	Text []wordText `xml:"t"`
}

type wordText struct {
	Content string `xml:",chardata"`
}

type wordTable struct {
	Rows []wordRow `xml:"tr"`
}

type wordRow struct {
	Cells []wordCell `xml:"tc"`
}

type wordCell struct {
	Paras []wordPara `xml:"p"`
}

func parseDocxBody(data []byte) ([]docxParagraph, []string, error) {
	var doc wordDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}

	paras := make([]docxParagraph, 0, len(doc.Body.Paras))
	for _, p := range doc.Body.Paras {
		style := ""
		if p.PPr != nil && p.PPr.PStyle != nil {
			style = p.PPr.PStyle.Val
		}
		paras = append(paras, docxParagraph{
			text:         strings.TrimSpace(paraText(p)),
			headingLevel: headingStyleLevel(style),
		})
	}

	tables := make([]string, 0, len(doc.Body.Tables))
	for _, tbl := range doc.Body.Tables {
		rows := make([]string, 0, len(tbl.Rows))
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var b strings.Builder
				for _, p := range cell.Paras {
					if b.Len() > 0 {
						b.WriteString(" ")
					}
					b.WriteString(paraText(p))
				}
				cells = append(cells, strings.TrimSpace(b.String()))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		tables = append(tables, strings.Join(rows, "\n"))
	}

	return paras, tables, nil
}

func paraText(p wordPara) string {
	var b strings.Builder
	for _, run := range p.Runs {
		for _, t := range run.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// headingStyleLevel maps a paragraph style name to a heading level.
// "Heading1" / "Heading 2" style names carry the level as a numeric
// suffix; "Title" is treated as top level. Returns 0 for body styles.
func headingStyleLevel(style string) int {
	lower := strings.ToLower(strings.TrimSpace(style))
	if lower == "" {
		return 0
	}
	if strings.HasPrefix(lower, "title") {
		return 1
	}
	if !strings.HasPrefix(lower, "heading") {
		return 0
	}
	digits := strings.TrimSpace(strings.TrimPrefix(lower, "heading"))
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		return n
	}
	return 1
}

// docxCoreProps maps docProps/core.xml. Element local names are unique,
// so namespace prefixes are omitted.
type docxCoreProps struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Creator     string   `xml:"creator"`
	Subject     string   `xml:"subject"`
	Keywords    string   `xml:"keywords"`
	Category    string   `xml:"category"`
	Description string   `xml:"description"`
	Created     string   `xml:"created"`
	Modified    string   `xml:"modified"`
}

// docxMetadata reads docProps/core.xml. A missing or malformed
// properties part is not an error; all keys are returned with empty
// values.
func docxMetadata(fileIndex map[string]*zip.File) map[string]string {
	meta := map[string]string{
		"title":    "",
		"author":   "",
		"subject":  "",
		"keywords": "",
		"category": "",
		"comments": "",
		"created":  "",
		"modified": "",
	}

	propsFile := fileIndex["docProps/core.xml"]
	if propsFile == nil {
		return meta
	}
	data, err := readZipFile(propsFile)
	if err != nil {
		return meta
	}
	var props docxCoreProps
	if err := xml.Unmarshal(data, &props); err != nil {
		return meta
	}

	meta["title"] = strings.TrimSpace(props.Title)
	meta["author"] = strings.TrimSpace(props.Creator)
	meta["subject"] = strings.TrimSpace(props.Subject)
	meta["keywords"] = strings.TrimSpace(props.Keywords)
	meta["category"] = strings.TrimSpace(props.Category)
	meta["comments"] = strings.TrimSpace(props.Description)
	meta["created"] = strings.TrimSpace(props.Created)
	meta["modified"] = strings.TrimSpace(props.Modified)
	return meta
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
