package docslice

import (
	"context"
	"fmt"
	"strings"

	"github.com/docslice/docslice/reader"
	"github.com/docslice/docslice/sampler"
)

// truncationSentinel marks output that hit the MaxChars cap. It is
// appended inside the cap so len(Text) <= MaxChars always holds.
const truncationSentinel = "\n[Truncated: output exceeded extraction size limit]"

// maxOverviewHeadings caps the structure overview in the assembled text.
const maxOverviewHeadings = 30

// assembleSmall fully extracts a below-threshold document.
func (e *Engine) assembleSmall(ctx context.Context, doc reader.Document, format reader.Format) (string, error) {
	var b strings.Builder

	switch format {
	case reader.FormatPDF:
		// One labeled block per page; pages without text are skipped
		// but keep their page number in subsequent labels.
		n := doc.UnitCount()
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			text, err := doc.UnitText(i)
			if err != nil {
				return "", err
			}
			if text == "" {
				continue
			}
			fmt.Fprintf(&b, "Page %d:\n%s\n\n", i+1, text)
		}

	case reader.FormatDOCX:
		units, err := doc.UnitRange(0, doc.UnitCount())
		if err != nil {
			return "", err
		}
		for _, text := range units {
			if text == "" {
				continue
			}
			b.WriteString(text)
			b.WriteByte('\n')
		}
		for _, table := range reader.TablesOf(doc) {
			b.WriteString("\nTable:\n")
			b.WriteString(table)
			b.WriteString("\n")
		}

	default: // plain text: literal decoded content
		if ft, ok := doc.(reader.FullTexter); ok {
			content, err := ft.Content()
			if err != nil {
				return "", err
			}
			b.WriteString(content)
		} else {
			units, err := doc.UnitRange(0, doc.UnitCount())
			if err != nil {
				return "", err
			}
			b.WriteString(strings.Join(units, "\n"))
		}
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		text = noTextSentinel(format)
	}
	return e.capText(text), nil
}

// assembleLarge builds the sampled excerpt of an above-threshold
// document: title, structure overview, table of contents, introduction
// window, content samples in planner order, conclusion window.
func (e *Engine) assembleLarge(ctx context.Context, doc reader.Document, format reader.Format) (string, *ExtractedSections, error) {
	n := doc.UnitCount()
	noun := format.UnitNoun()
	sections := &ExtractedSections{}
	var b strings.Builder

	if title := doc.Metadata()["title"]; title != "" {
		fmt.Fprintf(&b, "Title: %s\n\n", title)
	}

	if headings := reader.HeadingsOf(doc); len(headings) > 0 {
		sections.HasHeadings = true
		b.WriteString("[Document Structure]\n")
		limit := len(headings)
		if limit > maxOverviewHeadings {
			limit = maxOverviewHeadings
		}
		for _, h := range headings[:limit] {
			indent := h.Level - 1
			if indent < 0 {
				indent = 0
			}
			b.WriteString(strings.Repeat("  ", indent))
			b.WriteString(h.Text)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	toc, found, err := sampler.LocateTOC(ctx, doc, format)
	if err != nil {
		return "", nil, err
	}
	if found {
		sections.HasTableOfContents = true
		fmt.Fprintf(&b, "[Table of Contents]\n%s\n\n", toc)
	}

	introLo, introHi := sampler.IntroWindow(format, n)
	intro, err := readJoined(doc, introLo, introHi)
	if err != nil {
		return "", nil, err
	}
	if intro != "" {
		sections.HasIntroduction = true
		fmt.Fprintf(&b, "[Introduction: %s %d-%d]\n%s\n\n", noun, introLo+1, introHi, intro)
	}

	plan := e.planner.ChunkPlan(format, n)
	e.cfg.Logger.Debug("assemble: chunk plan",
		"format", format, "units", n, "starts", len(plan.Starts), "width", plan.Width)
	for _, start := range plan.Starts {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		end := start + plan.Width
		if end > n {
			end = n
		}
		chunk, err := readJoined(doc, start, end)
		if err != nil {
			return "", nil, err
		}
		if chunk == "" {
			continue // empty chunks are dropped, not replaced
		}
		sections.NumChunks++
		fmt.Fprintf(&b, "[Content sample: %s %d-%d]\n%s\n\n", noun, start+1, end, chunk)
	}

	conclLo, conclHi := sampler.ConclusionWindow(format, n)
	conclusion, err := readJoined(doc, conclLo, conclHi)
	if err != nil {
		return "", nil, err
	}
	if conclusion != "" {
		sections.HasConclusion = true
		fmt.Fprintf(&b, "[Conclusion: %s %d-%d]\n%s\n\n", noun, conclLo+1, conclHi, conclusion)
	}

	text := strings.TrimRight(b.String(), "\n")
	if strings.TrimSpace(text) == "" {
		text = noTextSentinel(format)
	}
	return e.capText(text), sections, nil
}

// readJoined reads units [lo, hi), drops empty ones, and joins the rest
// with newlines.
func readJoined(doc reader.Document, lo, hi int) (string, error) {
	units, err := doc.UnitRange(lo, hi)
	if err != nil {
		return "", err
	}
	parts := units[:0]
	for _, u := range units {
		if u != "" {
			parts = append(parts, u)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// capText enforces the MaxChars cap. Truncation is position-based and
// may cut mid-word; the sentinel makes the cut explicit.
func (e *Engine) capText(text string) string {
	if len(text) <= e.cfg.MaxChars {
		return text
	}
	cut := e.cfg.MaxChars - len(truncationSentinel)
	if cut < 0 {
		// Cap smaller than the sentinel itself: hard cut, no marker fits.
		return text[:e.cfg.MaxChars]
	}
	e.cfg.Logger.Debug("assemble: output truncated", "max_chars", e.cfg.MaxChars)
	return text[:cut] + truncationSentinel
}

// noTextSentinel is the explicit marker for documents yielding no text.
func noTextSentinel(format reader.Format) string {
	return fmt.Sprintf("[No extractable text found in the %s document]", strings.ToUpper(string(format)))
}
