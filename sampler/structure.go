package sampler

import (
	"context"
	"strings"

	"github.com/docslice/docslice/reader"
)

// TOC scan windows: how many leading units are inspected for a table of
// contents. Plain text has no TOC scan.
const (
	pdfTOCScanUnits  = 5
	docxTOCScanUnits = 50
)

// tocCaptureMin is how many units the TOC capture collects before an
// empty unit is allowed to terminate it.
const tocCaptureMin = 5

// Intro/conclusion window clamps, per format.
const (
	pdfWindowMin = 3
	pdfWindowMax = 10

	paraWindowMin = 20
	paraWindowMax = 100
)

// WindowSize returns the intro/conclusion window width for a document
// of n units: 10% of the document, clamped to the format's bounds.
// Plain text uses the paragraph-style bounds; its line units are the
// closest in granularity.
func WindowSize(format reader.Format, n int) int {
	w := (n + 9) / 10 // ceil(0.10 * n)
	lo, hi := paraWindowMin, paraWindowMax
	if format == reader.FormatPDF {
		lo, hi = pdfWindowMin, pdfWindowMax
	}
	if w < lo {
		w = lo
	}
	if w > hi {
		w = hi
	}
	if w > n {
		w = n
	}
	return w
}

// IntroWindow returns the [lo, hi) unit range of the introduction.
func IntroWindow(format reader.Format, n int) (int, int) {
	return 0, WindowSize(format, n)
}

// ConclusionWindow returns the [lo, hi) unit range of the conclusion.
// It may overlap the introduction or a sample chunk; overlap is
// accepted in favor of representativeness.
func ConclusionWindow(format reader.Format, n int) (int, int) {
	w := WindowSize(format, n)
	lo := n - w
	if lo < 0 {
		lo = 0
	}
	return lo, n
}

// LocateTOC scans a bounded prefix of the document for a table of
// contents. A unit whose text contains "content" or "table of"
// (case-insensitive) flags the TOC; from there contiguous units are
// collected until at least tocCaptureMin units have been captured and
// an empty unit is seen, or the scan window ends.
//
// The first keyword match wins and no plausibility check is applied, so
// body prose containing "contents" inside the scan window can trigger a
// false capture. Known limitation, kept for deterministic behavior.
func LocateTOC(ctx context.Context, doc reader.Document, format reader.Format) (string, bool, error) {
	var scan int
	switch format {
	case reader.FormatPDF:
		scan = pdfTOCScanUnits
	case reader.FormatDOCX:
		scan = docxTOCScanUnits
	default:
		return "", false, nil
	}
	if n := doc.UnitCount(); scan > n {
		scan = n
	}

	for i := 0; i < scan; i++ {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		text, err := doc.UnitText(i)
		if err != nil {
			return "", false, err
		}
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "content") && !strings.Contains(lower, "table of") {
			continue
		}

		// Flagged: collect the capture from here.
		var parts []string
		for j := i; j < scan; j++ {
			unit, err := doc.UnitText(j)
			if err != nil {
				return "", false, err
			}
			if unit == "" {
				if len(parts) >= tocCaptureMin {
					break
				}
				continue
			}
			parts = append(parts, unit)
		}
		return strings.Join(parts, "\n"), true, nil
	}
	return "", false, nil
}
