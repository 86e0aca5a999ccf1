// Package sampler decides how much of a document to read. It holds the
// size classifier (full extraction vs. adaptive sampling) and the chunk
// planner, a deterministic tiered policy that picks sample offsets and
// a per-tier chunk width so that beginning, quartiles, middle, and end
// of a large document are all represented within a bounded output.
//
// Everything in this package is pure arithmetic over unit counts; unit
// reads happen elsewhere. Same input always yields the same plan.
package sampler

import (
	"github.com/docslice/docslice/reader"
)

// Config carries the format-specific large-document thresholds.
// Zero-value fields are replaced with defaults by New.
type Config struct {
	PDFLargePages       int   // default 30, strict >
	DocxLargeParagraphs int   // default 500, strict >
	TextLargeBytes      int64 // default 1 MiB, strict >
}

// Planner classifies document size and plans sample chunks.
type Planner struct {
	cfg Config
}

// New returns a Planner with the given configuration.
func New(cfg Config) *Planner {
	if cfg.PDFLargePages == 0 {
		cfg.PDFLargePages = 30
	}
	if cfg.DocxLargeParagraphs == 0 {
		cfg.DocxLargeParagraphs = 500
	}
	if cfg.TextLargeBytes == 0 {
		cfg.TextLargeBytes = 1 << 20
	}
	return &Planner{cfg: cfg}
}

// IsLarge reports whether a document must go through adaptive sampling.
// PDF and DOCX classify by unit count, plain text by file size; all
// comparisons are strict greater-than.
func (p *Planner) IsLarge(format reader.Format, unitCount int, byteSize int64) bool {
	switch format {
	case reader.FormatPDF:
		return unitCount > p.cfg.PDFLargePages
	case reader.FormatDOCX:
		return unitCount > p.cfg.DocxLargeParagraphs
	case reader.FormatTXT:
		return byteSize > p.cfg.TextLargeBytes
	default:
		return false
	}
}

// Plan is the chunk sampling plan for one document: where each sample
// chunk starts and how many units wide every chunk is.
type Plan struct {
	Starts []int // ascending, deduplicated unit offsets
	Width  int   // units per chunk
}

// ChunkPlan computes the tiered sampling plan for a large document of n
// units. Wider, fewer chunks for moderately large documents; narrower,
// evenly spread chunks as the document grows.
func (p *Planner) ChunkPlan(format reader.Format, n int) Plan {
	switch format {
	case reader.FormatPDF:
		return pdfPlan(n)
	case reader.FormatDOCX:
		return docxPlan(n)
	case reader.FormatTXT:
		return textPlan(n)
	default:
		return Plan{}
	}
}

func pdfPlan(n int) Plan {
	switch {
	case n <= 50:
		return Plan{Starts: dedupe(0, n/2, max(0, n-10)), Width: 5}
	case n <= 100:
		return Plan{Starts: dedupe(0, n/4, n/2, 3*n/4, max(0, n-10)), Width: 3}
	default:
		return Plan{Starts: spread(n, min(10, n/20), max(0, n-5)), Width: 2}
	}
}

func docxPlan(n int) Plan {
	if n <= 1000 {
		return Plan{Starts: dedupe(0, n/4, n/2, 3*n/4, max(0, n-50)), Width: 30}
	}
	return Plan{Starts: spread(n, min(10, n/200), max(0, n-50)), Width: 20}
}

// textPlan covers files classified large by byte size. Files with many
// lines sample the quartiles; files that are large in bytes but short
// in lines (very long lines) sample the thirds with wider chunks.
func textPlan(n int) Plan {
	if n > 5000 {
		return Plan{Starts: dedupe(n/4, n/2, 3*n/4), Width: 200}
	}
	return Plan{Starts: dedupe(n/3, 2*n/3), Width: 300}
}

// spread returns k evenly spaced offsets i*(n/k) for i in [0,k), plus a
// forced end offset, deduplicated. For n=1000, k=10 the offsets are the
// multiples of 100.
func spread(n, k, end int) []int {
	if k < 1 {
		k = 1
	}
	step := n / k
	offsets := make([]int, 0, k+1)
	for i := 0; i < k; i++ {
		offsets = append(offsets, i*step)
	}
	offsets = append(offsets, end)
	return dedupe(offsets...)
}

// dedupe sorts ascending and removes duplicate offsets. Inputs are
// already near-sorted; insertion keeps it simple and allocation-free.
func dedupe(offsets ...int) []int {
	out := make([]int, 0, len(offsets))
	for _, o := range offsets {
		pos := len(out)
		for pos > 0 && out[pos-1] > o {
			pos--
		}
		if pos > 0 && out[pos-1] == o {
			continue
		}
		out = append(out, 0)
		copy(out[pos+1:], out[pos:])
		out[pos] = o
	}
	return out
}
