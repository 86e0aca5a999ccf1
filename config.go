package docslice

import "log/slog"

// Config holds all tunables for the extraction engine. The zero value
// is usable: New replaces zero fields with the documented defaults, so
// multiple configurations can coexist (e.g. lowered thresholds in tests).
type Config struct {
	// MaxChars is the hard cap on the assembled output text, in bytes.
	// Output exceeding the cap is truncated and marked. Default 250000.
	MaxChars int `json:"max_chars"`

	// PDFLargePages is the page count above which a PDF is sampled
	// instead of fully extracted. Strict greater-than. Default 30.
	PDFLargePages int `json:"pdf_large_pages"`

	// DocxLargeParagraphs is the paragraph count above which a DOCX is
	// sampled. Strict greater-than. Default 500.
	DocxLargeParagraphs int `json:"docx_large_paragraphs"`

	// TextLargeBytes is the file size above which a plain-text file is
	// sampled. Strict greater-than. Default 1 MiB.
	TextLargeBytes int64 `json:"text_large_bytes"`

	// BatchConcurrency bounds the number of documents extracted in
	// parallel by ParseAll. Default 4.
	BatchConcurrency int `json:"batch_concurrency"`

	// Logger receives pipeline progress events. Defaults to slog.Default().
	Logger *slog.Logger `json:"-"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxChars:            250000,
		PDFLargePages:       30,
		DocxLargeParagraphs: 500,
		TextLargeBytes:      1 << 20,
		BatchConcurrency:    4,
	}
}

// withDefaults fills zero-value fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxChars == 0 {
		c.MaxChars = def.MaxChars
	}
	if c.PDFLargePages == 0 {
		c.PDFLargePages = def.PDFLargePages
	}
	if c.DocxLargeParagraphs == 0 {
		c.DocxLargeParagraphs = def.DocxLargeParagraphs
	}
	if c.TextLargeBytes == 0 {
		c.TextLargeBytes = def.TextLargeBytes
	}
	if c.BatchConcurrency == 0 {
		c.BatchConcurrency = def.BatchConcurrency
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
