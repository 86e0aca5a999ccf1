package reader

import (
	"context"
	"testing"
)

func TestRegistryBuiltIns(t *testing.T) {
	reg := NewRegistry()

	for _, format := range []Format{FormatPDF, FormatDOCX, FormatTXT} {
		t.Run(string(format), func(t *testing.T) {
			rd, err := reg.Get(format)
			if err != nil {
				t.Fatalf("Get(%q) returned error: %v", format, err)
			}
			if rd.Format() != format {
				t.Errorf("reader for %q reports format %q", format, rd.Format())
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	reg := NewRegistry()

	for _, format := range []Format{"xlsx", "html", "doc", ""} {
		t.Run("format_"+string(format), func(t *testing.T) {
			if _, err := reg.Get(format); err == nil {
				t.Errorf("Get(%q) expected error", format)
			}
		})
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("custom", &TextReader{})
	rd, err := reg.Get("custom")
	if err != nil {
		t.Fatalf("Get after Register returned error: %v", err)
	}
	if rd == nil {
		t.Fatal("Get after Register returned nil reader")
	}
}

func TestUnitNoun(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPDF, "pages"},
		{FormatDOCX, "paragraphs"},
		{FormatTXT, "lines"},
		{"other", "units"},
	}
	for _, tt := range tests {
		if got := tt.format.UnitNoun(); got != tt.want {
			t.Errorf("UnitNoun(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestReadersRejectMissingFiles(t *testing.T) {
	ctx := context.Background()
	for _, rd := range []Reader{&PDFReader{}, &DOCXReader{}, &TextReader{}} {
		t.Run(string(rd.Format()), func(t *testing.T) {
			if _, err := rd.Read(ctx, "/nonexistent/file"); err == nil {
				t.Error("expected error for missing file")
			}
		})
	}
}
