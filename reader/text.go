package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrDecode marks a plain-text decoding failure during unit reads.
var ErrDecode = errors.New("reader: text decoding failed")

// encodingSampleSize is how many leading bytes are inspected to pick a
// decoding from the fallback chain.
const encodingSampleSize = 4096

// ctxCheckInterval is how many lines are scanned between context
// cancellation checks.
const ctxCheckInterval = 4096

// TextReader reads plain-text files. Each line is one unit.
//
// Decoding tries a fixed ordered chain of encodings (UTF-8, Latin-1,
// CP1252, ASCII) against a leading sample; when none decodes cleanly
// the whole file is decoded as UTF-8 with replacement characters.
//
// Files are never held in memory whole: the first pass counts lines and
// records their byte offsets, and unit reads seek back and re-read only
// the requested window.
type TextReader struct{}

func (r *TextReader) Format() Format { return FormatTXT }

func (r *TextReader) Read(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat text file: %w", err)
	}

	enc, err := detectEncoding(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	offsets, title, err := scanLineOffsets(ctx, f, enc)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &textDocument{
		file:    f,
		size:    info.Size(),
		enc:     enc,
		offsets: offsets,
		meta:    map[string]string{"title": title},
	}, nil
}

// textEncoding is one entry of the decoding fallback chain.
type textEncoding int

const (
	encUTF8 textEncoding = iota
	encLatin1
	encCP1252
	encASCII
	encUTF8Lossy // replacement-character fallback
)

// detectEncoding picks the first encoding in the chain that decodes a
// leading sample cleanly, restoring the file position afterwards.
//
// Latin-1 accepts every byte sequence, so in practice the chain resolves
// after its second entry; the later entries and the lossy fallback are
// kept so the chain order stays explicit.
func detectEncoding(f *os.File) (textEncoding, error) {
	sample := make([]byte, encodingSampleSize)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return encUTF8, err
	}
	sample = sample[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return encUTF8, err
	}

	for _, cand := range []struct {
		enc   textEncoding
		valid func([]byte) bool
	}{
		{encUTF8, validUTF8Sample},
		{encLatin1, func([]byte) bool { return true }},
		{encCP1252, validCP1252},
		{encASCII, validASCII},
	} {
		if cand.valid(sample) {
			return cand.enc, nil
		}
	}
	return encUTF8Lossy, nil
}

// validUTF8Sample checks UTF-8 validity, tolerating a multi-byte rune
// cut off at the end of the sample.
func validUTF8Sample(sample []byte) bool {
	for trim := 0; trim < 4 && trim < len(sample); trim++ {
		if utf8.Valid(sample[:len(sample)-trim]) {
			return true
		}
	}
	return len(sample) == 0
}

func validCP1252(sample []byte) bool {
	for _, b := range sample {
		switch b {
		case 0x81, 0x8d, 0x8f, 0x90, 0x9d: // undefined in CP1252
			return false
		}
	}
	return true
}

func validASCII(sample []byte) bool {
	for _, b := range sample {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// decodeText converts raw file bytes to a string per the chosen encoding.
func decodeText(raw []byte, enc textEncoding) (string, error) {
	switch enc {
	case encUTF8, encASCII:
		return string(raw), nil
	case encLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: latin-1: %v", ErrDecode, err)
		}
		return string(out), nil
	case encCP1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: cp1252: %v", ErrDecode, err)
		}
		return string(out), nil
	default: // encUTF8Lossy
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
	}
}

// scanLineOffsets is the first pass: it records the byte offset of every
// line start and captures the first non-empty line as the title.
func scanLineOffsets(ctx context.Context, f *os.File, enc textEncoding) ([]int64, string, error) {
	br := bufio.NewReader(f)
	var offsets []int64
	var title string
	var pos int64

	for {
		if len(offsets)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, "", err
			}
		}

		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			offsets = append(offsets, pos)
			pos += int64(len(line))
			if title == "" {
				decoded, derr := decodeText(trimLineEnding(line), enc)
				if derr == nil {
					title = strings.TrimSpace(decoded)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("scanning lines: %w", err)
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}
	return offsets, title, nil
}

func trimLineEnding(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

type textDocument struct {
	file    *os.File
	size    int64
	enc     textEncoding
	offsets []int64
	meta    map[string]string
}

func (d *textDocument) UnitCount() int  { return len(d.offsets) }
func (d *textDocument) ByteSize() int64 { return d.size }

func (d *textDocument) UnitText(i int) (string, error) {
	lines, err := d.UnitRange(i, i+1)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("line index %d out of range [0,%d)", i, len(d.offsets))
	}
	return lines[0], nil
}

// UnitRange is the second pass: seek to the window start and re-read
// only the requested lines.
func (d *textDocument) UnitRange(lo, hi int) ([]string, error) {
	if lo < 0 {
		lo = 0
	}
	if hi > len(d.offsets) {
		hi = len(d.offsets)
	}
	if hi <= lo {
		return nil, nil
	}

	if _, err := d.file.Seek(d.offsets[lo], io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to line %d: %w", lo, err)
	}

	br := bufio.NewReader(d.file)
	out := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		line, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading line %d: %w", i, err)
		}
		decoded, derr := decodeText(trimLineEnding(line), d.enc)
		if derr != nil {
			return nil, derr
		}
		out = append(out, strings.TrimSpace(decoded))
		if err == io.EOF {
			break
		}
	}
	return out, nil
}

// Content decodes the entire file. Used for full extraction of small
// files only; large files go through windowed UnitRange reads.
func (d *textDocument) Content() (string, error) {
	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	raw, err := io.ReadAll(d.file)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return decodeText(raw, d.enc)
}

func (d *textDocument) Metadata() map[string]string { return d.meta }

func (d *textDocument) Close() error { return d.file.Close() }
