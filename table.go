package grf

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/icza/grf/internal/grfenc"
)

// entry is the parsed, indexed representation of one FileEntry record from
// the central directory.
type entry struct {
	name           string // decoded, as stored (not normalized)
	rawNameBytes   []byte
	offset         uint64
	compressedSize int32
	lengthAligned  int32
	realSize       int32
	typ            byte
}

func (e *entry) isFile() bool { return e.typ&0x01 != 0 }

// table is the fully parsed and indexed central directory.
type table struct {
	entries []*entry

	byExactName      map[string]*entry
	byNormalizedName map[string][]*entry
	byExtension      map[string][]*entry

	stats tableStats
}

type tableStats struct {
	totalEntries       int
	skippedOversize    int
	skippedDirectory   int
	ambiguousNames     int
	badNames           int
	extensionHistogram map[string]int
}

// parseTable reads, inflates and walks the central directory starting at
// h.fileTableOffset, applying the filtering and indexing rules. It returns
// the filename encoding actually used, resolving grfenc.Auto against the
// parsed names when the caller didn't pin one explicitly.
func parseTable(ctx context.Context, src Source, h header, opts Options, enc grfenc.Encoding, pool *bytePool) (*table, grfenc.Encoding, error) {
	const op = "parseTable"

	off := h.fileTableOffset
	if h.version == version300 {
		off += 4 // skip reserved 4 bytes unique to v0x300's table preamble.
	}

	sizesRaw, err := src.ReadAt(ctx, int64(off), 8)
	if err != nil {
		return nil, enc, err
	}
	compressedSize := binary.LittleEndian.Uint32(sizesRaw[0:4])
	realSize := binary.LittleEndian.Uint32(sizesRaw[4:8])

	compressed, err := src.ReadAt(ctx, int64(off)+8, int(compressedSize))
	if err != nil {
		return nil, enc, err
	}

	inflated, err := inflateAll(compressed, int(realSize), pool)
	if err != nil {
		return nil, enc, newError(CodeCorruptTable, op, err, "reason", "inflate failed")
	}
	if len(inflated) != int(realSize) {
		return nil, enc, newError(CodeCorruptTable, op, nil,
			"expected_size", realSize, "actual_size", len(inflated))
	}
	defer pool.put(inflated)

	t := &table{
		byExactName:      make(map[string]*entry),
		byNormalizedName: make(map[string][]*entry),
		byExtension:      make(map[string][]*entry),
		stats:            tableStats{extensionHistogram: make(map[string]int)},
	}

	trailerSize := 17
	if h.version == version300 {
		trailerSize = 21
	}

	// First pass: split the buffer into raw (name bytes, trailer) records
	// so the encoding detector can see every filename before any entry is
	// decoded into a Go string.
	type rawRecord struct {
		name    []byte
		trailer []byte
	}
	var raws []rawRecord

	buf := inflated
	idx := 0
	for len(buf) > 0 {
		nul := bytes.IndexByte(buf, 0)
		if nul < 0 {
			return nil, enc, newError(CodeCorruptTable, op, nil, "entry_index", idx, "reason", "unterminated filename")
		}
		name := buf[:nul]
		buf = buf[nul+1:]
		if len(buf) < trailerSize {
			return nil, enc, newError(CodeCorruptTable, op, nil, "entry_index", idx, "reason", "truncated trailer")
		}
		raws = append(raws, rawRecord{name: name, trailer: buf[:trailerSize]})
		buf = buf[trailerSize:]
		idx++
	}

	if enc == grfenc.Auto {
		names := make([][]byte, len(raws))
		for i, r := range raws {
			names[i] = r.name
		}
		enc = grfenc.Detect(names, opts.AutoDetectThreshold)
	}

	for i, r := range raws {
		cs := int32(binary.LittleEndian.Uint32(r.trailer[0:4]))
		la := int32(binary.LittleEndian.Uint32(r.trailer[4:8]))
		rs := int32(binary.LittleEndian.Uint32(r.trailer[8:12]))
		typ := r.trailer[12]

		if cs < 0 || la < 0 || rs < 0 {
			return nil, enc, newError(CodeCorruptTable, op, nil, "entry_index", i, "reason", "negative size field")
		}

		var offset uint64
		if h.version == version300 {
			low := binary.LittleEndian.Uint32(r.trailer[13:17])
			high := binary.LittleEndian.Uint32(r.trailer[17:21])
			offset = uint64(high)<<32 + uint64(low)
		} else {
			offset = uint64(binary.LittleEndian.Uint32(r.trailer[13:17]))
		}

		e := &entry{
			name:           grfenc.DecodeAndRepair(r.name, enc),
			rawNameBytes:   append([]byte(nil), r.name...),
			offset:         offset,
			compressedSize: cs,
			lengthAligned:  la,
			realSize:       rs,
			typ:            typ,
		}

		t.stats.totalEntries++

		if int64(e.realSize) > opts.MaxFileUncompressedBytes {
			t.stats.skippedOversize++
			continue
		}
		if !e.isFile() {
			t.stats.skippedDirectory++
			continue
		}

		t.entries = append(t.entries, e)
		t.byExactName[e.name] = e

		if hasBadChars(e.name) {
			t.stats.badNames++
		}

		norm := normalizeName(e.name)
		if len(t.byNormalizedName[norm]) == 1 {
			t.stats.ambiguousNames++
		}
		t.byNormalizedName[norm] = append(t.byNormalizedName[norm], e)

		if ext := extensionOf(norm); ext != "" {
			t.byExtension[ext] = append(t.byExtension[ext], e)
			t.stats.extensionHistogram[ext]++
		}
	}

	return t, enc, nil
}

// hasBadChars reports whether name contains the Unicode replacement
// character or a C1 control character (U+0080..U+009F), the two signals
// spec.md uses to flag a badly decoded filename for Stats.BadNameCount.
func hasBadChars(name string) bool {
	for _, r := range name {
		if r == '�' || (r >= 0x0080 && r <= 0x009F) {
			return true
		}
	}
	return false
}

// normalizeName lowercases name (ASCII-only, locale-insensitive) and
// replaces backslashes with forward slashes, per the path-resolution
// normalization rule. strings.ToLower is deliberately not used here: it
// applies full Unicode case folding, which can change the byte length of
// non-ASCII runes (e.g. Turkish İ) and would desync normalized keys from
// the decoded CP949/UTF-8 filenames they're derived from.
func normalizeName(name string) string {
	b := []byte(name)
	for i, c := range b {
		switch {
		case c == '\\':
			b[i] = '/'
		case c >= 'A' && c <= 'Z':
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// extensionOf returns the lowercase extension of a normalized path (without
// the leading dot), or "" if none is present.
func extensionOf(normalized string) string {
	slash := strings.LastIndexByte(normalized, '/')
	base := normalized
	if slash >= 0 {
		base = normalized[slash+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || dot == len(base)-1 {
		return ""
	}
	return base[dot+1:]
}

// inflateAll inflates src, expecting exactly wantSize output bytes.
func inflateAll(src []byte, wantSize int, pool *bytePool) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(src))
	defer fr.Close()

	var out []byte
	if pool != nil {
		out = pool.get(wantSize)
	} else {
		out = make([]byte, wantSize)
	}
	n, err := io.ReadFull(fr, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return out[:n], nil
}
