package grf

import (
	"context"
	"testing"
)

func TestParseHeaderV200(t *testing.T) {
	img := buildArchive(version200, []fixtureEntry{
		{Name: "a.txt", Type: typeFile, Plain: []byte("x")},
		{Name: "b.txt", Type: typeFile, Plain: []byte("y")},
	})

	h, err := parseHeader(context.Background(), NewMemorySource(img))
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.version != version200 {
		t.Fatalf("version = %#x, want 0x200", h.version)
	}
	if h.fileCount != 2 {
		t.Fatalf("fileCount = %d, want 2", h.fileCount)
	}
}

func TestParseHeaderV300(t *testing.T) {
	img := buildArchive(version300, []fixtureEntry{
		{Name: "a.txt", Type: typeFile, Plain: []byte("x")},
	})

	h, err := parseHeader(context.Background(), NewMemorySource(img))
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.version != version300 {
		t.Fatalf("version = %#x, want 0x300", h.version)
	}
	if h.fileCount != 1 {
		t.Fatalf("fileCount = %d, want 1", h.fileCount)
	}
}

func TestParseHeaderMisTaggedV300FallsBackToV200Layout(t *testing.T) {
	// Build a genuine v0x200 image, then overwrite only the version field
	// to 0x300, leaving the v0x200 byte layout (table_offset/reserved/
	// raw_count at bytes 30..42) intact. The "high" word at bytes 34..38 is
	// the v0x200 "reserved" field, which buildArchive leaves as 0 — so to
	// exercise the heuristic we need a nonzero reserved/high value.
	img := buildArchive(version200, []fixtureEntry{
		{Name: "a.txt", Type: typeFile, Plain: []byte("x")},
	})

	// Inject a nonzero reserved value (bytes 34..38) whose top byte is
	// nonzero, simulating the mis-tagged layout's telltale "high" word.
	putLE32(img[34:38], 0x01000000)
	// Compensate file_count formula: raw_count - reserved - 7 must still
	// equal 1, so bump raw_count by the same reserved delta.
	putLE32(img[38:42], 1+0x01000000+7)
	// Re-tag the version field as 0x300.
	putLE32(img[42:46], version300)

	h, err := parseHeader(context.Background(), NewMemorySource(img))
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.version != version200 {
		t.Fatalf("version = %#x, want 0x200 (mis-tagged fallback)", h.version)
	}
	if h.fileCount != 1 {
		t.Fatalf("fileCount = %d, want 1 (mis-tagged fallback)", h.fileCount)
	}
}

func TestParseHeaderInvalidMagic(t *testing.T) {
	img := make([]byte, headerSize)
	_, err := parseHeader(context.Background(), NewMemorySource(img))
	if !errIs(err, CodeInvalidMagic) {
		t.Fatalf("parseHeader(zero bytes) error = %v, want InvalidMagic", err)
	}
}

func TestParseHeaderUnsupportedVersion(t *testing.T) {
	img := buildArchive(version200, nil)
	putLE32(img[42:46], 0x400)

	_, err := parseHeader(context.Background(), NewMemorySource(img))
	if !errIs(err, CodeUnsupportedVersion) {
		t.Fatalf("parseHeader(bad version) error = %v, want UnsupportedVersion", err)
	}
}
