package grf

import (
	"bytes"
	"context"
	"testing"
)

func TestExtractInvalidOffset(t *testing.T) {
	src := NewMemorySource(make([]byte, 64))
	e := &entry{
		name:           "beyond.bin",
		offset:         1024,
		compressedSize: 8,
		lengthAligned:  8,
		realSize:       8,
		typ:            typeFile,
	}

	_, err := extract(context.Background(), src, e, 0, nil)
	if !errIs(err, CodeInvalidOffset) {
		t.Fatalf("extract(out-of-range entry) error = %v, want InvalidOffset", err)
	}
}

func TestExtractStoredDiscardsAlignmentPadding(t *testing.T) {
	// A stored entry whose on-disk payload carries 5 bytes of alignment
	// padding: extraction must return exactly compressed_size bytes.
	img := buildArchive(version200, []fixtureEntry{
		{Name: "padded.bin", Type: typeFile, Raw: []byte("abc"), Pad8: true},
	})

	a := openMemory(t, img)
	defer a.Close()

	data, err := a.GetFile(context.Background(), "padded.bin")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if !bytes.Equal(data, []byte("abc")) {
		t.Fatalf("GetFile(padded) = %q, want %q", data, "abc")
	}
}
