package grf

import (
	"bytes"
	"context"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/icza/grf/internal/descipher"
)

// extract reads and decodes the payload of e from src, following the
// read -> decrypt -> (optionally) inflate pipeline. entryIndex is not used;
// errors identify the entry by its name.
func extract(ctx context.Context, src Source, e *entry, entryIndex int, pool *bytePool) ([]byte, error) {
	const op = "extract"

	if e.lengthAligned < 0 {
		return nil, newError(CodeCorruptTable, op, nil, "entry", e.name)
	}

	payloadOff := int64(e.offset) + headerSize
	if src.Size() >= 0 && payloadOff+int64(e.lengthAligned) > src.Size() {
		return nil, newError(CodeInvalidOffset, op, nil,
			"entry", e.name, "offset", payloadOff, "length", e.lengthAligned)
	}

	data, err := src.ReadAt(ctx, payloadOff, int(e.lengthAligned))
	if err != nil {
		return nil, newError(CodeInvalidOffset, op, err, "entry", e.name)
	}

	mode := descipher.ModeFromType(e.typ)
	if mode != descipher.ModeNone {
		if err := descipher.Decrypt(data, int(e.lengthAligned), int64(e.compressedSize), mode); err != nil {
			return nil, newError(CodeDecompressFail, op, err, "entry", e.name)
		}
	}

	if int(e.realSize) == int(e.compressedSize) {
		if len(data) < int(e.compressedSize) {
			return nil, newError(CodeDecompressFail, op, nil, "entry", e.name, "reason", "stored payload shorter than compressed_size")
		}
		out := pool.get(int(e.compressedSize))
		copy(out, data[:e.compressedSize])
		return out, nil
	}

	out, err := inflateEntry(data[:min32(int(e.compressedSize), len(data))], int(e.realSize), pool)
	if err != nil {
		return nil, newError(CodeDecompressFail, op, err, "entry", e.name)
	}
	if len(out) != int(e.realSize) {
		return nil, newError(CodeDecompressFail, op, nil,
			"entry", e.name, "expected_size", e.realSize, "actual_size", len(out))
	}
	return out, nil
}

func inflateEntry(src []byte, wantSize int, pool *bytePool) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(src))
	defer fr.Close()

	out := pool.get(wantSize)
	n, err := io.ReadFull(fr, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return out[:n], nil
}

func min32(a, b int) int {
	if a < b {
		return a
	}
	return b
}
