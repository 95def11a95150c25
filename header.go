package grf

import (
	"bytes"
	"context"
	"encoding/binary"
)

const (
	headerSize    = 46
	headerMagic   = "Master of Magic" // 15 bytes, no terminator
	versionOffset = 42

	version200 = 0x200
	version300 = 0x300
)

// header is the parsed 46-byte GRF header. See spec §4.4.
type header struct {
	version         uint32
	fileTableOffset uint64
	fileCount       int64
}

// parseHeader reads and validates the 46-byte archive header at the start
// of src, applying the v0x300-vs-mis-tagged-v0x200 disambiguation
// heuristic.
func parseHeader(ctx context.Context, src Source) (header, error) {
	const op = "parseHeader"

	raw, err := src.ReadAt(ctx, 0, headerSize)
	if err != nil {
		return header{}, err
	}

	if !bytes.Equal(raw[0:len(headerMagic)], []byte(headerMagic)) {
		return header{}, newError(CodeInvalidMagic, op, nil, "reason", "invalid signature")
	}

	version := binary.LittleEndian.Uint32(raw[versionOffset:])
	if version != version200 && version != version300 {
		return header{}, newError(CodeUnsupportedVersion, op, nil,
			"version", formatHex(version))
	}

	var h header
	h.version = version

	switch version {
	case version200:
		h = parseHeaderV200(raw)
	case version300:
		low := binary.LittleEndian.Uint32(raw[30:34])
		high := binary.LittleEndian.Uint32(raw[34:38])
		if (high >> 8) != 0 {
			// Mis-tagged: laid out like v0x200 even though the version
			// field says v0x300 (the "high" word overlaps v0x200's
			// "reserved" field and typically has nonzero upper bytes).
			// The whole archive, central directory included, follows the
			// v0x200 layout, so the reported version drops to 0x200 too.
			h = parseHeaderV200(raw)
		} else {
			h.fileTableOffset = uint64(high)<<32 + uint64(low) + headerSize
			h.fileCount = int64(binary.LittleEndian.Uint32(raw[38:42]))
		}
	}

	if h.fileCount < 0 {
		return header{}, newError(CodeCorruptTable, op, nil, "file_count", h.fileCount)
	}

	return h, nil
}

func parseHeaderV200(raw []byte) header {
	tableOffsetStored := binary.LittleEndian.Uint32(raw[30:34])
	reserved := binary.LittleEndian.Uint32(raw[34:38])
	rawCount := binary.LittleEndian.Uint32(raw[38:42])

	return header{
		version:         version200,
		fileTableOffset: uint64(tableOffsetStored) + headerSize,
		fileCount:       int64(rawCount) - int64(reserved) - 7,
	}
}

func formatHex(v uint32) string {
	const hexDigits = "0123456789abcdef"
	if v == 0 {
		return "0x0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return "0x" + string(buf[i:])
}
