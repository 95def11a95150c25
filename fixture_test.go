package grf

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/flate"

	"github.com/icza/grf/internal/descipher"
)

// fixtureEntry describes one record to place in a synthetic archive built
// by buildArchive. Exactly one of Plain+Compress, or Raw, describes the
// on-disk payload.
type fixtureEntry struct {
	Name string
	Type byte // full type byte, including the is-file bit

	// Plain is the entry's real content. If Compress is true it is deflated
	// and RealSize/CompressedSize differ; otherwise it is stored verbatim
	// and RealSize == CompressedSize.
	Plain    []byte
	Compress bool

	// Raw, if non-nil, overrides Plain entirely: the exact on-disk bytes are
	// used as-is, and RealSize is forced equal to CompressedSize (stored
	// mode). Used for corrupt-data and cipher fixtures, where there is no
	// well-formed "real" content: the cipher is lossy, so a fixture can
	// only declare arbitrary on-disk ciphertext and learn its plaintext
	// from the production decrypt routine (see cipherPlaintext below),
	// never the reverse.
	Raw []byte

	// Pad8 pads the on-disk payload with trailing zero bytes up to a
	// multiple of 8, as required for any entry whose Type carries a cipher
	// bit (the decrypt routines operate on whole 8-byte blocks).
	Pad8 bool

	// ForceRealSize, if non-nil, overrides the trailer's real_size field
	// after the payload is built, independent of the actual bytes written.
	// Used to construct a directory-level inconsistency (e.g. a declared
	// real_size that doesn't match what inflate will actually produce).
	ForceRealSize *int32
}

// cipherPlaintext returns what the production decrypt routine produces for
// ciphertext under mode, given the declared compressedSize. Tests use this
// to learn the expected extraction result for a cipher fixture, since the
// cipher cannot be inverted to hit an arbitrary target plaintext.
func cipherPlaintext(ciphertext []byte, compressedSize int64, mode descipher.Mode) []byte {
	buf := append([]byte(nil), ciphertext...)
	if err := descipher.Decrypt(buf, len(buf), compressedSize, mode); err != nil {
		panic(err)
	}
	return buf
}

// placed is buildArchive's internal bookkeeping for one written record.
type placed struct {
	name           string
	typ            byte
	storedOffset   uint32
	compressedSize int32
	lengthAligned  int32
	realSize       int32
}

// buildArchive assembles a complete, well-formed GRF byte image from
// entries, using the given version (version200 or version300).
func buildArchive(version uint32, entries []fixtureEntry) []byte {
	var data bytes.Buffer // entry payload region, starts right after the header
	var placedEntries []placed

	for _, fe := range entries {
		var payload []byte
		var compressedSize, realSize int32

		switch {
		case fe.Raw != nil:
			payload = append([]byte(nil), fe.Raw...)
			compressedSize = int32(len(payload))
			realSize = compressedSize
		case fe.Compress:
			var buf bytes.Buffer
			zw, _ := flate.NewWriter(&buf, flate.DefaultCompression)
			_, _ = zw.Write(fe.Plain)
			_ = zw.Close()
			payload = buf.Bytes()
			compressedSize = int32(len(payload))
			realSize = int32(len(fe.Plain))
		default:
			payload = append([]byte(nil), fe.Plain...)
			compressedSize = int32(len(payload))
			realSize = compressedSize
		}

		if fe.Pad8 {
			for len(payload)%8 != 0 {
				payload = append(payload, 0)
			}
		}
		lengthAligned := int32(len(payload))

		if fe.ForceRealSize != nil {
			realSize = *fe.ForceRealSize
		}

		storedOffset := uint32(data.Len())
		data.Write(payload)

		placedEntries = append(placedEntries, placed{
			name:           fe.Name,
			typ:            fe.Type,
			storedOffset:   storedOffset,
			compressedSize: compressedSize,
			lengthAligned:  lengthAligned,
			realSize:       realSize,
		})
	}

	// Build the uncompressed central directory buffer.
	var dir bytes.Buffer
	for _, p := range placedEntries {
		dir.WriteString(p.name)
		dir.WriteByte(0)

		var trailer [21]byte
		binary.LittleEndian.PutUint32(trailer[0:4], uint32(p.compressedSize))
		binary.LittleEndian.PutUint32(trailer[4:8], uint32(p.lengthAligned))
		binary.LittleEndian.PutUint32(trailer[8:12], uint32(p.realSize))
		trailer[12] = p.typ
		binary.LittleEndian.PutUint32(trailer[13:17], p.storedOffset)
		if version == version300 {
			binary.LittleEndian.PutUint32(trailer[17:21], 0)
			dir.Write(trailer[:21])
		} else {
			dir.Write(trailer[:17])
		}
	}

	var dirCompressed bytes.Buffer
	zw, _ := flate.NewWriter(&dirCompressed, flate.DefaultCompression)
	_, _ = zw.Write(dir.Bytes())
	_ = zw.Close()

	tableOffsetStored := uint32(data.Len()) // relative to end of header

	var out bytes.Buffer
	out.WriteString(headerMagic)                 // bytes 0..15
	out.Write(make([]byte, 30-len(headerMagic))) // bytes 15..30: reserved

	switch version {
	case version200:
		var payload [16]byte
		binary.LittleEndian.PutUint32(payload[0:4], tableOffsetStored)
		binary.LittleEndian.PutUint32(payload[4:8], 0) // reserved
		binary.LittleEndian.PutUint32(payload[8:12], uint32(len(placedEntries)+7))
		binary.LittleEndian.PutUint32(payload[12:16], version200)
		out.Write(payload[:])
	case version300:
		var payload [16]byte
		binary.LittleEndian.PutUint32(payload[0:4], tableOffsetStored) // low
		binary.LittleEndian.PutUint32(payload[4:8], 0)                 // high
		binary.LittleEndian.PutUint32(payload[8:12], uint32(len(placedEntries)))
		binary.LittleEndian.PutUint32(payload[12:16], version300)
		out.Write(payload[:])
	}

	out.Write(data.Bytes())

	if version == version300 {
		out.Write(make([]byte, 4)) // v0x300 table preamble skip
	}
	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:4], uint32(dirCompressed.Len()))
	binary.LittleEndian.PutUint32(sizes[4:8], uint32(dir.Len()))
	out.Write(sizes[:])
	out.Write(dirCompressed.Bytes())

	return out.Bytes()
}
