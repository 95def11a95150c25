package grfenc

import (
	"strings"
	"unicode/utf8"
)

// decodeUTF8 decodes raw as UTF-8, replacing invalid sequences with
// U+FFFD. This never fails, matching the "non-fatal" decode step used by
// the auto-detector.
func decodeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

func decodeCP949(raw []byte) string {
	out, err := cp949Decoder.Bytes(raw)
	if err != nil || out == nil {
		// The x/text transformer stops at the first byte it cannot map;
		// fall back to decoding byte-by-byte so every input produces a
		// string, substituting U+FFFD for the bytes that failed.
		return decodeCP949Lossy(raw)
	}
	return string(out)
}

// decodeCP949Lossy recovers from a CP949 decode that aborted partway
// through by re-synchronizing one byte at a time: bytes that still fail to
// transcode on their own become U+FFFD.
func decodeCP949Lossy(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	i := 0
	for i < len(raw) {
		// Lead bytes for CP949/EUC-KR are >= 0x81; try a 2-byte sequence
		// first, then fall back to a single byte.
		if raw[i] >= 0x81 && i+1 < len(raw) {
			if out, err := cp949Decoder.Bytes(raw[i : i+2]); err == nil && len(out) > 0 {
				b.Write(out)
				i += 2
				continue
			}
		} else if raw[i] < 0x80 {
			b.WriteByte(raw[i])
			i++
			continue
		}
		b.WriteRune(utf8.RuneError)
		i++
	}
	return b.String()
}

func decodeLatin1(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// badCharCount returns the number of characters in s that are either the
// Unicode replacement character or fall in the C1 control range
// (U+0080..U+009F), the two signals spec.md uses to score a candidate
// decoding.
func badCharCount(s string) int {
	n := 0
	for _, r := range s {
		if r == utf8.RuneError || (r >= 0x0080 && r <= 0x009F) {
			n++
		}
	}
	return n
}
