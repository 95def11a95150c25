// Package grfenc implements the filename-encoding subsystem: a scored
// auto-detector choosing between UTF-8 and CP949 (a superset of EUC-KR),
// mojibake detection and repair, and a small decoder factory.
package grfenc

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

// Encoding identifies a filename decoder.
type Encoding int

const (
	Auto Encoding = iota
	UTF8
	CP949
	EUCKR
	Latin1
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case CP949:
		return "cp949"
	case EUCKR:
		return "euc-kr"
	case Latin1:
		return "latin-1"
	default:
		return "auto"
	}
}

// cp949Decoder is the decoder used for both CP949 and its EUC-KR fallback
// alias. golang.org/x/text's korean.EUCKR transcoder already implements the
// CP949/UHC superset (extended Hangul included), so there is no separate
// "browser fallback" codec needed in this implementation: the one decoder
// serves both names, matching spec's note that a missing CP949-accurate
// decoder should fall back to EUC-KR and let the bad-character scoring
// absorb the difference.
var cp949Decoder = korean.EUCKR.NewDecoder()

var windows1252Encoder = charmap.Windows1252.NewEncoder()
var windows1252Decoder = charmap.Windows1252.NewDecoder()

// Decode decodes raw null-terminated-stripped filename bytes using enc.
// Decoding is always "lossy": invalid byte sequences become U+FFFD rather
// than producing an error, since filenames are untrusted bytes and callers
// need a string back regardless.
func Decode(raw []byte, enc Encoding) string {
	switch enc {
	case CP949, EUCKR:
		return decodeCP949(raw)
	case Latin1:
		return decodeLatin1(raw)
	default:
		return decodeUTF8(raw)
	}
}

// DecodeAndRepair decodes raw like Decode, then applies the mojibake
// repair pass when enc decodes bytes in a way that can garble CP949 text
// as Windows-1252 (UTF-8 and Latin-1 both pass non-ASCII bytes through
// largely unchanged, the classic precondition for the garble). CP949/EUC-KR
// decoding already targets the right codepage, so there is nothing to
// repair there.
func DecodeAndRepair(raw []byte, enc Encoding) string {
	name := Decode(raw, enc)
	switch enc {
	case CP949, EUCKR:
		return name
	default:
		if IsMojibake(name) {
			return FixMojibake(name)
		}
		return name
	}
}
