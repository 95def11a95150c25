package grfenc

import "strings"

// mojibakeSignatures are short byte sequences (already decoded as runes)
// that show up with unusually high frequency when CP949 bytes are
// misread as Windows-1252. They are a coarse, cheap-to-check first signal;
// the percentage-based heuristic below catches everything else.
var mojibakeSignatures = []string{
	"Ã¢€",
	"°æ",
	"´ë",
	"ÀÌ¸§", // CP949 "이름" read as Windows-1252
}

const mojibakeC1RatioThreshold = 0.30

// IsMojibake reports whether s looks like CP949 bytes that were decoded as
// Windows-1252: it contains no Hangul syllables, and either matches one of
// the known high-frequency garble signatures or has an unusually high
// fraction of characters in the U+0080..U+00FF Latin-1 Supplement range.
func IsMojibake(s string) bool {
	if containsHangulSyllable(s) {
		return false
	}
	for _, sig := range mojibakeSignatures {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return latin1SupplementRatio(s) > mojibakeC1RatioThreshold
}

// FixMojibake attempts to repair s by re-encoding it as Windows-1252 and
// decoding the result as CP949. The fix is only kept if it both introduces
// Hangul syllables and does not increase the bad-character count; otherwise
// s is returned unchanged.
func FixMojibake(s string) string {
	encoded, err := windows1252Encoder.String(s)
	if err != nil {
		return s
	}
	fixed := decodeCP949([]byte(encoded))

	if !containsHangulSyllable(fixed) {
		return s
	}
	if badCharCount(fixed) > badCharCount(s) {
		return s
	}
	return fixed
}

func containsHangulSyllable(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}

func latin1SupplementRatio(s string) float64 {
	total := 0
	inRange := 0
	for _, r := range s {
		total++
		if r >= 0x0080 && r <= 0x00FF {
			inRange++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(inRange) / float64(total)
}
