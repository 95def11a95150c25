package grfenc

const maxDetectSamples = 200

// Detect implements the scored auto-detector from spec.md §4.3: sample up
// to maxDetectSamples filenames with at least one byte above 0x7F, decode
// each as both UTF-8 and CP949, score by bad-character ratio, and pick the
// encoding with the better score. Pure-ASCII sample sets deterministically
// choose UTF8.
func Detect(names [][]byte, threshold float64) Encoding {
	sampled := 0
	var utf8Bad, cp949Bad, totalBytes int

	for _, name := range names {
		if sampled >= maxDetectSamples {
			break
		}
		if !hasHighByte(name) {
			continue
		}
		sampled++
		totalBytes += len(name)

		utf8Bad += badCharCount(decodeUTF8(name))
		cp949Bad += badCharCount(decodeCP949(name))
	}

	if totalBytes == 0 {
		return UTF8
	}

	utf8Ratio := float64(utf8Bad) / float64(totalBytes)
	cp949Ratio := float64(cp949Bad) / float64(totalBytes)

	if utf8Ratio < threshold {
		return UTF8
	}
	if cp949Ratio < utf8Ratio {
		return CP949
	}
	return UTF8
}

func hasHighByte(b []byte) bool {
	for _, c := range b {
		if c > 0x7F {
			return true
		}
	}
	return false
}
