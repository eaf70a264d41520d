package internal

import (
	"bufio"
	"bytes"
	"unicode/utf8"
)

const (
	textSampleSize   = 4096
	binaryBadRatio   = 0.30 // share of suspicious bytes above which a sample is binary
	readerBufferSize = 64 * 1024
)

// IsText peeks at the head of br and reports whether it looks like text.
// Nothing is consumed: the caller keeps reading br from the start.
func IsText(br *bufio.Reader) bool {
	sample, err := br.Peek(textSampleSize)
	if err != nil && len(sample) == 0 {
		// empty or unreadable head: prefer to try matching
		return true
	}
	return IsTextBytes(sample)
}

// IsTextBytes is the heuristic behind IsText.
func IsTextBytes(sample []byte) bool {
	if len(sample) == 0 {
		return true
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}

	bad := 0
	for i := 0; i < len(sample); {
		c := sample[i]
		if c < utf8.RuneSelf {
			if !isTextASCII(c) {
				bad++
			}
			i++
			continue
		}
		if !utf8.FullRune(sample[i:]) {
			// multi-byte sequence cut by the sample boundary
			break
		}
		r, size := utf8.DecodeRune(sample[i:])
		if r == utf8.RuneError && size == 1 {
			bad++
		}
		i += size
	}
	return float64(bad)/float64(len(sample)) <= binaryBadRatio
}

func isTextASCII(c byte) bool {
	switch c {
	case '\t', '\n', '\r', '\f', '\b', 0x1b:
		return true
	}
	return c >= 0x20 && c < 0x7f
}
