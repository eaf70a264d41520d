package internal

import (
	"bufio"
	"bytes"
	"io"
)

// readLines streams r and calls fn with each 1-based line, terminator
// included. It stops when fn returns false. io.EOF is not an error.
func readLines(r io.Reader, fn func(lineNum int, line []byte) bool) error {
	br := bufio.NewReaderSize(r, readerBufferSize)
	lineNum := 0
	for {
		b, err := br.ReadBytes('\n')
		if len(b) > 0 {
			lineNum++
			if !fn(lineNum, b) {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}
