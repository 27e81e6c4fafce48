package assembler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteHex writes one word per line as 8 lowercase hex digits.
func WriteHex(w io.Writer, words []uint32) error {
	writer := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(writer, "%08x\n", word); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// FormatHex renders each word the way WriteHex does, without the newline.
func FormatHex(words []uint32) []string {
	lines := make([]string, len(words))
	for i, word := range words {
		lines[i] = fmt.Sprintf("%08x", word)
	}
	return lines
}

// ReadHex parses the output of WriteHex. Blank lines are skipped.
func ReadHex(r io.Reader) ([]uint32, error) {
	words := []uint32{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		word, err := strconv.ParseUint(strings.TrimSpace(text), 16, 32)
		if err != nil {
			return words, fmt.Errorf("line %d: invalid hex word %q: %w", lineNum, text, err)
		}
		words = append(words, uint32(word))
	}
	return words, scanner.Err()
}
