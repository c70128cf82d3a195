package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// maxLineSize bounds a single artifact line.
const maxLineSize = 1 << 20

// openArtifact opens path, mapping a missing file to ErrCodeNotFound.
func openArtifact(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, newNotFoundError(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	return f, nil
}

// splitLines reads r and splits every line on whitespace. Blank lines
// become empty rows; the caller decides whether to keep them.
func splitLines(name string, r io.Reader) ([][]string, error) {
	var rows [][]string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		rows = append(rows, strings.Fields(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return rows, nil
}

// parseIntOrZero converts s like a permissive string-to-integer coercion:
// a leading optionally-signed run of digits is the value ("12" -> 12,
// "3x" -> 3, "-4" -> -4) and anything else, including "", is 0. A single
// underscore between digits is skipped ("1_000" -> 1000). Values outside
// the int range clamp to math.MaxInt or math.MinInt.
func parseIntOrZero(s string) int {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var digits strings.Builder
	for ; i < len(s); i++ {
		c := s[i]
		if isDigit(c) {
			digits.WriteByte(c)
			continue
		}
		if c == '_' && digits.Len() > 0 && i+1 < len(s) && isDigit(s[i+1]) {
			continue
		}
		break
	}
	if digits.Len() == 0 {
		return 0
	}

	text := digits.String()
	if neg {
		text = "-" + text
	}
	n, err := strconv.ParseInt(text, 10, strconv.IntSize)
	if err != nil {
		// Only a range error is possible here.
		if neg {
			return math.MinInt
		}
		return math.MaxInt
	}
	return int(n)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
