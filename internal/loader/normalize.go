package loader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeID turns a textual neuron id into the join key shared by neuron
// and spike files: the id is parsed as a float and formatted back.
// Textually distinct ids with equal values collapse ("3", "3.0" and "3e0"
// all become "3.0"); this merging is intended and must stay stable.
func NormalizeID(raw string) (string, error) {
	f, err := parseFloat(raw)
	if err != nil {
		return "", err
	}
	return formatFloat(f), nil
}

// parseFloat reads a number with the grammar of Python's float(): decimal
// only (no 0x mantissas), single underscores allowed between digits, and
// out-of-range magnitudes saturate to ±inf instead of failing.
func parseFloat(s string) (float64, error) {
	body := s
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if len(body) >= 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		return 0, fmt.Errorf("invalid number %q: hexadecimal is not accepted", s)
	}
	if strings.Contains(body, "_") {
		for i := 0; i < len(body); i++ {
			if body[i] != '_' {
				continue
			}
			if i == 0 || i == len(body)-1 || !isDigit(body[i-1]) || !isDigit(body[i+1]) {
				return 0, fmt.Errorf("invalid number %q: misplaced underscore", s)
			}
		}
		s = strings.ReplaceAll(s, "_", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// formatFloat prints f the way Python's float repr does: shortest
// round-trip digits, fixed notation with at least one fractional digit
// when the decimal exponent is in [-4, 16), exponent notation otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
