package setting

import (
	"strconv"
	"strings"
)

// The scanners accept the longest numeric prefix of the input after
// leading blanks, the way a formatted scan does: "42px" reads as 42.
// Input with no numeric prefix is a syntax error.

func scanInt(text string) (int, error) {
	p := numericPrefix(strings.TrimLeft(text, " \t"), true, false)
	if p == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseInt(p, 10, strconv.IntSize)
	if err != nil {
		return 0, unwrapNum(err)
	}
	return int(v), nil
}

func scanUint(text string, bitSize int) (uint64, error) {
	t := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(t, "-") {
		return 0, strconv.ErrRange
	}
	p := numericPrefix(t, true, false)
	if p == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(p, "+"), 10, bitSize)
	if err != nil {
		return 0, unwrapNum(err)
	}
	return v, nil
}

func scanHex(text string) (uint64, error) {
	t := strings.TrimLeft(text, " \t")
	t = strings.TrimPrefix(t, "#")
	if len(t) > 1 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		t = t[2:]
	}
	end := 0
	for end < len(t) && isHexDigit(t[end]) {
		end++
	}
	if end == 0 {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseUint(t[:end], 16, strconv.IntSize)
	if err != nil {
		return 0, unwrapNum(err)
	}
	return v, nil
}

func scanFloat(text string) (float64, error) {
	p := numericPrefix(strings.TrimLeft(text, " \t"), true, true)
	if p == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, unwrapNum(err)
	}
	return v, nil
}

// numericPrefix returns the leading decimal number of s, optionally signed
// and optionally with a fraction and exponent.
func numericPrefix(s string, signed, fraction bool) string {
	i := 0
	if signed && i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - start

	if fraction && i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if digits > 0 || j > i+1 {
			digits += j - i - 1
			i = j
		}
	}
	if digits == 0 {
		return ""
	}

	if fraction && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unwrapNum(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
