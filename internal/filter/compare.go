package filter

import "strings"

// CompareAlphanumeric orders strings case-insensitively, comparing runs of
// digits by numeric value ("item2" < "item10"). A text chunk sorts before a
// numeric chunk at the same position.
func CompareAlphanumeric(a, b string) int {
	ac := chunks(strings.ToLower(a))
	bc := chunks(strings.ToLower(b))
	for i := 0; i < len(ac) && i < len(bc); i++ {
		x, y := ac[i], bc[i]
		xn, yn := isDigits(x), isDigits(y)
		switch {
		case !xn && !yn:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		case xn != yn:
			if xn {
				return 1
			}
			return -1
		default:
			if c := compareDigits(x, y); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(ac) < len(bc):
		return -1
	case len(ac) > len(bc):
		return 1
	}
	return 0
}

func chunks(s string) []string {
	var out []string
	start, prevDigit := 0, false
	for i, r := range s {
		d := r >= '0' && r <= '9'
		if i > 0 && d != prevDigit {
			out = append(out, s[start:i])
			start = i
		}
		prevDigit = d
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// compareDigits compares two ASCII digit runs by value without overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
