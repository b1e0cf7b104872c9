package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NormalizePrice reads the first numeric token of a price-like text
// ("25:-", "24,90 kr", "1 234,50 SEK", "19:90/st") and returns it as Money.
//
// Currency markers and any other non-numeric text around the token are ignored.
// Within the token '.', ',' and ':' separate digit groups; the last separator is
// the decimal point only when it is followed by one or two digits at the end of
// the token, every other separator is a thousands separator. A space counts as a
// thousands separator only when exactly three digits follow it, and ':' only
// when exactly two digits follow it. A '.' or ',' standing right before a group
// of one or two digits at the start of the token is the decimal point (".50 kr").
//
// The second return value is false when the text holds no digits at all, so
// callers can tell "unparseable" apart from a real 0.00.
func NormalizePrice(text string) (Money, bool) {
	token, ok := firstNumericToken(text)
	if !ok {
		return Money{}, false
	}

	amount, err := decimal.NewFromString(token)
	if err != nil {
		return Money{}, false
	}
	return Money{amount: amount}, true
}

// firstNumericToken returns the first run of digit groups in text rewritten as a
// plain decimal literal ("1234.50").
func firstNumericToken(text string) (string, bool) {
	rs := []rune(text)

	for i := 0; i < len(rs); i++ {
		if !isASCIIDigit(rs[i]) {
			continue
		}

		j := scanDigits(rs, i)
		if n := j - i; n <= 2 && startsWithDecimalPoint(rs, i) {
			return "0." + string(rs[i:j]), true
		}
		groups := []string{string(rs[i:j])}
		var seps []rune

		for j < len(rs) {
			sep := rs[j]
			k := scanDigits(rs, j+1)
			n := k - (j + 1)
			if n == 0 || !acceptsSeparator(sep, n) {
				break
			}
			seps = append(seps, sep)
			groups = append(groups, string(rs[j+1:k]))
			j = k
		}

		return joinGroups(groups, seps), true
	}

	return "", false
}

// startsWithDecimalPoint reports whether the digits at i follow a '.' or ','
// that is not itself attached to a word or number, as in ".50 kr".
func startsWithDecimalPoint(rs []rune, i int) bool {
	if i == 0 || (rs[i-1] != '.' && rs[i-1] != ',') {
		return false
	}
	if i == 1 {
		return true
	}
	prev := rs[i-2]
	return !unicode.IsLetter(prev) && !isASCIIDigit(prev)
}

func joinGroups(groups []string, seps []rune) string {
	if len(seps) == 0 {
		return groups[0]
	}

	last := groups[len(groups)-1]
	lastSep := seps[len(seps)-1]
	decimalTail := isDecimalSeparator(lastSep) && (len(last) == 1 || len(last) == 2)

	var b strings.Builder
	integerGroups := groups
	if decimalTail {
		integerGroups = groups[:len(groups)-1]
	}
	for _, g := range integerGroups {
		b.WriteString(g)
	}
	if decimalTail {
		b.WriteByte('.')
		b.WriteString(last)
	}
	return b.String()
}

func acceptsSeparator(sep rune, digitsAfter int) bool {
	switch {
	case sep == '.' || sep == ',':
		return true
	case sep == ':':
		return digitsAfter == 2
	case isSpaceSeparator(sep):
		return digitsAfter == 3
	}
	return false
}

func isDecimalSeparator(r rune) bool {
	return r == '.' || r == ',' || r == ':'
}

// isSpaceSeparator covers the plain, no-break and narrow no-break spaces stores
// use between thousands.
func isSpaceSeparator(r rune) bool {
	return r == ' ' || r == '\u00a0' || r == '\u202f' || r == '\u2009'
}

func scanDigits(rs []rune, from int) int {
	j := from
	for j < len(rs) && isASCIIDigit(rs[j]) {
		j++
	}
	return j
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
