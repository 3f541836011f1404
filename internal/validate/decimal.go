// ABOUTME: Locale-aware parsing and formatting of user-entered decimal numbers.
// ABOUTME: Empty text parses to "absent"; unparseable text is a FieldError.
package validate

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// separators holds a locale's number conventions as x/text formats them.
type separators struct {
	decimal string
	// grouping lists the accepted grouping marks, the locale's own first.
	grouping []string
	// primary is the size of the group nearest the decimal mark,
	// secondary the size of every group before it.
	primary, secondary int
	// zero is the locale's digit zero.
	zero rune
}

// groupingAlternates are marks users type in place of the one a locale prints.
var groupingAlternates = map[string][]string{
	"\u202f": {"\u00a0", " "},
	"\u00a0": {"\u202f", " "},
	" ":      {"\u00a0", "\u202f"},
	"\u2019": {"'"},
}

// separatorsFor reads tag's conventions off a formatted sample, so parsing
// accepts exactly what FormatDecimal prints.
func separatorsFor(tag language.Tag) separators {
	sample := message.NewPrinter(tag).Sprint(
		number.Decimal(1234567.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	sample = stripFormatting(sample)

	var (
		runs   []string
		digits []int
		cur    strings.Builder
		n      int
		zero   rune = -1
	)
	for _, r := range sample {
		if unicode.IsDigit(r) {
			if zero < 0 {
				zero = r - 1
			}
			if cur.Len() > 0 && n > 0 {
				runs = append(runs, cur.String())
				digits = append(digits, n)
				n = 0
			}
			cur.Reset()
			n++
			continue
		}
		cur.WriteRune(r)
	}
	digits = append(digits, n)

	sep := separators{decimal: ".", primary: 3, secondary: 3, zero: '0'}
	if zero >= 0 {
		sep.zero = zero
	}
	if len(runs) == 0 {
		return sep
	}
	sep.decimal = runs[len(runs)-1]
	if len(runs) > 1 {
		mark := runs[0]
		sep.grouping = append([]string{mark}, groupingAlternates[mark]...)
		groups := digits[:len(digits)-1]
		sep.primary = groups[len(groups)-1]
		sep.secondary = sep.primary
		if len(groups) > 2 {
			sep.secondary = groups[len(groups)-2]
		}
	}
	return sep
}

// stripFormatting drops invisible bidi marks some locales print around numbers.
func stripFormatting(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// asciiDigits maps the locale's digits to ASCII.
func asciiDigits(s string, zero rune) string {
	if zero == '0' {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r >= zero && r <= zero+9 {
			return '0' + (r - zero)
		}
		return r
	}, s)
}

// ParseTag parses a BCP 47 locale such as "en-US" or "de".
// An empty string means English.
func ParseTag(s string) (language.Tag, error) {
	if strings.TrimSpace(s) == "" {
		return language.English, nil
	}
	return language.Parse(s)
}

// ParseDecimal parses text as a decimal in the conventions of tag.
// It returns nil, nil for empty or whitespace-only text.
// Text the locale cannot read is retried as a plain Go float literal,
// so "82.5" is accepted everywhere.
func ParseDecimal(field, text string, tag language.Tag) (*float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	sep := separatorsFor(tag)
	v, ok := parseLocalized(asciiDigits(stripFormatting(trimmed), sep.zero), sep)
	if !ok {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &FieldError{Field: field, Input: text, Reason: "not a number"}
		}
		v = f
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &FieldError{Field: field, Input: text, Reason: "not a finite number"}
	}
	return &v, nil
}

// parseLocalized reads an optional sign, digits with well-formed grouping,
// and an optional fraction after the locale's decimal mark.
func parseLocalized(s string, sep separators) (float64, bool) {
	sign := ""
	switch {
	case strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+"):
		sign, s = s[:1], s[1:]
	case strings.HasPrefix(s, "\u2212"):
		sign, s = "-", strings.TrimPrefix(s, "\u2212")
	}

	intPart, frac, hasFrac := strings.Cut(s, sep.decimal)
	if hasFrac && (frac == "" || !allDigits(frac)) {
		return 0, false
	}

	digits, ok := stripGrouping(intPart, sep)
	if !ok {
		return 0, false
	}

	literal := sign + digits
	if hasFrac {
		literal += "." + frac
	}
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// stripGrouping removes grouping marks from an integer part. The last group
// must have the primary size and earlier groups the secondary size.
func stripGrouping(s string, sep separators) (string, bool) {
	if s == "" {
		return "", false
	}
	var mark string
	for _, m := range sep.grouping {
		if strings.Contains(s, m) {
			mark = m
			break
		}
	}
	if mark == "" {
		return s, allDigits(s)
	}

	groups := strings.Split(s, mark)
	last := len(groups) - 1
	for i, g := range groups {
		switch {
		case !allDigits(g):
			return "", false
		case i == last && len(g) != sep.primary:
			return "", false
		case i == 0 && i != last && len(g) > sep.secondary:
			return "", false
		case i > 0 && i < last && len(g) != sep.secondary:
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatDecimal renders v for tag with at most two fraction digits.
func FormatDecimal(v float64, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
