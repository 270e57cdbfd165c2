package utils

import (
	"strconv"
	"strings"
)

// ParseDecimal converts a spreadsheet cell to a number. Cells arrive as
// text in either Brazilian convention ("R$ 1.234,56") or plain decimal
// ("1234.56"); the convention is detected from the last three
// characters: a comma there means comma-decimal with dot thousands
// separators, a dot there means dot-decimal with comma thousands
// separators. Anything unparseable is zero, never an error — a bad
// cell must not take down an aggregate.
func ParseDecimal(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}

	v = strings.ReplaceAll(v, "R$", "")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	tail := v
	if len(v) > 3 {
		tail = v[len(v)-3:]
	}

	switch {
	case strings.Contains(tail, ","):
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	case strings.Contains(tail, "."):
		v = strings.ReplaceAll(v, ",", "")
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
