package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNum = regexp.MustCompile(`[^0-9.\-]`)

// ParseQuantity parses quantities the way spreadsheets write them:
// "1,234.5", "1,250", "30,5" (decimal comma), "(12)" for negatives, NBSP
// thousands separators. Returns false when the cell holds no usable number.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	// Strip regular and non-breaking spaces.
	s = strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "").Replace(s)

	// A lone comma not followed by a 3-digit group is a decimal comma
	// ("30,5"); everything else is a thousands separator ("1,250").
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		after := s[strings.Index(s, ",")+1:]
		if len(after) != 3 {
			s = strings.Replace(s, ",", ".", 1)
		}
	}
	s = strings.ReplaceAll(s, ",", "")

	s = rxKeepNum.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
