package training

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`[\d.]+`)

// CleanPrice converts scraped Indian price strings to rupees:
// "₹1.99 Cr" → 19,900,000; "45 Lakh" → 4,500,000; "850K" → 850,000;
// plain numbers pass through. Returns an error for unparseable strings.
func CleanPrice(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "₹", ""), ",", ""))
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	lower := strings.ToLower(s)
	multiplier := 1.0
	switch {
	case strings.Contains(lower, "cr"):
		multiplier = 1e7
	case strings.Contains(lower, "lakh"), strings.Contains(lower, "l"):
		multiplier = 1e5
	case strings.Contains(lower, "k"):
		multiplier = 1e3
	}

	if multiplier == 1.0 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse price %q: %w", raw, err)
		}
		return v, nil
	}

	match := numberRe.FindString(s)
	if match == "" {
		return 0, fmt.Errorf("no number in price %q", raw)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return v * multiplier, nil
}
