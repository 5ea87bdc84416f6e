package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTeam folds compatibility forms (NFKC) and trims whitespace so "Côte d’Ivoire"
// typed two ways ends up as one node.
func NormalizeTeam(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

var dateLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02",
	time.RFC3339,
	"Jan 2, 2006",
	"1/2/2006",
}

// ParseDate accepts the layouts seen in exported match tables and truncates to a UTC calendar day.
// It returns the zero time when nothing matches.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

// ParseNumber parses a numeric or percentage cell ("54%" -> 54). Blank or malformed cells give NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
