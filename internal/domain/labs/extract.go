package labs

import (
	"regexp"
	"strconv"
	"strings"
)

var keywordPatterns = func() map[LabName]*regexp.Regexp {
	m := make(map[LabName]*regexp.Regexp, len(allLabs))
	for _, l := range allLabs {
		m[l] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(string(l)))
	}
	return m
}()

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// a number immediately followed by a dash and another number is a
	// reference range, not a measured value
	rangePattern = regexp.MustCompile(`^\d+(?:\.\d+)?\s*[-–]\s*\d+(?:\.\d+)?`)
)

// Extract scans free text for the recognised lab names and returns the value
// that follows the first occurrence of each. Labs that do not appear are left
// out of the result.
func Extract(text string) Result {
	out := Result{}
	for _, l := range allLabs {
		loc := keywordPatterns[l].FindStringIndex(text)
		if loc == nil {
			continue
		}
		if v, ok := valueAfter(l, text[loc[1]:]); ok {
			out[l] = v
		}
	}
	return out
}

// valueAfter picks the value following a keyword. Numbers on the keyword's
// own line are preferred, then numbers up to the next other lab name. Both
// passes skip reference ranges. When only range bounds are found the first of
// them is used.
func valueAfter(lab LabName, rest string) (float64, bool) {
	line := rest
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		line = rest[:i]
	}
	if v, ok := firstValue(line); ok {
		return v, true
	}

	region := rest[:nextKeyword(lab, rest)]
	if v, ok := firstValue(region); ok {
		return v, true
	}

	m := numberPattern.FindString(region)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstValue returns the first number in s that is not a reference range
// bound.
func firstValue(s string) (float64, bool) {
	skipUntil := -1
	for _, m := range numberPattern.FindAllStringIndex(s, -1) {
		if m[0] < skipUntil {
			continue
		}
		if r := rangePattern.FindStringIndex(s[m[0]:]); r != nil {
			// skip both bounds of the range
			skipUntil = m[0] + r[1]
			continue
		}
		if v, err := strconv.ParseFloat(s[m[0]:m[1]], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// nextKeyword returns the offset in s of the first lab name other than lab,
// or len(s).
func nextKeyword(lab LabName, s string) int {
	end := len(s)
	for _, l := range allLabs {
		if l == lab {
			continue
		}
		if loc := keywordPatterns[l].FindStringIndex(s); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return end
}
