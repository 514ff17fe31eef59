// Package numbering renders and parses human-readable document numbers. The
// actual counter lives in the database (one row per scope prefix,
// transactionally incremented); this package owns the pure formatting rules.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopePrefix builds the fixed part of a document number from the type tag
// and the fiscal year, e.g. "JV-2026-". Sequence numbers are monotonic within
// one such prefix and gap-tolerant across it.
func ScopePrefix(tag string, fiscalYear int) string {
	return fmt.Sprintf("%s-%d-", tag, fiscalYear)
}

// FormatNumber renders a full document number: prefix plus the zero-padded
// sequence value, e.g. FormatNumber("JV-2026-", 6, 42) == "JV-2026-000042".
// Values wider than width are rendered unpadded rather than truncated.
func FormatNumber(prefix string, width int, value int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, value)
}

// SuffixOf extracts the numeric sequence value from a document number sharing
// the given prefix. It returns an error when the number does not belong to
// the prefix or its suffix is not numeric.
func SuffixOf(number, prefix string) (int64, error) {
	if !strings.HasPrefix(number, prefix) {
		return 0, fmt.Errorf("number %q does not share prefix %q", number, prefix)
	}
	suffix := strings.TrimPrefix(number, prefix)
	value, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q has non-numeric suffix %q: %w", number, suffix, err)
	}
	return value, nil
}
