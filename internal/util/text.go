// Package util provides small text helpers shared across trendwire.
package util

import (
	"fmt"
	"unicode/utf8"
)

// EncodedSize returns the UTF-8 encoded size of s in bytes.
// All batch budget arithmetic goes through this so the unit is
// unambiguous at call sites.
func EncodedSize(s string) int {
	return len(s)
}

// TruncateBytes clips s to at most maxBytes encoded bytes without cutting a
// multi-byte character in half. The result always decodes as valid UTF-8.
//
// If the naive byte slice lands inside a rune, the cut shrinks one byte at a
// time, bounded by the maximum UTF-8 character width, until the tail decodes.
// A maxBytes smaller than the first rune yields an empty string.
func TruncateBytes(s string, maxBytes int) string {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if len(s) <= maxBytes {
		return s
	}

	cut := s[:maxBytes]
	for i := 0; i <= utf8.UTFMax && i <= len(cut); i++ {
		candidate := cut[:len(cut)-i]
		if utf8.ValidString(candidate) {
			return candidate
		}
	}
	return ""
}

// Truncate shortens a string to at most n bytes with an ASCII "..." ellipsis,
// respecting UTF-8 boundaries. Used for terminal display, never for payloads.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return TruncateBytes(s, n)
	}
	return TruncateBytes(s, n-3) + "..."
}

// FormatBytes formats a byte count in a human-readable way (e.g. "1.5 KB").
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
