package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseAccounts splits a semicolon-separated multi-account value. Each
// segment is trimmed but empty segments are preserved so that values from
// paired fields keep their positions. A blank input yields nil.
func ParseAccounts(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, len(parts))
	allEmpty := true
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
		if out[i] != "" {
			allEmpty = false
		}
	}
	if allEmpty {
		return nil
	}
	return out
}

// Field is one named column of a paired multi-account configuration.
type Field struct {
	Name   string
	Values []string
}

// ValidatePaired checks that paired multi-account fields line up: equal
// counts, and at every position either both values present or both blank.
func ValidatePaired(channel string, a, b Field) error {
	if len(a.Values) == 0 && len(b.Values) == 0 {
		return nil
	}
	if len(a.Values) != len(b.Values) {
		return fmt.Errorf("%s: %s has %d account(s) but %s has %d; counts must match",
			channel, a.Name, len(a.Values), b.Name, len(b.Values))
	}
	for i := range a.Values {
		if (a.Values[i] == "") != (b.Values[i] == "") {
			return fmt.Errorf("%s: account %d has %s without %s",
				channel, i+1, presentName(a, b, i), absentName(a, b, i))
		}
	}
	return nil
}

func presentName(a, b Field, i int) string {
	if a.Values[i] != "" {
		return a.Name
	}
	return b.Name
}

func absentName(a, b Field, i int) string {
	if a.Values[i] == "" {
		return a.Name
	}
	return b.Name
}

// LimitAccounts caps a channel's account list at max, logging a warning
// when accounts are dropped.
func LimitAccounts(channel string, values []string, max int) []string {
	if max < 1 || len(values) <= max {
		return values
	}
	slog.Warn("too many accounts for channel, extra accounts ignored",
		"channel", channel,
		"configured", len(values),
		"limit", max)
	return values[:max]
}

// AccountAt returns the i-th value of a paired field, or "" when the
// field has a single shared value or no value at that position.
func AccountAt(values []string, i int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		return values[0]
	}
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}
