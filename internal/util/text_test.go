package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateBytesASCII(t *testing.T) {
	if got := TruncateBytes("hello", 10); got != "hello" {
		t.Errorf("unchanged string expected, got %q", got)
	}
	if got := TruncateBytes("hello", 3); got != "hel" {
		t.Errorf("expected %q, got %q", "hel", got)
	}
	if got := TruncateBytes("hello", 0); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestTruncateBytesMultibyte(t *testing.T) {
	s := "热点词汇" // 3 bytes per rune
	for n := 0; n <= len(s)+2; n++ {
		got := TruncateBytes(s, n)
		if len(got) > n {
			t.Fatalf("n=%d: result %d bytes exceeds bound", n, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("n=%d: result %q is not valid UTF-8", n, got)
		}
		if !strings.HasPrefix(s, got) {
			t.Fatalf("n=%d: result %q is not a prefix", n, got)
		}
	}
	if got := TruncateBytes(s, 4); got != "热" {
		t.Errorf("expected single rune, got %q", got)
	}
}

func TestTruncateBytesEmoji(t *testing.T) {
	s := "🔥🔥🔥" // 4 bytes per rune
	if got := TruncateBytes(s, 7); got != "🔥" {
		t.Errorf("expected one emoji, got %q", got)
	}
	if got := TruncateBytes(s, 3); got != "" {
		t.Errorf("bound below first rune should yield empty, got %q", got)
	}
}

func TestTruncateBytesInvalidInput(t *testing.T) {
	// Malformed input must not panic and must come back within bound.
	s := "ok" + string([]byte{0xff, 0xfe, 0xfd})
	got := TruncateBytes(s, 4)
	if len(got) > 4 {
		t.Fatalf("result exceeds bound: %d bytes", len(got))
	}
}

func TestTruncateBytesNegative(t *testing.T) {
	if got := TruncateBytes("abc", -5); got != "" {
		t.Errorf("negative bound should yield empty, got %q", got)
	}
}

func TestTruncateEllipsis(t *testing.T) {
	if got := Truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("expected %q, got %q", "abc...", got)
	}
	if got := Truncate("abc", 6); got != "abc" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := Truncate("abcdef", 2); got != "ab" {
		t.Errorf("expected %q, got %q", "ab", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, c := range cases {
		if got := FormatBytes(c.in); got != c.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
