// Package version checks a remote version manifest and produces the
// update notice rendered into report footers.
package version

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// Current is the build version, overridable at link time.
var Current = "1.0.0"

// DefaultCheckURL serves a single line holding the latest release version.
const DefaultCheckURL = "https://raw.githubusercontent.com/Dicklesworthstone/trendwire/main/VERSION"

const fetchTimeout = 10 * time.Second

// Compare reports whether remote is a newer release than current.
func Compare(current, remote string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimSpace(strings.TrimPrefix(current, "v")))
	if err != nil {
		return false, fmt.Errorf("current version %q: %w", current, err)
	}
	rem, err := semver.NewVersion(strings.TrimSpace(strings.TrimPrefix(remote, "v")))
	if err != nil {
		return false, fmt.Errorf("remote version %q: %w", remote, err)
	}
	return rem.GreaterThan(cur), nil
}

// Fetch retrieves the latest published version from url.
func Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		url = DefaultCheckURL
	}
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("version check returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(body))
	if v == "" {
		return "", fmt.Errorf("version check returned empty body")
	}
	return v, nil
}

// CheckForUpdate fetches the remote version and returns an update notice
// when a newer release exists. Failures are logged and swallowed; an
// unreachable version check never blocks delivery.
func CheckForUpdate(ctx context.Context, url, current string) *dialect.UpdateNotice {
	if current == "" {
		current = Current
	}
	remote, err := Fetch(ctx, url)
	if err != nil {
		slog.Warn("version check failed", "error", err)
		return nil
	}
	newer, err := Compare(current, remote)
	if err != nil {
		slog.Warn("version comparison failed", "error", err)
		return nil
	}
	if !newer {
		return nil
	}
	return &dialect.UpdateNotice{Remote: remote, Current: current}
}
