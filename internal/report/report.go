// Package report defines the data model for a trend analysis report.
//
// A Report is produced once per cycle by the aggregation side (crawler,
// word statistics, dedup) and is read-only to everything in this module.
package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mode selects which aggregation produced the report. It only affects the
// sentinel message emitted when the report is empty.
type Mode string

const (
	ModeDaily       Mode = "daily"       // Full-day summary
	ModeIncremental Mode = "incremental" // Only titles new since last run
	ModeCurrent     Mode = "current"     // Current board snapshot
)

// ParseMode validates a mode string, defaulting to ModeDaily for "".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeDaily, nil
	case ModeDaily, ModeIncremental, ModeCurrent:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown report mode %q", s)
	}
}

// TitleEntry is a single crawled title. It is opaque to the partitioner;
// only the injected title formatter interprets it.
type TitleEntry struct {
	Title      string `json:"title"`
	SourceName string `json:"source_name,omitempty"`
	URL        string `json:"url,omitempty"`
	MobileURL  string `json:"mobile_url,omitempty"`
	Ranks      []int  `json:"ranks,omitempty"`
	TimeLabel  string `json:"time_label,omitempty"`
	IsNew      bool   `json:"is_new,omitempty"`
}

// WordStat aggregates the titles matched by one keyword.
type WordStat struct {
	Word   string       `json:"word"`
	Count  int          `json:"count"`
	Titles []TitleEntry `json:"titles"`
}

// SourceGroup holds the newly surfaced titles of a single source.
type SourceGroup struct {
	SourceName string       `json:"source_name"`
	Titles     []TitleEntry `json:"titles"`
}

// Report is the fully aggregated input to partitioning and delivery.
// Ordering of all slices is significant and preserved end to end.
type Report struct {
	Stats         []WordStat    `json:"stats"`
	NewTitles     []SourceGroup `json:"new_titles"`
	FailedIDs     []string      `json:"failed_ids"`
	TotalNewCount int           `json:"total_new_count"`
}

// Empty reports have no stats, no new titles and no failures; they produce
// a single sentinel batch instead of the normal sections.
func (r *Report) Empty() bool {
	return len(r.Stats) == 0 && len(r.NewTitles) == 0 && len(r.FailedIDs) == 0
}

// TotalTitles counts every title attached to a matched keyword, mirroring
// the header figure of the rendered report.
func (r *Report) TotalTitles() int {
	total := 0
	for _, stat := range r.Stats {
		if stat.Count > 0 {
			total += len(stat.Titles)
		}
	}
	return total
}

// Load reads a Report from a JSON file written by the aggregation side.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}
