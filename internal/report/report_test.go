package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeDaily {
		t.Errorf("empty mode should default to daily, got %v %v", m, err)
	}
	if m, err := ParseMode("incremental"); err != nil || m != ModeIncremental {
		t.Errorf("unexpected result: %v %v", m, err)
	}
	if _, err := ParseMode("hourly"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestEmpty(t *testing.T) {
	var r Report
	if !r.Empty() {
		t.Error("zero report should be empty")
	}
	r.FailedIDs = []string{"zhihu"}
	if r.Empty() {
		t.Error("report with failures is not empty")
	}
}

func TestTotalTitles(t *testing.T) {
	r := Report{
		Stats: []WordStat{
			{Word: "a", Count: 2, Titles: []TitleEntry{{Title: "x"}, {Title: "y"}}},
			{Word: "b", Count: 0, Titles: []TitleEntry{{Title: "ignored"}}},
			{Word: "c", Count: 1, Titles: []TitleEntry{{Title: "z"}}},
		},
	}
	if got := r.TotalTitles(); got != 3 {
		t.Errorf("TotalTitles = %d, want 3", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	content := `{
		"stats": [{"word": "ai", "count": 3, "titles": [{"title": "t1", "is_new": true}]}],
		"new_titles": [{"source_name": "weibo", "titles": [{"title": "t2"}]}],
		"failed_ids": ["toutiao"],
		"total_new_count": 1
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(r.Stats) != 1 || r.Stats[0].Word != "ai" {
		t.Errorf("unexpected stats: %+v", r.Stats)
	}
	if !r.Stats[0].Titles[0].IsNew {
		t.Error("is_new flag lost")
	}
	if r.TotalNewCount != 1 {
		t.Errorf("total_new_count = %d", r.TotalNewCount)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
