// Package batch packs assembled report fragments into byte-bounded batches
// and injects per-batch sequence headers.
//
// The partitioner is a single-pass test-then-commit greedy packer: every
// candidate appendage is size-tested together with the footer before it is
// committed, and a unit that cannot fit flushes the current batch and
// re-seeds a new one with the section's re-entry prefix. A keyword's banner
// and its first title line form an atomic unit that is never split across
// batches; the same holds for a source's banner in the new-titles section.
package batch

import (
	"github.com/Dicklesworthstone/trendwire/internal/dialect"
	"github.com/Dicklesworthstone/trendwire/internal/report"
	"github.com/Dicklesworthstone/trendwire/internal/util"
)

// DefaultMaxBytes applies when Config.MaxBytes is unset.
const DefaultMaxBytes = 4000

// Config carries the immutable per-invocation inputs of a partitioning run.
type Config struct {
	Assembler dialect.Assembler
	Formatter dialect.TitleFormatter // nil selects dialect.FormatTitle
	MaxBytes  int

	// ReverseSections places the new-titles section before the stats
	// section. Failed sources always come last.
	ReverseSections bool

	Mode      report.Mode
	Timestamp string
	Update    *dialect.UpdateNotice
}

// Partition splits r into ordered, un-prefixed batch strings. The footer is
// already appended to every emitted batch; sequence headers are not (see
// InjectHeaders). Identical inputs always yield byte-identical output.
//
// A single atomic unit larger than the whole budget is emitted oversize
// rather than truncated or dropped.
func Partition(r *report.Report, cfg Config) []string {
	asm := cfg.Assembler
	formatTitle := cfg.Formatter
	if formatTitle == nil {
		formatTitle = dialect.FormatTitle
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	p := &partitioner{
		asm:         asm,
		formatTitle: formatTitle,
		maxBytes:    maxBytes,
		baseHeader:  asm.BaseHeader(r.TotalTitles(), cfg.Timestamp),
		footer:      asm.BaseFooter(cfg.Timestamp, cfg.Update),
	}
	p.cur = p.baseHeader

	if r.Empty() {
		return []string{p.baseHeader + asm.Sentinel(cfg.Mode) + p.footer}
	}

	if cfg.ReverseSections {
		p.newTitlesSection(r)
		p.statsSection(r)
	} else {
		p.statsSection(r)
		p.newTitlesSection(r)
	}
	p.failedSection(r)

	if p.hasContent {
		p.flush()
	}
	return p.batches
}

type partitioner struct {
	asm         dialect.Assembler
	formatTitle dialect.TitleFormatter
	maxBytes    int

	baseHeader string
	footer     string

	batches    []string
	cur        string
	hasContent bool
}

// overflows reports whether committing unit would reach the budget. The
// footer is counted in every test so it can always be physically appended.
func (p *partitioner) overflows(unit string) bool {
	return util.EncodedSize(p.cur)+util.EncodedSize(unit)+util.EncodedSize(p.footer) >= p.maxBytes
}

// flush emits the current batch with its footer. Callers guard on
// hasContent so a bare base header is never emitted on its own.
func (p *partitioner) flush() {
	p.batches = append(p.batches, p.cur+p.footer)
}

// commit appends unit to the current batch, flushing and re-seeding with
// reentry when the unit does not fit. The unit itself is committed whole
// either way; an oversize unit simply produces an oversize batch.
func (p *partitioner) commit(unit, reentry string) {
	if p.overflows(unit) {
		if p.hasContent {
			p.flush()
		}
		p.cur = reentry + unit
	} else {
		p.cur += unit
	}
	p.hasContent = true
}

func (p *partitioner) statsSection(r *report.Report) {
	if len(r.Stats) == 0 {
		return
	}
	d := p.asm.Dialect()
	banner := p.asm.StatsBanner()
	p.commit(banner, p.baseHeader)

	total := len(r.Stats)
	for i, stat := range r.Stats {
		wordBanner := p.asm.WordBanner(i, total, stat.Word, stat.Count)

		var first string
		if len(stat.Titles) > 0 {
			first = dialect.TitleLine(1, p.formatTitle(d, stat.Titles[0], true))
			if len(stat.Titles) > 1 {
				first += "\n"
			}
		}

		// Word banner plus first title line is atomic.
		p.commit(wordBanner+first, p.baseHeader+banner)

		for j := 1; j < len(stat.Titles); j++ {
			line := dialect.TitleLine(j+1, p.formatTitle(d, stat.Titles[j], true))
			if j < len(stat.Titles)-1 {
				line += "\n"
			}
			// On overflow the word banner is repeated, the section
			// banner is not re-rendered beyond the re-entry prefix.
			p.commit(line, p.baseHeader+banner+wordBanner)
		}

		if i < total-1 {
			// Separator is opportunistic: dropped when it would
			// overflow, never the cause of a new batch.
			if sep := p.asm.StatsSeparator(); !p.overflows(sep) {
				p.cur += sep
			}
		}
	}
}

func (p *partitioner) newTitlesSection(r *report.Report) {
	if len(r.NewTitles) == 0 {
		return
	}
	d := p.asm.Dialect()
	banner := p.asm.NewTitlesBanner(r.TotalNewCount)
	p.commit(banner, p.baseHeader)

	for _, src := range r.NewTitles {
		srcBanner := p.asm.SourceBanner(src.SourceName, len(src.Titles))

		var first string
		if len(src.Titles) > 0 {
			entry := src.Titles[0]
			entry.IsNew = false // every entry in this section is new
			first = dialect.TitleLine(1, p.formatTitle(d, entry, false))
		}

		p.commit(srcBanner+first, p.baseHeader+banner)

		for j := 1; j < len(src.Titles); j++ {
			entry := src.Titles[j]
			entry.IsNew = false
			line := dialect.TitleLine(j+1, p.formatTitle(d, entry, false))
			p.commit(line, p.baseHeader+banner+srcBanner)
		}

		// Unconditional group separator, no overflow guard. Asymmetric
		// with the stats section; preserved deliberately.
		p.cur += "\n"
	}
}

func (p *partitioner) failedSection(r *report.Report) {
	if len(r.FailedIDs) == 0 {
		return
	}
	banner := p.asm.FailBanner()
	p.commit(banner, p.baseHeader)

	for _, id := range r.FailedIDs {
		line := p.asm.FailedLine(id)
		p.commit(line, p.baseHeader+banner)
	}
}
