package dialect

import (
	"fmt"

	"github.com/Dicklesworthstone/trendwire/internal/report"
	"github.com/Dicklesworthstone/trendwire/internal/util"
)

// UpdateNotice describes an available version upgrade for the footer.
type UpdateNotice struct {
	Remote  string
	Current string
}

// Assembler renders every fragment of a report for one dialect.
// All methods are pure; byte length of every fragment is deterministic,
// which the partitioner's size arithmetic depends on.
type Assembler struct {
	dialect Dialect
	tpl     templates
}

// NewAssembler builds an Assembler for d. Unknown dialects get an empty
// template record: content still renders, just without banners.
func NewAssembler(d Dialect, opts Options) Assembler {
	return Assembler{dialect: d, tpl: templatesFor(d, opts.SectionSeparator)}
}

// Dialect returns the dialect this assembler renders for.
func (a Assembler) Dialect() Dialect { return a.dialect }

// BatchHeader renders the "[Batch i/total]" marker prefixed to each batch
// when a report spans more than one.
func (a Assembler) BatchHeader(index, total int) string {
	if a.tpl.batchHeader == "" {
		return fmt.Sprintf("[Batch %d/%d]\n\n", index, total)
	}
	return fmt.Sprintf(a.tpl.batchHeader, index, total)
}

// MaxBatchHeaderSize is the worst-case encoded size of a batch header,
// assuming two-digit numbering (99/99). Reserved from the budget before
// partitioning so headers can be injected afterwards without overflow.
func (a Assembler) MaxBatchHeaderSize() int {
	return util.EncodedSize(a.BatchHeader(99, 99))
}

// BaseHeader renders the aggregate header placed at the top of every batch.
func (a Assembler) BaseHeader(totalTitles int, timestamp string) string {
	if a.tpl.baseHeader == "" {
		return ""
	}
	s := fmt.Sprintf(a.tpl.baseHeader, totalTitles)
	if a.tpl.baseHeaderExtra != "" {
		s += fmt.Sprintf(a.tpl.baseHeaderExtra, timestamp)
	}
	return s
}

// BaseFooter renders the footer appended to every batch, with an optional
// version-update notice.
func (a Assembler) BaseFooter(timestamp string, upd *UpdateNotice) string {
	if a.tpl.baseFooter == "" {
		return ""
	}
	s := fmt.Sprintf(a.tpl.baseFooter, timestamp)
	if upd != nil && a.tpl.updateNotice != "" {
		s += fmt.Sprintf(a.tpl.updateNotice, upd.Remote, upd.Current)
	}
	return s
}

// StatsBanner renders the trending-keywords section banner.
func (a Assembler) StatsBanner() string { return a.tpl.statsBanner }

// NewTitlesBanner renders the newly-surfaced-titles section banner.
func (a Assembler) NewTitlesBanner(totalNew int) string {
	if a.tpl.newTitlesBanner == "" {
		return ""
	}
	return fmt.Sprintf(a.tpl.newTitlesBanner, totalNew)
}

// FailBanner renders the failed-sources section banner.
func (a Assembler) FailBanner() string { return a.tpl.failBanner }

// WordBanner renders one keyword's heading, choosing the emoji tier from
// its match count. index is zero-based; the rendered sequence is 1-based.
func (a Assembler) WordBanner(index, total int, word string, count int) string {
	seq := fmt.Sprintf("[%d/%d]", index+1, total)
	switch {
	case a.tpl.wordHot == "":
		return ""
	case count >= HotThreshold:
		return fmt.Sprintf(a.tpl.wordHot, seq, word, count)
	case count >= RisingThreshold:
		return fmt.Sprintf(a.tpl.wordRising, seq, word, count)
	default:
		return fmt.Sprintf(a.tpl.wordMarker, seq, word, count)
	}
}

// SourceBanner renders one source's heading in the new-titles section.
func (a Assembler) SourceBanner(name string, titleCount int) string {
	if a.tpl.sourceBanner == "" {
		return ""
	}
	return fmt.Sprintf(a.tpl.sourceBanner, name, titleCount)
}

// FailedLine renders one failed source id.
func (a Assembler) FailedLine(id string) string {
	if a.tpl.failedLine == "" {
		return fmt.Sprintf("  • %s\n", id)
	}
	return fmt.Sprintf(a.tpl.failedLine, id)
}

// StatsSeparator is the literal placed between consecutive word groups.
// It is appended opportunistically: dropped, never carried into a new batch.
func (a Assembler) StatsSeparator() string { return a.tpl.statsSep }

// Sentinel renders the single-batch fallback body for an empty report.
func (a Assembler) Sentinel(mode report.Mode) string {
	var text string
	switch mode {
	case report.ModeIncremental:
		text = "no newly matched trending topics in incremental mode"
	case report.ModeCurrent:
		text = "no matching topics on the current board"
	default:
		text = "no matching trending topics yet"
	}
	return fmt.Sprintf("📭 %s\n\n", text)
}

// TitleLine renders a numbered title line. n is the 1-based position within
// the word or source group.
func TitleLine(n int, formatted string) string {
	return fmt.Sprintf("  %d. %s\n", n, formatted)
}
