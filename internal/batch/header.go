package batch

import (
	"log/slog"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
	"github.com/Dicklesworthstone/trendwire/internal/report"
	"github.com/Dicklesworthstone/trendwire/internal/util"
)

// InjectHeaders prefixes every batch with a dialect-specific "[Batch i/total]"
// marker. Lists of length 0 or 1 come back unmodified.
//
// Callers reserve Assembler.MaxBatchHeaderSize from the budget before
// partitioning, so the prefixed result normally fits inside trueMaxBytes.
// Only when the batch count exceeds the two-digit reserve assumption can a
// prefixed batch overflow; in that case the content (never the header) is
// truncated to the remaining allowance and a warning is logged. This is the
// single data-lossy path in the pipeline.
func InjectHeaders(batches []string, asm dialect.Assembler, trueMaxBytes int) []string {
	if len(batches) <= 1 {
		return batches
	}

	total := len(batches)
	out := make([]string, 0, total)
	for i, content := range batches {
		header := asm.BatchHeader(i+1, total)
		allowed := trueMaxBytes - util.EncodedSize(header)

		if size := util.EncodedSize(content); size > allowed {
			slog.Warn("batch overflows limit after header injection, truncating content",
				"dialect", asm.Dialect(),
				"batch", i+1,
				"total", total,
				"content_bytes", size,
				"header_bytes", util.EncodedSize(header),
				"max_bytes", trueMaxBytes)
			content = util.TruncateBytes(content, allowed)
		}

		out = append(out, header+content)
	}
	return out
}

// Plan runs Partition with the batch-header reserve subtracted and then
// injects headers against the true byte limit. headerAsm renders the batch
// headers, which can differ from the content assembler (WeWork text mode
// uses plain-text headers over markdown-partitioned content).
func Plan(r *report.Report, contentAsm, headerAsm dialect.Assembler, trueMaxBytes int, cfg Config) []string {
	if trueMaxBytes <= 0 {
		trueMaxBytes = DefaultMaxBytes
	}
	cfg.Assembler = contentAsm
	cfg.MaxBytes = trueMaxBytes - headerAsm.MaxBatchHeaderSize()
	batches := Partition(r, cfg)
	return InjectHeaders(batches, headerAsm, trueMaxBytes)
}
