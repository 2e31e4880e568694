package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/trendwire/internal/batch"
	"github.com/Dicklesworthstone/trendwire/internal/dialect"
	"github.com/Dicklesworthstone/trendwire/internal/output"
	"github.com/Dicklesworthstone/trendwire/internal/tui/preview"
)

var (
	previewChannel string
	previewTUI     bool
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Partition a report without sending anything",
		Long: `Preview renders a report exactly as one channel would receive it,
including batch splitting and sequence headers, but sends nothing.`,
		RunE: runPreview,
	}
	cmd.Flags().StringVar(&sendReportPath, "report", "", "report JSON file (defaults to report.path from config)")
	cmd.Flags().StringVar(&sendMode, "mode", "", "report mode: daily, incremental, or current")
	cmd.Flags().StringVar(&previewChannel, "channel", "telegram", "channel dialect to render (feishu, dingtalk, wework, wework-text, telegram, ntfy, bark, slack)")
	cmd.Flags().BoolVar(&previewTUI, "tui", false, "page through batches interactively")
	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	r, mode, err := loadReport()
	if err != nil {
		return err
	}

	d := dialect.Dialect(previewChannel)
	opts := dialect.Options{}
	if d == dialect.Feishu {
		opts.SectionSeparator = cfg.Notification.FeishuSeparator
	}
	asm := dialect.NewAssembler(d, opts)

	batches := batch.Plan(r, asm, asm, cfg.Notification.BatchSize(d), batch.Config{
		ReverseSections: cfg.Notification.ReverseOrder,
		Mode:            mode,
		Timestamp:       time.Now().Format("2006-01-02 15:04:05"),
	})

	if previewTUI {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("--tui requires a terminal")
		}
		return preview.Run(previewChannel, batches)
	}

	if jsonOutput {
		type row struct {
			Batch int    `json:"batch"`
			Bytes int    `json:"bytes"`
			Body  string `json:"body"`
		}
		rows := make([]row, len(batches))
		for i, b := range batches {
			rows[i] = row{Batch: i + 1, Bytes: len(b), Body: b}
		}
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	f := formatter()
	f.Textln("%s: %s (budget %d bytes)", previewChannel,
		output.CountStr(len(batches), "batch", "batches"),
		cfg.Notification.BatchSize(d))
	for i, b := range batches {
		f.Line()
		f.Dim("--- batch %d/%d (%d bytes) ---", i+1, len(batches), len(b))
		f.Text("%s\n", b)
	}
	return nil
}
