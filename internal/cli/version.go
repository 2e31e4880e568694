package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/trendwire/internal/version"
)

var versionCheck bool

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the trendwire version",
		RunE:  runVersion,
	}
	cmd.Flags().BoolVar(&versionCheck, "check", false, "also check for a newer release")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	f := formatter()
	f.Textln("trendwire %s", version.Current)

	if !versionCheck {
		return nil
	}
	remote, err := version.Fetch(cmd.Context(), cfg.Version.URL)
	if err != nil {
		return err
	}
	newer, err := version.Compare(version.Current, remote)
	if err != nil {
		return err
	}
	if newer {
		f.Warning("new version %s available", remote)
	} else {
		f.Success("up to date (latest is %s)", remote)
	}
	return nil
}
