package cli

import (
	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
)

// Version information, set at build time with ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Aliases: []string{"v"},
	Run:     runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	printer := console.New(cmd.OutOrStdout())
	printer.Title("mediamint")
	printer.Field("Version", Version)
	printer.Field("Commit", GitCommit)
}
