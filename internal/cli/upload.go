package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/pipeline"
)

var uploadDelay time.Duration

var uploadCmd = &cobra.Command{
	Use:   "upload <files...>",
	Short: "Upload files without minting",
	Long: `Upload each file to the configured storage backend and print its URI.

Missing files are skipped and a failed upload does not stop the others.
The command fails when any upload failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().DurationVar(&uploadDelay, "delay", time.Second, "pause between uploads")
}

func runUpload(cmd *cobra.Command, args []string) error {
	printer := console.New(cmd.OutOrStdout())

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	uploader, err := s.Uploader(cmd.Context())
	if err != nil {
		return err
	}

	printer.Title("Uploading files")
	runner := s.Runner(uploader, nil, nil)
	summary, err := runner.UploadOnly(cmd.Context(), args, pipeline.UploadOptions{Delay: uploadDelay})
	printUploadSummary(printer, summary)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		printer.Tips(console.TipsUpload)
		return fmt.Errorf("%d of %d uploads failed", summary.Failed, len(args))
	}
	return nil
}

func printUploadSummary(printer *console.Printer, summary pipeline.UploadSummary) {
	for _, result := range summary.Results {
		switch {
		case result.Skipped:
			printer.Warn("Skipped %s: %v", result.Path, result.Err)
		case result.Err != nil:
			printer.Error(result.Err)
		default:
			printer.Uploaded(result.Path, result.Asset.URI)
		}
	}
	printer.Info("%d uploaded, %d failed, %d skipped", summary.Uploaded, summary.Failed, summary.Skipped)
}
