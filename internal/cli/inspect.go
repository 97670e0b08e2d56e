package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/inspect"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/mirror"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
)

var inspectContent bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <serial@tokenID>",
	Short: "Show a minted NFT and its metadata",
	Long: `Look up a minted NFT on the mirror node, fetch the metadata document its
URI points at and print it.

With --content every file the metadata references is fetched as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectContent, "content", false, "fetch every referenced file")
}

func runInspect(cmd *cobra.Command, args []string) error {
	printer := console.New(cmd.OutOrStdout())

	network, err := readOnlyNetwork()
	if err != nil {
		return err
	}
	mirrorClient, err := mirror.NewClient(mirror.Config{Network: network})
	if err != nil {
		return err
	}

	inspector := &inspect.Inspector{
		NFTs:    mirrorClient,
		Content: storage.NewResolver(mirrorClient, nil),
	}
	report, err := inspector.Inspect(cmd.Context(), args[0], inspect.Options{CheckContent: inspectContent})
	if err != nil {
		return err
	}

	printer.Title(report.Metadata.Name)
	printer.Field("Asset", report.AssetAddress)
	printer.Field("Collection", fmt.Sprintf("%s (%s)", report.Collection.Name, report.Collection.Symbol))
	printer.Field("Owner", report.Owner)
	printer.Field("Metadata", report.MetadataURI)
	printer.Field("Image", report.Metadata.Image)
	if report.Metadata.AnimationURL != "" {
		printer.Field("Animation", report.Metadata.AnimationURL)
	}
	if report.Metadata.ExternalURL != "" {
		printer.Field("External", report.Metadata.ExternalURL)
	}
	if url, err := mint.ExplorerTokenURL(network, report.TokenID, report.Serial); err == nil {
		printer.Field("Explorer", url)
	}
	if report.Deleted {
		printer.Warn("This NFT has been burned")
	}

	for _, check := range report.Content {
		if check.Err != nil {
			printer.Warn("%s unreachable: %v", check.URI, check.Err)
			continue
		}
		printer.Success("%s (%d bytes, sha256 %s)", check.URI, check.Size, check.SHA256)
	}
	if !report.Reachable() {
		return fmt.Errorf("some referenced content could not be fetched")
	}
	return nil
}
