package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/manifest"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/pipeline"
	"github.com/hashgraph-online/media-mint-go/pkg/session"
)

var (
	mintManifest       string
	mintTokenID        string
	mintCommitment     string
	mintConfirmTimeout time.Duration
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Upload the manifest assets and mint one NFT",
	Long: `Upload every asset in the manifest, upload the assembled HIP-412 metadata
and mint one NFT whose metadata points at it.

Without a token ID a new collection is created first and its ID printed.`,
	Args: cobra.NoArgs,
	RunE: runMint,
}

func init() {
	mintCmd.Flags().StringVarP(&mintManifest, "manifest", "m", "nft.yaml", "manifest path")
	mintCmd.Flags().StringVar(&mintTokenID, "token", "", "collection token ID override")
	mintCmd.Flags().StringVar(&mintCommitment, "commitment", "", "receipt or record")
	mintCmd.Flags().DurationVar(&mintConfirmTimeout, "confirm-timeout", 0, "confirmation timeout override")
}

func runMint(cmd *cobra.Command, args []string) error {
	printer := console.New(cmd.OutOrStdout())

	m, err := manifest.Load(mintManifest)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	commitment := m.Commitment()
	if mintCommitment != "" {
		if commitment, err = mint.ParseCommitment(mintCommitment); err != nil {
			return err
		}
	}
	tokenID := m.Mint.TokenID
	if mintTokenID != "" {
		tokenID = mintTokenID
	}
	confirmTimeout := m.Mint.ConfirmTimeout
	if mintConfirmTimeout > 0 {
		confirmTimeout = mintConfirmTimeout
	}

	uploader, err := s.Uploader(cmd.Context())
	if err != nil {
		return err
	}
	minter, err := s.Minter(session.MintOverrides{
		TokenID:        tokenID,
		Commitment:     commitment,
		ConfirmTimeout: confirmTimeout,
	})
	if err != nil {
		return err
	}

	printer.Title("Minting " + m.Name)
	runner := s.Runner(uploader, minter, printer.Progress)
	runner.Parallel = m.Parallel

	outcome, err := runner.Run(cmd.Context(), m.Plan())
	if err != nil {
		printer.Tips(console.TipsMint)
		return err
	}
	printMintOutcome(printer, s.Network, outcome)
	return nil
}

func printMintOutcome(printer *console.Printer, network string, outcome pipeline.Outcome) {
	for _, asset := range outcome.Assets {
		printer.Uploaded(asset.Name, asset.URI)
	}
	printer.Uploaded(outcome.MetadataAsset.Name, outcome.MetadataAsset.URI)

	result := outcome.Mint
	printer.Success("NFT minted")
	printer.Field("Asset", result.AssetAddress)
	printer.Field("Transaction", result.TransactionID)
	if result.CollectionCreated {
		printer.Field("Collection", result.TokenID)
	}
	if url, err := mint.ExplorerTokenURL(network, result.TokenID, result.Serial); err == nil {
		printer.Field("Explorer", url)
	}
}
