package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/manifest"
)

var (
	initManifest string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter mint manifest",
	Long: `Write a starter YAML mint manifest describing a single image NFT.

Edit the asset paths, name and attributes, then run "mediamint mint".`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initManifest, "manifest", "m", "nft.yaml", "manifest path")
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	printer := console.New(cmd.OutOrStdout())

	if _, err := os.Stat(initManifest); err == nil && !initForce {
		printer.Warn("Manifest already exists: %s", initManifest)
		return nil
	}

	if err := manifest.DefaultManifest().Save(initManifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	printer.Success("Manifest written to %s", initManifest)
	return nil
}
