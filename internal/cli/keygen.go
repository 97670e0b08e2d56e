package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/identity"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
)

var (
	keygenAccount   string
	keygenOverwrite bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ED25519 operator key file",
	Long: `Generate a new ED25519 key and write it as a JSON byte array.

The key file defaults to hedera-keypair.json in the working directory and is
never replaced unless --overwrite is given. Fund the account that owns the key
before uploading or minting.`,
	Args: cobra.NoArgs,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&keygenAccount, "account", "", "account ID that owns the key")
	keygenCmd.Flags().BoolVar(&keygenOverwrite, "overwrite", false, "replace an existing key file")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	printer := console.New(cmd.OutOrStdout())

	path := keypairFlag
	if path == "" {
		path = shared.DefaultKeypairPath
	}

	generated, err := identity.Generate(path, identity.GenerateOptions{
		AccountID: keygenAccount,
		Overwrite: keygenOverwrite,
	})
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	printer.Success("Key written to %s", path)
	printer.Field("Address", generated.Address())
	printer.Field("Public key", generated.PublicKey().StringRaw())
	printer.Info("Keep this file secret and fund the account before minting")
	return nil
}
