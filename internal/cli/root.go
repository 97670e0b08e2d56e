package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/session"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
)

var (
	networkFlag string
	keypairFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mediamint",
	Short: "Upload media and mint Hedera NFTs",
	Long: console.StyleTitle.Render("mediamint") + " - media NFT minting\n\n" +
		"Uploads media files, assembles HIP-412 metadata and mints the NFT,\n" +
		"using the operator account configured in the environment or .env.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		console.New(os.Stderr).Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network override (mainnet, testnet, previewnet)")
	rootCmd.PersistentFlags().StringVarP(&keypairFlag, "keypair", "k", "", "key file override")

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// readOnlyNetwork selects the network for commands that need no operator account.
func readOnlyNetwork() (string, error) {
	if networkFlag != "" {
		return shared.NormalizeNetwork(networkFlag)
	}
	return shared.NetworkFromEnv()
}

func openSession() (*session.Session, error) {
	return session.Open(session.Options{
		KeypairPath: keypairFlag,
		Network:     networkFlag,
	})
}
