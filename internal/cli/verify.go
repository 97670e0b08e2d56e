package cli

import (
	"github.com/spf13/cobra"

	"github.com/hashgraph-online/media-mint-go/pkg/console"
	"github.com/hashgraph-online/media-mint-go/pkg/mirror"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <uri> <file>",
	Short: "Check that uploaded content matches a local file",
	Long: `Fetch the content behind an hcs:// or http(s) URI and compare its SHA-256
digest with the local file.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	printer := console.New(cmd.OutOrStdout())
	uri, path := args[0], args[1]

	local, err := storage.ReadFile(path, "", "")
	if err != nil {
		return err
	}

	network, err := readOnlyNetwork()
	if err != nil {
		return err
	}
	mirrorClient, err := mirror.NewClient(mirror.Config{Network: network})
	if err != nil {
		return err
	}

	if err := storage.Verify(cmd.Context(), storage.NewResolver(mirrorClient, nil), uri, local.Data); err != nil {
		return err
	}
	printer.Success("%s matches %s", uri, path)
	printer.Field("SHA-256", storage.Digest(local.Data))
	return nil
}
