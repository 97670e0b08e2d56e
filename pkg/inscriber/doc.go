// Package inscriber is a client for the Kiloscribe inscription service, which writes
// files to Hedera consensus topics as HCS-1 inscriptions.
//
// An upload authenticates the holder account with a signed challenge, starts a file
// inscription, pays for it by executing the returned transaction, and then waits for
// the service to report the topic the file landed on:
//
//	auth := inscriber.NewAuthClient("", nil)
//	key, err := auth.Authenticate(ctx, accountID, identity, inscriber.NetworkTestnet)
//
//	client, err := inscriber.NewClient(inscriber.Config{
//		APIKey:  key.APIKey,
//		Network: inscriber.NetworkTestnet,
//	})
//	result, err := client.InscribeAndExecute(ctx, request, payer, &inscriber.WaitOptions{})
//	uri := result.HRL() // hcs://1/<topic>
package inscriber
