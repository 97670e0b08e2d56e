package inscriber

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Seams over the SDK calls that block on the network.
var (
	newPaymentClient  = shared.NewHederaClient
	submitTransaction = hedera.TransactionExecute
	fetchReceipt      = func(response hedera.TransactionResponse, client *hedera.Client) (hedera.TransactionReceipt, error) {
		return response.GetReceipt(client)
	}
)

// ExecuteTransaction decodes the inscription payment transaction, signs it as the payer
// and submits it, returning the transaction ID once the receipt reports SUCCESS.
//
// The operator client signs automatically first. Some services freeze the transaction
// for a node set the operator client does not pick, in which case an explicit signature
// is attached before retrying.
func ExecuteTransaction(ctx context.Context, transactionBytes string, payer Payer) (string, error) {
	network, err := shared.NormalizeNetwork(payer.Network)
	if err != nil {
		return "", err
	}

	rawBytes, err := base64.StdEncoding.DecodeString(transactionBytes)
	if err != nil {
		return "", fmt.Errorf("transaction bytes must be base64: %w", err)
	}

	type executeAttempt struct {
		manualSign bool
		label      string
	}
	attempts := []executeAttempt{
		{manualSign: false, label: "operator-auto-sign"},
		{manualSign: true, label: "operator-manual-sign"},
	}

	var invalidSignatureErrors []string
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		client, clientErr := newPaymentClient(network)
		if clientErr != nil {
			return "", clientErr
		}
		client.SetOperator(payer.AccountID, payer.PrivateKey)

		transaction, decodeErr := hedera.TransactionFromBytes(rawBytes)
		if decodeErr != nil {
			return "", fmt.Errorf("failed to decode transaction bytes: %w", decodeErr)
		}

		executable := transaction
		if attempt.manualSign {
			signed, signErr := hedera.TransactionSign(transaction, payer.PrivateKey)
			if signErr != nil {
				return "", fmt.Errorf("failed to sign transaction during %s: %w", attempt.label, signErr)
			}
			executable = signed
		}

		response, executeErr := shared.RunBlocking(ctx, func() (hedera.TransactionResponse, error) {
			return submitTransaction(executable, client)
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if executeErr != nil {
			if strings.Contains(strings.ToUpper(executeErr.Error()), "INVALID_SIGNATURE") {
				invalidSignatureErrors = append(invalidSignatureErrors, fmt.Sprintf("%s=%v", attempt.label, executeErr))
				continue
			}
			return "", fmt.Errorf("failed to execute transaction via %s: %w", attempt.label, executeErr)
		}

		receipt, receiptErr := shared.RunBlocking(ctx, func() (hedera.TransactionReceipt, error) {
			return fetchReceipt(response, client)
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if receiptErr != nil {
			return "", fmt.Errorf("failed to get transaction receipt via %s: %w", attempt.label, receiptErr)
		}
		if receipt.Status != hedera.StatusSuccess {
			return "", fmt.Errorf("transaction via %s failed with status %s", attempt.label, receipt.Status.String())
		}

		return response.TransactionID.String(), nil
	}

	return "", fmt.Errorf("all execution strategies failed with INVALID_SIGNATURE: %s", strings.Join(invalidSignatureErrors, "; "))
}
