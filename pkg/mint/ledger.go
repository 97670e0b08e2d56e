package mint

import (
	"context"
	"fmt"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Submission identifies a transaction accepted by a node.
type Submission struct {
	TransactionID   hedera.TransactionID
	NodeID          hedera.AccountID
	TransactionHash []byte
}

// Confirmation is the consensus outcome of a submitted transaction.
type Confirmation struct {
	Status  hedera.Status
	TokenID *hedera.TokenID
	Serials []int64
	// TransactionHash is filled from the record when the record was fetched.
	TransactionHash []byte
}

// Ledger submits signed transactions and waits for their outcome.
type Ledger interface {
	SubmitMint(ctx context.Context, transaction *hedera.TokenMintTransaction, signers []hedera.PrivateKey) (Submission, error)
	SubmitCollection(ctx context.Context, transaction *hedera.TokenCreateTransaction, signers []hedera.PrivateKey) (Submission, error)
	Confirm(ctx context.Context, submission Submission, commitment Commitment) (Confirmation, error)
}

type hederaLedger struct {
	client *hedera.Client
}

// NewHederaLedger submits through client, whose operator pays for every transaction.
func NewHederaLedger(client *hedera.Client) Ledger {
	return &hederaLedger{client: client}
}

func (l *hederaLedger) SubmitMint(
	ctx context.Context,
	transaction *hedera.TokenMintTransaction,
	signers []hedera.PrivateKey,
) (Submission, error) {
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to freeze mint transaction: %w", err)
	}
	for _, signer := range signers {
		frozen = frozen.Sign(signer)
	}

	return shared.RunBlocking(ctx, func() (Submission, error) {
		response, executeErr := frozen.Execute(l.client)
		if executeErr != nil {
			return Submission{}, fmt.Errorf("failed to execute mint transaction: %w", executeErr)
		}
		return submissionFromResponse(response), nil
	})
}

func (l *hederaLedger) SubmitCollection(
	ctx context.Context,
	transaction *hedera.TokenCreateTransaction,
	signers []hedera.PrivateKey,
) (Submission, error) {
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to freeze token create transaction: %w", err)
	}
	for _, signer := range signers {
		frozen = frozen.Sign(signer)
	}

	return shared.RunBlocking(ctx, func() (Submission, error) {
		response, executeErr := frozen.Execute(l.client)
		if executeErr != nil {
			return Submission{}, fmt.Errorf("failed to execute token create transaction: %w", executeErr)
		}
		return submissionFromResponse(response), nil
	})
}

func (l *hederaLedger) Confirm(ctx context.Context, submission Submission, commitment Commitment) (Confirmation, error) {
	nodes := []hedera.AccountID{submission.NodeID}

	if commitment == CommitmentRecord {
		return shared.RunBlocking(ctx, func() (Confirmation, error) {
			record, err := hedera.NewTransactionRecordQuery().
				SetTransactionID(submission.TransactionID).
				SetNodeAccountIDs(nodes).
				Execute(l.client)
			if err != nil {
				return Confirmation{}, fmt.Errorf("failed to retrieve transaction record: %w", err)
			}
			return Confirmation{
				Status:          record.Receipt.Status,
				TokenID:         record.Receipt.TokenID,
				Serials:         record.Receipt.SerialNumbers,
				TransactionHash: record.TransactionHash,
			}, nil
		})
	}

	return shared.RunBlocking(ctx, func() (Confirmation, error) {
		receipt, err := hedera.NewTransactionReceiptQuery().
			SetTransactionID(submission.TransactionID).
			SetNodeAccountIDs(nodes).
			Execute(l.client)
		if err != nil {
			return Confirmation{}, fmt.Errorf("failed to retrieve transaction receipt: %w", err)
		}
		return Confirmation{
			Status:  receipt.Status,
			TokenID: receipt.TokenID,
			Serials: receipt.SerialNumbers,
		}, nil
	})
}

func submissionFromResponse(response hedera.TransactionResponse) Submission {
	return Submission{
		TransactionID:   response.TransactionID,
		NodeID:          response.NodeID,
		TransactionHash: response.Hash,
	}
}
