package mint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/identity"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
)

type Client struct {
	ledger         Ledger
	identity       *identity.Identity
	payer          hedera.AccountID
	network        string
	tokenID        string
	supplyKey      *hedera.PrivateKey
	commitment     Commitment
	confirmTimeout time.Duration
	validityWindow time.Duration
	clock          func() time.Time
	logger         *zap.Logger
}

func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}
	if config.Identity == nil {
		return nil, fmt.Errorf("identity is required")
	}
	payer, ok := config.Identity.AccountID()
	if !ok {
		return nil, fmt.Errorf("minting requires an operator account ID to pay from")
	}

	tokenID := strings.TrimSpace(config.TokenID)
	if tokenID != "" {
		if _, parseErr := hedera.TokenIDFromString(tokenID); parseErr != nil {
			return nil, fmt.Errorf("invalid token ID: %w", parseErr)
		}
	}

	var supplyKey *hedera.PrivateKey
	if strings.TrimSpace(config.SupplyKey) != "" {
		parsed, parseErr := shared.ParsePrivateKey(config.SupplyKey)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid supply key: %w", parseErr)
		}
		if parsed.PublicKey().String() != config.Identity.PublicKey().String() {
			supplyKey = &parsed
		}
	}

	commitment := config.Commitment
	if commitment == "" {
		commitment = CommitmentReceipt
	}
	if _, parseErr := ParseCommitment(string(commitment)); parseErr != nil {
		return nil, parseErr
	}

	confirmTimeout := config.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	ledger := config.Ledger
	if ledger == nil {
		hederaClient, clientErr := shared.NewHederaClient(network)
		if clientErr != nil {
			return nil, clientErr
		}
		hederaClient.SetOperator(payer, config.Identity.PrivateKey())
		ledger = NewHederaLedger(hederaClient)
	}

	return &Client{
		ledger:         ledger,
		identity:       config.Identity,
		payer:          payer,
		network:        network,
		tokenID:        tokenID,
		supplyKey:      supplyKey,
		commitment:     commitment,
		confirmTimeout: confirmTimeout,
		validityWindow: config.ValidityWindow,
		clock:          clock,
		logger:         shared.LoggerOrNop(config.Logger),
	}, nil
}

// NewTxContext starts a transaction context paid by the client's identity.
func (c *Client) NewTxContext() *TxContext {
	return NewTxContext(c.payer, c.validityWindow, c.clock)
}

func (c *Client) Network() string {
	return c.network
}

// Mint writes request.MetadataURI into a new NFT serial and waits for confirmation at
// the configured commitment level. A nil txContext starts a fresh one.
func (c *Client) Mint(ctx context.Context, txContext *TxContext, request Request) (Result, error) {
	if txContext == nil {
		txContext = c.NewTxContext()
	}

	metadataURI := strings.TrimSpace(request.MetadataURI)
	if metadataURI == "" {
		return Result{}, &MintError{Reason: "metadata URI is required"}
	}
	if len(metadataURI) > MaxMetadataBytes {
		return Result{}, &MintError{
			Reason: fmt.Sprintf("metadata URI is %d bytes, limit is %d", len(metadataURI), MaxMetadataBytes),
		}
	}

	tokenID := c.tokenID
	collectionCreated := false
	if tokenID == "" {
		created, err := c.createCollection(ctx, txContext, request.Name)
		if err != nil {
			return Result{}, err
		}
		tokenID = created
		collectionCreated = true
		// The collection consumed the current transaction ID.
		txContext.Refresh(c.clock())
	}

	transaction, err := BuildMintTx(tokenID, metadataURI, request.Memo)
	if err != nil {
		return Result{}, err
	}

	if txContext.RefreshIfStale(c.clock()) {
		c.logger.Debug("refreshed stale transaction ID before mint")
	}
	transactionID := txContext.TransactionID()
	transaction.SetTransactionID(transactionID)

	c.logger.Info("submitting mint",
		zap.String("token_id", tokenID),
		zap.String("transaction_id", transactionID.String()),
		zap.String("metadata_uri", metadataURI),
	)

	submission, err := c.ledger.SubmitMint(ctx, transaction, c.mintSigners())
	if err != nil {
		return Result{}, &MintError{TransactionID: transactionID.String(), Reason: "submission rejected", Err: err}
	}

	confirmation, err := c.confirm(ctx, submission)
	if err != nil {
		return Result{}, err
	}
	if len(confirmation.Serials) == 0 {
		return Result{}, &MintError{
			TransactionID: submission.TransactionID.String(),
			Reason:        "receipt did not include a serial number",
		}
	}

	hash := confirmation.TransactionHash
	if len(hash) == 0 {
		hash = submission.TransactionHash
	}

	serial := confirmation.Serials[0]
	result := Result{
		AssetAddress:      AssetAddress(tokenID, serial),
		TransactionID:     submission.TransactionID.String(),
		TransactionHash:   hex.EncodeToString(hash),
		TokenID:           tokenID,
		Serial:            serial,
		CollectionCreated: collectionCreated,
	}
	c.logger.Info("mint confirmed",
		zap.String("asset", result.AssetAddress),
		zap.String("transaction_id", result.TransactionID),
		zap.String("commitment", string(c.commitment)),
	)
	return result, nil
}

func (c *Client) createCollection(ctx context.Context, txContext *TxContext, name string) (string, error) {
	supplyPublicKey := c.identity.PublicKey()
	if c.supplyKey != nil {
		supplyPublicKey = c.supplyKey.PublicKey()
	}

	transaction, err := BuildCollectionTx(name, c.payer, c.identity.PublicKey(), supplyPublicKey)
	if err != nil {
		return "", &MintError{Reason: "invalid collection", Err: err}
	}

	txContext.RefreshIfStale(c.clock())
	transactionID := txContext.TransactionID()
	transaction.SetTransactionID(transactionID)

	c.logger.Info("creating collection token",
		zap.String("name", transaction.GetTokenName()),
		zap.String("symbol", transaction.GetTokenSymbol()),
		zap.String("transaction_id", transactionID.String()),
	)

	submission, err := c.ledger.SubmitCollection(ctx, transaction, []hedera.PrivateKey{c.identity.PrivateKey()})
	if err != nil {
		return "", &MintError{TransactionID: transactionID.String(), Reason: "collection submission rejected", Err: err}
	}

	confirmation, err := c.confirm(ctx, submission)
	if err != nil {
		return "", err
	}
	if confirmation.TokenID == nil {
		return "", &MintError{
			TransactionID: submission.TransactionID.String(),
			Reason:        "token create receipt did not include token ID",
		}
	}

	tokenID := confirmation.TokenID.String()
	c.logger.Info("collection token created", zap.String("token_id", tokenID))
	return tokenID, nil
}

func (c *Client) confirm(ctx context.Context, submission Submission) (Confirmation, error) {
	confirmCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	transactionID := submission.TransactionID.String()
	confirmation, err := c.ledger.Confirm(confirmCtx, submission, c.commitment)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return Confirmation{}, &ConfirmationTimeoutError{
				TransactionID: transactionID,
				Commitment:    c.commitment,
				Timeout:       c.confirmTimeout,
			}
		}
		if ctx.Err() != nil {
			return Confirmation{}, ctx.Err()
		}
		return Confirmation{}, &MintError{TransactionID: transactionID, Reason: "confirmation failed", Err: err}
	}
	if confirmation.Status != hedera.StatusSuccess {
		return Confirmation{}, &MintError{TransactionID: transactionID, Status: confirmation.Status.String()}
	}
	return confirmation, nil
}

func (c *Client) mintSigners() []hedera.PrivateKey {
	signers := []hedera.PrivateKey{c.identity.PrivateKey()}
	if c.supplyKey != nil {
		signers = append(signers, *c.supplyKey)
	}
	return signers
}
