package mint

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/identity"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
)

// Commitment is how far a submitted transaction must progress before Mint returns.
type Commitment string

const (
	// CommitmentReceipt waits for consensus and the transaction receipt.
	CommitmentReceipt Commitment = "receipt"
	// CommitmentRecord additionally fetches the full transaction record.
	CommitmentRecord Commitment = "record"
)

const (
	// MaxMetadataBytes is the largest metadata value Hedera accepts per serial.
	MaxMetadataBytes = 100

	// MaxValidDuration is the longest validity window Hedera accepts for a transaction.
	MaxValidDuration = 120 * time.Second

	DefaultValidityWindow = MaxValidDuration - 10*time.Second
	DefaultConfirmTimeout = 2 * time.Minute
)

// ParseCommitment maps a configured level to a Commitment. Blank selects receipt.
func ParseCommitment(value string) (Commitment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(CommitmentReceipt), "confirmed":
		return CommitmentReceipt, nil
	case string(CommitmentRecord), "finalized":
		return CommitmentRecord, nil
	default:
		return "", fmt.Errorf("unsupported commitment %q", value)
	}
}

type Config struct {
	Network  string
	Identity *identity.Identity
	// TokenID is the collection to mint into. A new collection is created per mint
	// when it is blank.
	TokenID string
	// SupplyKey signs mints when the token's supply key differs from the identity key.
	SupplyKey      string
	Commitment     Commitment
	ConfirmTimeout time.Duration
	ValidityWindow time.Duration
	// Ledger overrides the live Hedera network, mainly for tests.
	Ledger Ledger
	Clock  func() time.Time
	Logger *zap.Logger
}

type Request struct {
	Name        string
	MetadataURI string
	Memo        string
}

type Result struct {
	// AssetAddress identifies the minted NFT as serial@tokenID.
	AssetAddress    string
	TransactionID   string
	TransactionHash string
	TokenID         string
	Serial          int64
	// CollectionCreated is set when the token was created as part of this mint.
	CollectionCreated bool
}

// AssetAddress formats the address of one NFT serial.
func AssetAddress(tokenID string, serial int64) string {
	return fmt.Sprintf("%d@%s", serial, tokenID)
}

// ParseAssetAddress splits serial@tokenID back into its parts.
func ParseAssetAddress(address string) (tokenID string, serial int64, err error) {
	rawSerial, rawToken, found := strings.Cut(strings.TrimSpace(address), "@")
	if !found {
		return "", 0, fmt.Errorf("asset address %q must have the form serial@tokenID", address)
	}
	serial, err = strconv.ParseInt(rawSerial, 10, 64)
	if err != nil || serial <= 0 {
		return "", 0, fmt.Errorf("asset address %q has an invalid serial", address)
	}
	token, err := hedera.TokenIDFromString(rawToken)
	if err != nil {
		return "", 0, fmt.Errorf("asset address %q has an invalid token ID: %w", address, err)
	}
	return token.String(), serial, nil
}
