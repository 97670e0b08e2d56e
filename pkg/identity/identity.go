package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

type KeyType string

const (
	KeyTypeED25519 KeyType = "ed25519"
	KeyTypeECDSA   KeyType = "ecdsa"
)

const (
	seedLength            = 32
	keypairLength         = 64
	compressedECDSALength = 33
)

type Options struct {
	// KeyType selects how a 32-byte secret is read. 64-byte secrets are always ED25519.
	KeyType KeyType
	// AccountID is the paying account. Without it Address falls back to the key alias.
	AccountID string
}

// Identity is a signing key loaded once per run and shared read-only.
type Identity struct {
	secret     []byte
	privateKey hedera.PrivateKey
	keyType    KeyType
	accountID  *hedera.AccountID
}

// Load reads a JSON array of key bytes from path.
func Load(path string, options Options) (*Identity, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, &LoadError{Path: path, Reason: "key file path is required"}
	}

	raw, err := os.ReadFile(trimmedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: trimmedPath, Reason: "key file not found", Err: err}
		}
		return nil, &LoadError{Path: trimmedPath, Reason: "key file unreadable", Err: err}
	}

	secret, err := decodeSecret(raw)
	if err != nil {
		return nil, &LoadError{Path: trimmedPath, Reason: "key file is not a JSON byte array", Err: err}
	}

	identity, err := fromSecret(secret, options)
	if err != nil {
		return nil, &LoadError{Path: trimmedPath, Reason: "invalid key", Err: err}
	}
	return identity, nil
}

// FromPrivateKey wraps an already parsed key, e.g. one taken from HEDERA_PRIVATE_KEY.
func FromPrivateKey(privateKey hedera.PrivateKey, accountID string) (*Identity, error) {
	keyType := KeyTypeED25519
	if len(privateKey.PublicKey().BytesRaw()) == compressedECDSALength {
		keyType = KeyTypeECDSA
	}

	identity := &Identity{
		secret:     privateKey.BytesRaw(),
		privateKey: privateKey,
		keyType:    keyType,
	}
	if err := identity.setAccountID(accountID); err != nil {
		return nil, err
	}
	return identity, nil
}

// Resolve builds the run identity from operator settings: an inline private key wins
// over the key file.
func Resolve(config shared.OperatorConfig, keyType KeyType) (*Identity, error) {
	if strings.TrimSpace(config.PrivateKey) != "" {
		privateKey, err := shared.ParsePrivateKey(config.PrivateKey)
		if err != nil {
			return nil, &LoadError{Path: "HEDERA_PRIVATE_KEY", Reason: "invalid key", Err: err}
		}
		return FromPrivateKey(privateKey, config.AccountID)
	}

	keypairPath := config.KeypairPath
	if strings.TrimSpace(keypairPath) == "" {
		keypairPath = shared.DefaultKeypairPath
	}
	return Load(keypairPath, Options{KeyType: keyType, AccountID: config.AccountID})
}

func decodeSecret(raw []byte) ([]byte, error) {
	var values []int
	if err := json.Unmarshal(bytes.TrimSpace(raw), &values); err != nil {
		return nil, err
	}

	secret := make([]byte, len(values))
	for index, value := range values {
		if value < 0 || value > 255 {
			return nil, fmt.Errorf("value %d at index %d is not a byte", value, index)
		}
		secret[index] = byte(value)
	}
	return secret, nil
}

func fromSecret(secret []byte, options Options) (*Identity, error) {
	keyType := options.KeyType
	if keyType == "" {
		keyType = KeyTypeED25519
	}

	var (
		privateKey hedera.PrivateKey
		err        error
	)

	switch {
	case len(secret) == keypairLength:
		if keyType != KeyTypeED25519 {
			return nil, fmt.Errorf("64-byte keypairs are ED25519 only")
		}
		privateKey, err = ed25519FromKeypair(secret)
	case len(secret) == seedLength && keyType == KeyTypeED25519:
		privateKey, err = hedera.PrivateKeyFromBytesEd25519(secret)
	case len(secret) == seedLength && keyType == KeyTypeECDSA:
		privateKey, err = ecdsaFromScalar(secret)
	case len(secret) == seedLength:
		return nil, fmt.Errorf("unsupported key type %q", keyType)
	default:
		return nil, fmt.Errorf("expected %d or %d key bytes, got %d", seedLength, keypairLength, len(secret))
	}
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		secret:     append([]byte(nil), secret...),
		privateKey: privateKey,
		keyType:    keyType,
	}
	if err := identity.setAccountID(options.AccountID); err != nil {
		return nil, err
	}
	return identity, nil
}

func ed25519FromKeypair(secret []byte) (hedera.PrivateKey, error) {
	privateKey, err := hedera.PrivateKeyFromBytesEd25519(secret[:seedLength])
	if err != nil {
		return hedera.PrivateKey{}, err
	}
	if !bytes.Equal(privateKey.PublicKey().BytesRaw(), secret[seedLength:]) {
		return hedera.PrivateKey{}, fmt.Errorf("public half of keypair does not match its seed")
	}
	return privateKey, nil
}

func ecdsaFromScalar(secret []byte) (hedera.PrivateKey, error) {
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(secret); overflow {
		return hedera.PrivateKey{}, fmt.Errorf("secp256k1 scalar is not below the curve order")
	}
	if scalar.IsZero() {
		return hedera.PrivateKey{}, fmt.Errorf("secp256k1 scalar is zero")
	}

	_, curvePublicKey := btcec.PrivKeyFromBytes(secret)

	privateKey, err := hedera.PrivateKeyFromBytesECDSA(secret)
	if err != nil {
		return hedera.PrivateKey{}, err
	}
	if !bytes.Equal(privateKey.PublicKey().BytesRaw(), curvePublicKey.SerializeCompressed()) {
		return hedera.PrivateKey{}, fmt.Errorf("derived secp256k1 public key mismatch")
	}
	return privateKey, nil
}

func (i *Identity) setAccountID(accountID string) error {
	trimmed := strings.TrimSpace(accountID)
	if trimmed == "" {
		return nil
	}
	parsed, err := hedera.AccountIDFromString(trimmed)
	if err != nil {
		return fmt.Errorf("invalid operator account ID: %w", err)
	}
	i.accountID = &parsed
	return nil
}

func (i *Identity) PrivateKey() hedera.PrivateKey {
	return i.privateKey
}

func (i *Identity) PublicKey() hedera.PublicKey {
	return i.privateKey.PublicKey()
}

func (i *Identity) KeyType() KeyType {
	return i.keyType
}

// AccountID returns the paying account, if one was configured.
func (i *Identity) AccountID() (hedera.AccountID, bool) {
	if i.accountID == nil {
		return hedera.AccountID{}, false
	}
	return *i.accountID, true
}

// Address is the public address used for creator attribution: the configured account,
// or the public key alias account ID when none is set.
func (i *Identity) Address() string {
	if i.accountID != nil {
		return i.accountID.String()
	}
	alias := i.privateKey.PublicKey().ToAccountID(0, 0)
	if alias == nil {
		return i.privateKey.PublicKey().StringRaw()
	}
	return alias.String()
}

// Sign signs message with the identity key.
func (i *Identity) Sign(message []byte) []byte {
	return i.privateKey.Sign(message)
}

// SecretBytes returns a copy of the raw secret as read from disk.
func (i *Identity) SecretBytes() []byte {
	return append([]byte(nil), i.secret...)
}
