package mint

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	maxTokenNameBytes = 100
	maxSymbolLength   = 8
	defaultSymbol     = "NFT"
)

func BuildMintTx(tokenID string, metadataURI string, transactionMemo string) (*hedera.TokenMintTransaction, error) {
	trimmedTokenID := strings.TrimSpace(tokenID)
	if trimmedTokenID == "" {
		return nil, fmt.Errorf("token ID is required")
	}
	parsedTokenID, err := hedera.TokenIDFromString(trimmedTokenID)
	if err != nil {
		return nil, fmt.Errorf("invalid token ID: %w", err)
	}

	trimmedURI := strings.TrimSpace(metadataURI)
	if trimmedURI == "" {
		return nil, &MintError{Reason: "metadata URI is required"}
	}
	if len(trimmedURI) > MaxMetadataBytes {
		return nil, &MintError{
			Reason: fmt.Sprintf("metadata URI is %d bytes, limit is %d", len(trimmedURI), MaxMetadataBytes),
		}
	}

	transaction := hedera.NewTokenMintTransaction().
		SetTokenID(parsedTokenID).
		SetMetadata([]byte(trimmedURI))

	if strings.TrimSpace(transactionMemo) != "" {
		transaction.SetTransactionMemo(transactionMemo)
	}

	return transaction, nil
}

// BuildCollectionTx builds a non-fungible token with unlimited supply, treasury and
// auto-renew on the payer, and the given admin and supply keys.
func BuildCollectionTx(
	name string,
	treasury hedera.AccountID,
	adminKey hedera.PublicKey,
	supplyKey hedera.PublicKey,
) (*hedera.TokenCreateTransaction, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	transaction := hedera.NewTokenCreateTransaction().
		SetTokenName(truncateBytes(trimmedName, maxTokenNameBytes)).
		SetTokenSymbol(DeriveSymbol(trimmedName)).
		SetTokenType(hedera.TokenTypeNonFungibleUnique).
		SetSupplyType(hedera.TokenSupplyTypeInfinite).
		SetInitialSupply(0).
		SetDecimals(0).
		SetTreasuryAccountID(treasury).
		SetAutoRenewAccount(treasury).
		SetAdminKey(adminKey).
		SetSupplyKey(supplyKey)

	return transaction, nil
}

// DeriveSymbol upper-cases the letters and digits of name, keeping at most eight.
func DeriveSymbol(name string) string {
	var builder strings.Builder
	for _, r := range name {
		if builder.Len() >= maxSymbolLength {
			break
		}
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		builder.WriteRune(unicode.ToUpper(r))
	}
	if builder.Len() == 0 {
		return defaultSymbol
	}
	return builder.String()
}

func truncateBytes(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
