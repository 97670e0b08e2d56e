package mint

import (
	"fmt"
	"strings"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
)

// ExplorerTransactionURL links a transaction on HashScan.
func ExplorerTransactionURL(network string, transactionID string) (string, error) {
	baseURL, err := shared.ExplorerBaseURL(network)
	if err != nil {
		return "", err
	}
	return baseURL + "/transaction/" + strings.TrimSpace(transactionID), nil
}

// ExplorerTokenURL links a token, or one of its serials when serial is positive.
func ExplorerTokenURL(network string, tokenID string, serial int64) (string, error) {
	baseURL, err := shared.ExplorerBaseURL(network)
	if err != nil {
		return "", err
	}
	url := baseURL + "/token/" + strings.TrimSpace(tokenID)
	if serial > 0 {
		url += fmt.Sprintf("/%d", serial)
	}
	return url, nil
}
