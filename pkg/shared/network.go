package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	NetworkMainnet    = "mainnet"
	NetworkTestnet    = "testnet"
	NetworkPreviewnet = "previewnet"
)

// NormalizeNetwork lower-cases and validates a network name. Blank input selects testnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}

	switch normalized {
	case NetworkMainnet, NetworkTestnet, NetworkPreviewnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// NewHederaClient creates a consensus node client for the given network.
func NewHederaClient(network string) (*hedera.Client, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}

	switch normalized {
	case NetworkMainnet:
		return hedera.ClientForMainnet(), nil
	case NetworkPreviewnet:
		return hedera.ClientForPreviewnet(), nil
	default:
		return hedera.ClientForTestnet(), nil
	}
}

// MirrorBaseURL returns the public mirror node REST endpoint for a network.
func MirrorBaseURL(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}

	switch normalized {
	case NetworkMainnet:
		return "https://mainnet-public.mirrornode.hedera.com", nil
	case NetworkPreviewnet:
		return "https://previewnet.mirrornode.hedera.com", nil
	default:
		return "https://testnet.mirrornode.hedera.com", nil
	}
}

// ExplorerBaseURL returns the HashScan base URL for a network.
func ExplorerBaseURL(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}
	return "https://hashscan.io/" + normalized, nil
}
