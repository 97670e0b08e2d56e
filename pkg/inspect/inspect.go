package inspect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashgraph-online/media-mint-go/pkg/metadata"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/mirror"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
	"go.uber.org/zap"
)

// NFTSource is the part of the mirror node client an Inspector reads from.
type NFTSource interface {
	GetNFT(ctx context.Context, tokenID string, serial int64) (*mirror.NFT, error)
	GetToken(ctx context.Context, tokenID string) (*mirror.TokenInfo, error)
}

type Inspector struct {
	NFTs    NFTSource
	Content storage.Fetcher
	Logger  *zap.Logger
}

type Options struct {
	// CheckContent fetches every URI the metadata references.
	CheckContent bool
}

// ContentCheck is the outcome of fetching one referenced URI.
type ContentCheck struct {
	URI    string
	Size   int
	SHA256 string
	Err    error
}

type Report struct {
	AssetAddress string
	TokenID      string
	Serial       int64
	Owner        string
	Deleted      bool
	Collection   mirror.TokenInfo
	MetadataURI  string
	Metadata     metadata.Document
	Content      []ContentCheck
}

// Reachable reports whether every checked URI could be fetched.
func (r Report) Reachable() bool {
	for _, check := range r.Content {
		if check.Err != nil {
			return false
		}
	}
	return true
}

// Inspect looks up the NFT at address (serial@tokenID) and decodes its metadata.
func (i *Inspector) Inspect(ctx context.Context, address string, options Options) (Report, error) {
	if i.NFTs == nil || i.Content == nil {
		return Report{}, fmt.Errorf("inspector needs an NFT source and a content fetcher")
	}
	logger := shared.LoggerOrNop(i.Logger)

	tokenID, serial, err := mint.ParseAssetAddress(address)
	if err != nil {
		return Report{}, err
	}

	nft, err := i.NFTs.GetNFT(ctx, tokenID, serial)
	if err != nil {
		return Report{}, fmt.Errorf("failed to look up %s: %w", address, err)
	}
	token, err := i.NFTs.GetToken(ctx, tokenID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to look up collection %s: %w", tokenID, err)
	}
	metadataURI, err := mirror.DecodeNFTMetadata(*nft)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		AssetAddress: mint.AssetAddress(tokenID, serial),
		TokenID:      tokenID,
		Serial:       serial,
		Owner:        nft.AccountID,
		Deleted:      nft.Deleted,
		Collection:   *token,
		MetadataURI:  metadataURI,
	}

	raw, err := i.Content.Fetch(ctx, metadataURI)
	if err != nil {
		return report, fmt.Errorf("failed to fetch metadata %s: %w", metadataURI, err)
	}
	if err := json.Unmarshal(raw, &report.Metadata); err != nil {
		return report, &metadata.InvalidMetadataError{Field: "document", Reason: err.Error()}
	}
	logger.Debug("metadata resolved",
		zap.String("asset", report.AssetAddress),
		zap.String("uri", metadataURI),
		zap.String("name", report.Metadata.Name),
	)

	if options.CheckContent {
		for _, uri := range report.Metadata.URIs() {
			check := ContentCheck{URI: uri}
			if data, err := i.Content.Fetch(ctx, uri); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return report, ctxErr
				}
				logger.Warn("content unreachable", zap.String("uri", uri), zap.Error(err))
				check.Err = err
			} else {
				check.Size = len(data)
				check.SHA256 = storage.Digest(data)
			}
			report.Content = append(report.Content, check)
		}
	}
	return report, nil
}
