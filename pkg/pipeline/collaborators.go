package pipeline

import (
	"context"

	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
)

//go:generate mockgen -destination=mocks/collaborators_mock.go -package=mocks -source=collaborators.go

// Uploader stores one blob. storage.InscriberUploader and storage.S3Uploader satisfy it.
type Uploader interface {
	Upload(ctx context.Context, blob storage.Blob) (storage.Asset, error)
}

// Minter is satisfied by *mint.Client.
type Minter interface {
	NewTxContext() *mint.TxContext
	Mint(ctx context.Context, txContext *mint.TxContext, request mint.Request) (mint.Result, error)
}
