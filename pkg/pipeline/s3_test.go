package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/pipeline/mocks"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingPutter struct {
	mu   sync.Mutex
	keys []string
}

func (p *countingPutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func TestRunner_S3BackendMints(t *testing.T) {
	ctrl := gomock.NewController(t)
	minter := mocks.NewMockMinter(ctrl)

	putter := &countingPutter{}
	uploader := storage.NewS3UploaderWithClient(putter, "media", "", "https://media.s3.us-east-1.amazonaws.com", nil)

	dir := t.TempDir()
	imagePath := writeFile(t, dir, "cover.jpg", []byte("jpeg-bytes"))

	minter.EXPECT().NewTxContext().Return(nil)
	minter.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *mint.TxContext, request mint.Request) (mint.Result, error) {
			if _, err := mint.BuildMintTx("0.0.5005", request.MetadataURI, ""); err != nil {
				return mint.Result{}, err
			}
			return mint.Result{AssetAddress: mint.AssetAddress("0.0.5005", 1)}, nil
		})

	runner := &Runner{Uploader: uploader, Minter: minter, Address: "0.0.1001"}
	outcome, err := runner.Run(context.Background(), Plan{
		Name:     "Test NFT",
		Assets:   []AssetSpec{{Key: "image", Path: imagePath}},
		ImageKey: "image",
	})
	require.NoError(t, err)

	assert.Equal(t, StageDone, outcome.Stage)
	assert.Equal(t, "1@0.0.5005", outcome.Mint.AssetAddress)
	assert.LessOrEqual(t, len(outcome.MetadataAsset.URI), mint.MaxMetadataBytes)
	assert.True(t, strings.HasSuffix(outcome.MetadataAsset.URI, ".json"))
	assert.Len(t, putter.keys, 2)
}

func TestRunner_OverlongMetadataURIFailsBeforeUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	minter := mocks.NewMockMinter(ctrl)

	putter := &countingPutter{}
	baseURL := "https://" + strings.Repeat("cdn", 10) + ".example.com/nft-media-collection"
	uploader := storage.NewS3UploaderWithClient(putter, "media", "collections/2026/", baseURL, nil)

	dir := t.TempDir()
	imagePath := writeFile(t, dir, "cover.jpg", []byte("jpeg-bytes"))

	runner := &Runner{Uploader: uploader, Minter: minter}
	outcome, err := runner.Run(context.Background(), Plan{
		Name:     "Too Long",
		Assets:   []AssetSpec{{Key: "image", Path: imagePath}},
		ImageKey: "image",
	})
	require.Error(t, err)

	var mintErr *mint.MintError
	require.True(t, errors.As(err, &mintErr))
	assert.Contains(t, mintErr.Reason, "limit is 100")

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageValidatingInputs, stageErr.Stage)
	assert.Equal(t, StageFailed, outcome.Stage)
	assert.Empty(t, putter.keys)
}
