package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/hashgraph-online/media-mint-go/pkg/identity"
	"github.com/hashgraph-online/media-mint-go/pkg/inscriber"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	"go.uber.org/zap"
)

const backendInscriber = "inscriber"

type InscriberConfig struct {
	Identity *identity.Identity
	Network  string
	// APIKey skips the challenge login when set.
	APIKey         string
	AuthBaseURL    string
	APIBaseURL     string
	HTTPClient     *http.Client
	ConnectionMode inscriber.ConnectionMode
	Wait           inscriber.WaitOptions
	Executor       inscriber.TransactionExecutor
	Logger         *zap.Logger
}

// InscriberUploader writes blobs to HCS-1 topics through the inscription service and
// returns hcs://1/<topic> URIs.
type InscriberUploader struct {
	config  InscriberConfig
	network inscriber.Network
	logger  *zap.Logger

	mu     sync.Mutex
	client *inscriber.Client
}

func NewInscriberUploader(config InscriberConfig) (*InscriberUploader, error) {
	if config.Identity == nil {
		return nil, fmt.Errorf("identity is required")
	}
	if _, ok := config.Identity.AccountID(); !ok {
		return nil, fmt.Errorf("inscription requires an operator account ID to pay from")
	}

	network, err := inscriber.ParseNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	return &InscriberUploader{
		config:  config,
		network: network,
		logger:  shared.LoggerOrNop(config.Logger),
	}, nil
}

func (u *InscriberUploader) Upload(ctx context.Context, blob Blob) (Asset, error) {
	client, err := u.ensureClient(ctx)
	if err != nil {
		return Asset{}, &UploadError{Name: blob.Name, Backend: backendInscriber, Err: err}
	}

	accountID, _ := u.config.Identity.AccountID()
	request := inscriber.StartInscriptionRequest{
		File: inscriber.FileInput{
			Type:     "base64",
			Base64:   base64.StdEncoding.EncodeToString(blob.Data),
			FileName: blob.Name,
			MimeType: blob.MimeType,
		},
		HolderID: accountID.String(),
		Mode:     inscriber.ModeFile,
		Tags:     formatTags(blob.Tags),
	}
	payer := inscriber.Payer{
		Network:    string(u.network),
		AccountID:  accountID,
		PrivateKey: u.config.Identity.PrivateKey(),
	}

	wait := u.config.Wait
	u.logger.Info("inscribing file",
		zap.String("name", blob.Name),
		zap.String("mime_type", blob.MimeType),
		zap.Int("bytes", len(blob.Data)),
	)
	result, err := client.InscribeAndExecute(ctx, request, payer, &wait)
	if err != nil {
		return Asset{}, &UploadError{Name: blob.Name, Backend: backendInscriber, Err: err}
	}

	uri := result.HRL()
	if uri == "" {
		return Asset{}, &UploadError{
			Name:    blob.Name,
			Backend: backendInscriber,
			Err:     fmt.Errorf("inscription %s completed without a topic ID", result.TransactionID),
		}
	}

	u.logger.Info("file inscribed", zap.String("name", blob.Name), zap.String("uri", uri))
	return newAsset(blob, uri), nil
}

func (u *InscriberUploader) ensureClient(ctx context.Context) (*inscriber.Client, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.client != nil {
		return u.client, nil
	}

	apiKey := strings.TrimSpace(u.config.APIKey)
	if apiKey == "" {
		accountID, _ := u.config.Identity.AccountID()
		authResult, err := inscriber.NewAuthClient(u.config.AuthBaseURL, u.config.HTTPClient).
			Authenticate(ctx, accountID.String(), u.config.Identity, u.network)
		if err != nil {
			return nil, err
		}
		apiKey = authResult.APIKey
	}

	client, err := inscriber.NewClient(inscriber.Config{
		APIKey:         apiKey,
		Network:        u.network,
		BaseURL:        u.config.APIBaseURL,
		HTTPClient:     u.config.HTTPClient,
		ConnectionMode: u.config.ConnectionMode,
		Executor:       u.config.Executor,
		Logger:         u.logger,
	})
	if err != nil {
		return nil, err
	}
	u.client = client
	return client, nil
}

func formatTags(tags map[string]string) []string {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	formatted := make([]string, 0, len(keys))
	for _, key := range keys {
		formatted = append(formatted, key+":"+tags[key])
	}
	return formatted
}
