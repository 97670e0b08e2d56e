package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/identity"
	"github.com/hashgraph-online/media-mint-go/pkg/inscriber"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/mirror"
	"github.com/hashgraph-online/media-mint-go/pkg/pipeline"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
	"go.uber.org/zap"
)

type Options struct {
	// KeypairPath overrides MEDIAMINT_KEYPAIR_PATH.
	KeypairPath string
	// Network overrides HEDERA_NETWORK.
	Network string
	KeyType identity.KeyType
	// Logger replaces the logger built from MEDIAMINT_LOG_LEVEL.
	Logger *zap.Logger
}

// Session is the explicit set of collaborators one program run shares: operator
// settings, the signing identity and a logger.
type Session struct {
	Operator shared.OperatorConfig
	Settings shared.Settings
	Identity *identity.Identity
	Logger   *zap.Logger
	Network  string
}

// Open resolves settings from the environment and loads the operator identity.
func Open(options Options) (*Session, error) {
	operator, err := shared.OperatorConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(options.Network) != "" {
		operator.Network = options.Network
	}
	if strings.TrimSpace(options.KeypairPath) != "" {
		operator.KeypairPath = options.KeypairPath
		operator.PrivateKey = ""
	}

	network, err := shared.NormalizeNetwork(operator.Network)
	if err != nil {
		return nil, err
	}

	settings, err := shared.SettingsFromEnv()
	if err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger, err = shared.NewLogger(settings.LogLevel, settings.LogJSON)
		if err != nil {
			return nil, err
		}
	}

	keyType := options.KeyType
	if keyType == "" {
		keyType = identity.KeyTypeED25519
	}
	operatorIdentity, err := identity.Resolve(operator, keyType)
	if err != nil {
		return nil, err
	}

	logger.Debug("session opened",
		zap.String("network", network),
		zap.String("address", operatorIdentity.Address()),
		zap.String("storage", settings.Storage),
	)

	return &Session{
		Operator: operator,
		Settings: settings,
		Identity: operatorIdentity,
		Logger:   logger,
		Network:  network,
	}, nil
}

// Uploader builds the storage backend selected by MEDIAMINT_STORAGE.
func (s *Session) Uploader(ctx context.Context) (pipeline.Uploader, error) {
	switch s.Settings.Storage {
	case shared.StorageS3:
		uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          s.Settings.S3Bucket,
			Region:          s.Settings.S3Region,
			Endpoint:        s.Settings.S3Endpoint,
			PublicBaseURL:   s.Settings.S3PublicURL,
			Prefix:          s.Settings.S3Prefix,
			AccessKeyID:     s.Settings.S3AccessKeyID,
			SecretAccessKey: s.Settings.S3SecretKey,
			Logger:          s.Logger,
		})
		if err != nil {
			return nil, err
		}
		return uploader, nil
	case shared.StorageInscriber, "":
		uploader, err := storage.NewInscriberUploader(storage.InscriberConfig{
			Identity:       s.Identity,
			Network:        s.Network,
			ConnectionMode: inscriber.ConnectionModeAuto,
			Logger:         s.Logger,
		})
		if err != nil {
			return nil, err
		}
		return uploader, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", s.Settings.Storage)
	}
}

// MintOverrides take precedence over the MEDIAMINT_* settings when set.
type MintOverrides struct {
	TokenID        string
	Commitment     mint.Commitment
	ConfirmTimeout time.Duration
}

func (s *Session) Minter(overrides MintOverrides) (*mint.Client, error) {
	tokenID := s.Settings.TokenID
	if strings.TrimSpace(overrides.TokenID) != "" {
		tokenID = overrides.TokenID
	}
	confirmTimeout := s.Settings.ConfirmTimeout
	if overrides.ConfirmTimeout > 0 {
		confirmTimeout = overrides.ConfirmTimeout
	}

	return mint.NewClient(mint.Config{
		Network:        s.Network,
		Identity:       s.Identity,
		TokenID:        tokenID,
		SupplyKey:      s.Settings.SupplyKey,
		Commitment:     overrides.Commitment,
		ConfirmTimeout: confirmTimeout,
		Logger:         s.Logger,
	})
}

// Resolver reads uploaded content back through the network's mirror node.
func (s *Session) Resolver() (*storage.Resolver, error) {
	mirrorClient, err := mirror.NewClient(mirror.Config{Network: s.Network})
	if err != nil {
		return nil, err
	}
	return storage.NewResolver(mirrorClient, nil), nil
}

// Runner wires a pipeline runner crediting the session identity as creator.
func (s *Session) Runner(uploader pipeline.Uploader, minter pipeline.Minter, progress pipeline.ProgressFunc) *pipeline.Runner {
	return &pipeline.Runner{
		Uploader: uploader,
		Minter:   minter,
		Address:  s.Identity.Address(),
		Logger:   s.Logger,
		Progress: progress,
	}
}

// Close flushes buffered log entries.
func (s *Session) Close() {
	_ = s.Logger.Sync()
}
