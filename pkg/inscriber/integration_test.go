package inscriber

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

func TestInscriberIntegrationInscribeAndExecute(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION") != "1" {
		t.Skip("set RUN_INTEGRATION=1 to run live integration tests")
	}

	operatorConfig, err := shared.OperatorConfigFromEnv()
	if err != nil {
		t.Skipf("skipping inscriber integration test: %v", err)
	}
	if strings.TrimSpace(operatorConfig.PrivateKey) == "" {
		t.Skip("inscriber integration needs HEDERA_PRIVATE_KEY")
	}

	network, err := ParseNetwork(operatorConfig.Network)
	if err != nil {
		t.Skipf("skipping inscriber integration test: %v", err)
	}

	accountID, err := hedera.AccountIDFromString(operatorConfig.AccountID)
	if err != nil {
		t.Fatalf("invalid account ID: %v", err)
	}
	privateKey, err := shared.ParsePrivateKey(operatorConfig.PrivateKey)
	if err != nil {
		t.Fatalf("invalid private key: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	authResult, err := NewAuthClient(os.Getenv("INSCRIPTION_AUTH_BASE_URL"), nil).
		Authenticate(ctx, accountID.String(), privateKey, network)
	if err != nil {
		t.Fatalf("failed to authenticate inscription client: %v", err)
	}

	client, err := NewClient(Config{
		APIKey:  authResult.APIKey,
		Network: network,
		BaseURL: os.Getenv("INSCRIPTION_API_BASE_URL"),
	})
	if err != nil {
		t.Fatalf("failed to create inscription client: %v", err)
	}

	result, err := client.InscribeAndExecute(ctx, StartInscriptionRequest{
		File: FileInput{
			Type:     "base64",
			Base64:   base64.StdEncoding.EncodeToString([]byte("media-mint integration inscription")),
			FileName: "integration.txt",
			MimeType: "text/plain",
		},
		HolderID: accountID.String(),
		Mode:     ModeFile,
	}, Payer{
		Network:    operatorConfig.Network,
		AccountID:  accountID,
		PrivateKey: privateKey,
	}, &WaitOptions{MaxAttempts: 180, Interval: 2 * time.Second})
	if err != nil {
		t.Fatalf("inscription failed: %v", err)
	}
	if !strings.HasPrefix(result.HRL(), "hcs://1/") {
		t.Fatalf("unexpected HRL %q", result.HRL())
	}
}
