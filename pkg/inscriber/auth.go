package inscriber

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultAuthBaseURL = "https://kiloscribe.com"

// Signer produces the challenge signature proving control of the holder account.
type Signer interface {
	Sign(message []byte) []byte
}

// AuthClient trades a signed challenge for an inscription API key.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient accepts the service root with or without a trailing /api.
func NewAuthClient(baseURL string, httpClient *http.Client) *AuthClient {
	root := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if root == "" {
		root = DefaultAuthBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &AuthClient{
		baseURL:    strings.TrimSuffix(root, "/api"),
		httpClient: httpClient,
	}
}

// challenge is the message the service asks the holder to sign. It is either a plain
// string or a JSON object signed in its compact encoding.
type challenge struct {
	payload string
	data    any
}

func decodeChallenge(raw json.RawMessage) (challenge, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return challenge{}, fmt.Errorf("signature challenge did not include message")
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return challenge{}, fmt.Errorf("failed to decode string challenge: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return challenge{}, fmt.Errorf("signature challenge string cannot be empty")
		}
		return challenge{payload: text, data: text}, nil
	}

	var object any
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return challenge{}, fmt.Errorf("failed to decode object challenge: %w", err)
	}
	compact, err := json.Marshal(object)
	if err != nil {
		return challenge{}, fmt.Errorf("failed to encode object challenge: %w", err)
	}
	return challenge{payload: string(compact), data: object}, nil
}

type authData struct {
	ID        string `json:"id"`
	Signature string `json:"signature"`
	Data      any    `json:"data"`
	Network   string `json:"network"`
}

type authRequest struct {
	AuthData authData `json:"authData"`
	Include  string   `json:"include"`
}

type authResponse struct {
	APIKey string `json:"apiKey"`
	User   struct {
		SessionToken string `json:"sessionToken"`
	} `json:"user"`
}

// Authenticate exchanges a signed challenge for an API key scoped to accountID.
func (c *AuthClient) Authenticate(
	ctx context.Context,
	accountID string,
	signer Signer,
	network Network,
) (AuthResult, error) {
	if strings.TrimSpace(accountID) == "" {
		return AuthResult{}, fmt.Errorf("account ID is required for authentication")
	}
	if signer == nil {
		return AuthResult{}, fmt.Errorf("signer is required for authentication")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/request-signature", nil)
	if err != nil {
		return AuthResult{}, err
	}
	request.Header.Set("x-session", accountID)

	var challengeBody struct {
		Message json.RawMessage `json:"message"`
	}
	if err := c.exchange(request, "request-signature", &challengeBody); err != nil {
		return AuthResult{}, err
	}
	message, err := decodeChallenge(challengeBody.Message)
	if err != nil {
		return AuthResult{}, err
	}

	body, err := json.Marshal(authRequest{
		AuthData: authData{
			ID:        accountID,
			Signature: hex.EncodeToString(signer.Sign([]byte(message.payload))),
			Data:      message.data,
			Network:   string(network),
		},
		Include: "apiKey",
	})
	if err != nil {
		return AuthResult{}, err
	}

	request, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/authenticate", bytes.NewReader(body))
	if err != nil {
		return AuthResult{}, err
	}
	request.Header.Set("Content-Type", "application/json")

	var response authResponse
	if err := c.exchange(request, "authenticate", &response); err != nil {
		return AuthResult{}, err
	}
	if strings.TrimSpace(response.User.SessionToken) == "" {
		return AuthResult{}, fmt.Errorf("authenticate response did not include session token")
	}
	if strings.TrimSpace(response.APIKey) == "" {
		return AuthResult{}, fmt.Errorf("authenticate response did not include api key")
	}
	return AuthResult{APIKey: response.APIKey}, nil
}

func (c *AuthClient) exchange(request *http.Request, step string, target any) error {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", step, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%s failed with status %d: %s", step, response.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", step, err)
	}
	return nil
}
