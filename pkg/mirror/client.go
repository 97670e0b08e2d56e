package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
)

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	header     http.Header
}

type MessageQueryOptions struct {
	SequenceNumber string
	Limit          int
	Order          string
}

func (o MessageQueryOptions) query() string {
	values := url.Values{}
	if o.SequenceNumber != "" {
		values.Set("sequencenumber", o.SequenceNumber)
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Order != "" {
		values.Set("order", o.Order)
	}
	return values.Encode()
}

// NewClient validates the base URL, falling back to the public mirror node for the network.
func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	rawBaseURL := strings.TrimSpace(config.BaseURL)
	if rawBaseURL == "" {
		if rawBaseURL, err = shared.MirrorBaseURL(network); err != nil {
			return nil, err
		}
	}
	baseURL, err := url.Parse(strings.TrimRight(rawBaseURL, "/"))
	switch {
	case err != nil:
		return nil, fmt.Errorf("invalid mirror base URL: %w", err)
	case baseURL.Scheme != "http" && baseURL.Scheme != "https":
		return nil, fmt.Errorf("invalid mirror base URL: scheme must be http or https")
	case strings.TrimSpace(baseURL.Host) == "":
		return nil, fmt.Errorf("invalid mirror base URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	if apiKey := strings.TrimSpace(config.APIKey); apiKey != "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}
	for key, value := range config.Headers {
		header.Set(key, value)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL.String(), "/"),
		httpClient: httpClient,
		header:     header,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetTopicMessages follows pagination links until every matching message is collected.
// HCS-1 content is stored as the ordered messages of one topic.
func (c *Client) GetTopicMessages(
	ctx context.Context,
	topicID string,
	options MessageQueryOptions,
) ([]TopicMessage, error) {
	topicID = strings.TrimSpace(topicID)
	if topicID == "" {
		return nil, fmt.Errorf("topic ID is required")
	}

	next := "/api/v1/topics/" + topicID + "/messages"
	if query := options.query(); query != "" {
		next += "?" + query
	}

	messages := make([]TopicMessage, 0)
	for next != "" {
		page, err := get[topicMessagesPage](ctx, c, next)
		if err != nil {
			return nil, err
		}
		messages = append(messages, page.Messages...)
		next = page.Links.Next
	}
	return messages, nil
}

func DecodeMessageData(message TopicMessage) ([]byte, error) {
	if strings.TrimSpace(message.Message) == "" {
		return nil, fmt.Errorf("message payload is empty")
	}
	return base64.StdEncoding.DecodeString(message.Message)
}

// GetNFT looks up a single serial of a non-fungible token.
func (c *Client) GetNFT(ctx context.Context, tokenID string, serial int64) (*NFT, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, fmt.Errorf("token ID is required")
	}
	if serial <= 0 {
		return nil, fmt.Errorf("serial must be positive")
	}

	nft, err := get[NFT](ctx, c, fmt.Sprintf("/api/v1/tokens/%s/nfts/%d", tokenID, serial))
	if err != nil {
		return nil, err
	}
	return &nft, nil
}

// GetToken returns collection level token details.
func (c *Client) GetToken(ctx context.Context, tokenID string) (*TokenInfo, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, fmt.Errorf("token ID is required")
	}

	token, err := get[TokenInfo](ctx, c, "/api/v1/tokens/"+tokenID)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DecodeNFTMetadata returns the metadata bytes of an NFT, normally the URI it was minted with.
func DecodeNFTMetadata(nft NFT) (string, error) {
	if strings.TrimSpace(nft.Metadata) == "" {
		return "", fmt.Errorf("NFT metadata is empty")
	}
	decoded, err := base64.StdEncoding.DecodeString(nft.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to decode NFT metadata: %w", err)
	}
	return string(decoded), nil
}

func get[T any](ctx context.Context, c *Client, pathOrURL string) (T, error) {
	var target T

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL(pathOrURL), nil)
	if err != nil {
		return target, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header = c.header.Clone()

	response, err := c.httpClient.Do(request)
	if err != nil {
		return target, fmt.Errorf("mirror node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return target, fmt.Errorf("failed to read mirror node response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return target, &StatusError{
			URL:        request.URL.String(),
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, &target); err != nil {
		return target, fmt.Errorf("failed to decode mirror node response: %w", err)
	}
	return target, nil
}

// resolveURL keeps absolute pagination links and roots relative paths at the base URL.
func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.baseURL + "/" + strings.TrimLeft(pathOrURL, "/")
}
