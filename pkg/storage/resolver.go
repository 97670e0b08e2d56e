package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/hashgraph-online/media-mint-go/pkg/mirror"
)

const dataURLPartCount = 2

var hcs1ReferencePattern = regexp.MustCompile(`^hcs://1/(\d+\.\d+\.\d+)$`)

// Fetcher returns the bytes stored behind a URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Resolver reads content back from hcs://1 topics through the mirror node and from
// plain http(s) URLs.
type Resolver struct {
	mirrorClient *mirror.Client
	httpClient   *http.Client
}

func NewResolver(mirrorClient *mirror.Client, httpClient *http.Client) *Resolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Resolver{mirrorClient: mirrorClient, httpClient: httpClient}
}

func (r *Resolver) Fetch(ctx context.Context, uri string) ([]byte, error) {
	trimmed := strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(trimmed, "hcs://"):
		return r.resolveHCS1(ctx, trimmed)
	case strings.HasPrefix(trimmed, "https://"), strings.HasPrefix(trimmed, "http://"):
		return r.fetchHTTP(ctx, trimmed)
	default:
		return nil, fmt.Errorf("unsupported URI %q", uri)
	}
}

func (r *Resolver) resolveHCS1(ctx context.Context, reference string) ([]byte, error) {
	matches := hcs1ReferencePattern.FindStringSubmatch(reference)
	if len(matches) != 2 {
		return nil, fmt.Errorf("invalid HCS-1 reference %q", reference)
	}
	if r.mirrorClient == nil {
		return nil, fmt.Errorf("mirror client is required to resolve %s", reference)
	}

	topicMessages, err := r.mirrorClient.GetTopicMessages(ctx, matches[1], mirror.MessageQueryOptions{
		Order: "asc",
	})
	if err != nil {
		return nil, err
	}
	if len(topicMessages) == 0 {
		return nil, fmt.Errorf("no HCS-1 payload found at %s", reference)
	}

	if content, ok := joinOrderedChunks(topicMessages); ok {
		return decodeHCS1Content(content)
	}
	return decodeHCS1PayloadFromMessage(reference, topicMessages[0], topicMessages)
}

func (r *Resolver) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	response, err := r.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", uri, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s failed with status %d", uri, response.StatusCode)
	}
	return body, nil
}

// Verify fetches uri and compares its SHA-256 with expected.
func Verify(ctx context.Context, fetcher Fetcher, uri string, expected []byte) error {
	actual, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return err
	}
	if want, got := Digest(expected), Digest(actual); want != got {
		return &MismatchError{URI: uri, Expected: want, Actual: got}
	}
	return nil
}

type hcs1Chunk struct {
	Order   *int   `json:"o"`
	Content string `json:"c"`
}

// joinOrderedChunks concatenates {"o":n,"c":"..."} messages in order. It reports false
// when the topic does not use that layout or the sequence has gaps.
func joinOrderedChunks(topicMessages []mirror.TopicMessage) (string, bool) {
	chunks := map[int]string{}
	for _, topicMessage := range topicMessages {
		payload, err := mirror.DecodeMessageData(topicMessage)
		if err != nil {
			return "", false
		}
		var chunk hcs1Chunk
		if err := json.Unmarshal(payload, &chunk); err != nil || chunk.Order == nil {
			return "", false
		}
		if _, seen := chunks[*chunk.Order]; !seen {
			chunks[*chunk.Order] = chunk.Content
		}
	}

	var builder strings.Builder
	for order := 0; order < len(chunks); order++ {
		content, ok := chunks[order]
		if !ok {
			return "", false
		}
		builder.WriteString(content)
	}
	return builder.String(), true
}

func decodeHCS1Content(content string) ([]byte, error) {
	decoded, err := decodeDataURLPayload(content)
	if err != nil {
		return nil, err
	}
	return maybeDecompress(decoded), nil
}

func decodeHCS1PayloadFromMessage(
	reference string,
	message mirror.TopicMessage,
	topicMessages []mirror.TopicMessage,
) ([]byte, error) {
	payload, err := mirror.DecodeMessageData(message)
	if err != nil {
		return nil, err
	}

	if message.ChunkInfo == nil || message.ChunkInfo.Total <= 1 {
		return normalizeHCS1Payload(payload)
	}

	chunkTransactionID := extractChunkTransactionID(message.ChunkInfo.InitialTransactionID)
	if chunkTransactionID == "" {
		return nil, fmt.Errorf("chunked HCS-1 payload at %s is missing initial transaction ID", reference)
	}

	chunks := map[int][]byte{}
	for _, topicMessage := range topicMessages {
		if topicMessage.ChunkInfo == nil ||
			topicMessage.ChunkInfo.Total != message.ChunkInfo.Total ||
			topicMessage.ChunkInfo.Number <= 0 {
			continue
		}
		if extractChunkTransactionID(topicMessage.ChunkInfo.InitialTransactionID) != chunkTransactionID {
			continue
		}

		chunkPayload, decodeErr := mirror.DecodeMessageData(topicMessage)
		if decodeErr != nil {
			return nil, decodeErr
		}
		chunks[topicMessage.ChunkInfo.Number] = chunkPayload
	}

	if len(chunks) != message.ChunkInfo.Total {
		return nil, fmt.Errorf(
			"chunked HCS-1 payload at %s incomplete: expected %d chunks, found %d",
			reference,
			message.ChunkInfo.Total,
			len(chunks),
		)
	}

	chunkNumbers := make([]int, 0, len(chunks))
	totalLength := 0
	for chunkNumber, chunkPayload := range chunks {
		chunkNumbers = append(chunkNumbers, chunkNumber)
		totalLength += len(chunkPayload)
	}
	sort.Ints(chunkNumbers)

	combined := make([]byte, 0, totalLength)
	for expected := 1; expected <= len(chunkNumbers); expected++ {
		if chunkNumbers[expected-1] != expected {
			return nil, fmt.Errorf("chunked HCS-1 payload at %s missing chunk %d", reference, expected)
		}
		combined = append(combined, chunks[expected]...)
	}

	return normalizeHCS1Payload(combined)
}

func normalizeHCS1Payload(payload []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !bytes.Contains(trimmed, []byte(`"c"`)) {
		return payload, nil
	}

	var wrapped hcs1Chunk
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || strings.TrimSpace(wrapped.Content) == "" {
		return payload, nil
	}
	return decodeHCS1Content(wrapped.Content)
}

// maybeDecompress returns the brotli-decoded form of data, or data itself when it is
// not a brotli stream.
func maybeDecompress(data []byte) []byte {
	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err == nil && len(decompressed) > 0 {
		return decompressed
	}
	return data
}

func decodeDataURLPayload(input string) ([]byte, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "data:") {
		return nil, fmt.Errorf("unsupported wrapped HCS-1 payload format")
	}

	parts := strings.SplitN(trimmed, ",", dataURLPartCount)
	if len(parts) != dataURLPartCount {
		return nil, fmt.Errorf("invalid wrapped HCS-1 data URL")
	}

	header := strings.ToLower(parts[0])
	if strings.Contains(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to decode wrapped HCS-1 base64 payload: %w", err)
		}
		return decoded, nil
	}

	unescaped, err := url.QueryUnescape(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode wrapped HCS-1 payload: %w", err)
	}
	return []byte(unescaped), nil
}

func extractChunkTransactionID(initialTransactionID any) string {
	switch typed := initialTransactionID.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		accountID, _ := typed["account_id"].(string)
		validStart, _ := typed["transaction_valid_start"].(string)
		if strings.TrimSpace(validStart) == "" {
			validStart, _ = typed["valid_start_timestamp"].(string)
		}
		if strings.TrimSpace(accountID) != "" && strings.TrimSpace(validStart) != "" {
			return accountID + "@" + validStart
		}
	}
	return ""
}
