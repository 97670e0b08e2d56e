package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Network: "testnet", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClientDefaultsPerNetwork(t *testing.T) {
	cases := map[string]string{
		"testnet":    "https://testnet.mirrornode.hedera.com",
		"mainnet":    "https://mainnet-public.mirrornode.hedera.com",
		"previewnet": "https://previewnet.mirrornode.hedera.com",
	}
	for network, expected := range cases {
		client, err := NewClient(Config{Network: network})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", network, err)
		}
		if client.BaseURL() != expected {
			t.Fatalf("%s: unexpected base URL %s", network, client.BaseURL())
		}
	}
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, baseURL := range []string{"ftp://mirror.example.com", "https://"} {
		if _, err := NewClient(Config{Network: "testnet", BaseURL: baseURL}); err == nil {
			t.Fatalf("expected error for %q", baseURL)
		}
	}
	if _, err := NewClient(Config{Network: "badnet"}); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}

func TestGetTopicMessagesFollowsPagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		page := topicMessagesPage{}
		if calls == 1 {
			if r.URL.Query().Get("order") != "asc" || r.URL.Query().Get("limit") != "25" {
				t.Fatalf("expected order and limit query, got %s", r.URL.RawQuery)
			}
			page.Messages = []TopicMessage{{SequenceNumber: 1, Message: base64.StdEncoding.EncodeToString([]byte("a"))}}
			page.Links.Next = "/api/v1/topics/0.0.1/messages?page=2"
		} else {
			if r.URL.Query().Get("page") != "2" {
				t.Fatalf("expected next link to be followed, got %s", r.URL.RawQuery)
			}
			page.Messages = []TopicMessage{{SequenceNumber: 2, Message: base64.StdEncoding.EncodeToString([]byte("b"))}}
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	messages, err := client.GetTopicMessages(context.Background(), "0.0.1", MessageQueryOptions{Order: "asc", Limit: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 || calls != 2 {
		t.Fatalf("expected 2 messages over 2 pages, got %d messages and %d calls", len(messages), calls)
	}

	data, err := DecodeMessageData(messages[1])
	if err != nil || string(data) != "b" {
		t.Fatalf("unexpected message data %q, %v", data, err)
	}
	if _, err := DecodeMessageData(TopicMessage{}); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := client.GetTopicMessages(context.Background(), " ", MessageQueryOptions{}); err == nil {
		t.Fatal("expected error for blank topic ID")
	}
}

func TestGetNFTAndDecodeMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tokens/0.0.777/nfts/4" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(NFT{
			TokenID:      "0.0.777",
			SerialNumber: 4,
			AccountID:    "0.0.1001",
			Metadata:     base64.StdEncoding.EncodeToString([]byte("hcs://1/0.0.9000")),
		})
	})

	nft, err := client.GetNFT(context.Background(), "0.0.777", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uri, err := DecodeNFTMetadata(*nft)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if uri != "hcs://1/0.0.9000" || nft.AccountID != "0.0.1001" {
		t.Fatalf("unexpected NFT %+v with metadata %q", nft, uri)
	}

	if _, err := client.GetNFT(context.Background(), "0.0.777", 0); err == nil {
		t.Fatal("expected error for zero serial")
	}
	if _, err := DecodeNFTMetadata(NFT{}); err == nil {
		t.Fatal("expected error for empty metadata")
	}
	if _, err := DecodeNFTMetadata(NFT{Metadata: "%%%"}); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestGetToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TokenInfo{TokenID: "0.0.777", Type: "NON_FUNGIBLE_UNIQUE", Name: "Media"})
	})

	token, err := client.GetToken(context.Background(), "0.0.777")
	if err != nil || token.Type != "NON_FUNGIBLE_UNIQUE" {
		t.Fatalf("unexpected result %+v, %v", token, err)
	}
	if _, err := client.GetToken(context.Background(), ""); err == nil {
		t.Fatal("expected error for blank token ID")
	}
}

func TestRequestsSendHeadersAndReportStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer mirror-key" {
			t.Fatalf("missing authorization header")
		}
		if r.Header.Get("X-Trace") != "run-1" || r.Header.Get("Accept") != "application/json" {
			t.Fatalf("missing request headers: %v", r.Header)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"_status":{"messages":[{"message":"Not found"}]}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Network: "testnet",
		BaseURL: server.URL,
		APIKey:  "mirror-key",
		Headers: map[string]string{"X-Trace": "run-1"},
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.GetToken(context.Background(), "0.0.1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || !statusErr.NotFound() {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestResolveURL(t *testing.T) {
	client, _ := NewClient(Config{Network: "testnet", BaseURL: "https://mirror.example.com/"})
	if got := client.resolveURL("api/v1/x"); got != "https://mirror.example.com/api/v1/x" {
		t.Fatalf("unexpected relative resolution %s", got)
	}
	if got := client.resolveURL("/api/v1/x"); got != "https://mirror.example.com/api/v1/x" {
		t.Fatalf("unexpected rooted resolution %s", got)
	}
	if got := client.resolveURL("https://other.example.com/next"); got != "https://other.example.com/next" {
		t.Fatalf("unexpected absolute resolution %s", got)
	}
}
