package inscriber

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://v2-api.tier.bot/api"

// TransactionExecutor signs and submits the base64 transaction returned by a started
// inscription and returns the executed transaction ID.
type TransactionExecutor func(ctx context.Context, transactionBytes string, payer Payer) (string, error)

type Config struct {
	APIKey                     string
	Network                    Network
	BaseURL                    string
	HTTPClient                 *http.Client
	ConnectionMode             ConnectionMode
	WebSocketBaseURL           string
	WebSocketInactivityTimeout time.Duration
	Executor                   TransactionExecutor
	Logger                     *zap.Logger
}

type Client struct {
	apiKey                     string
	network                    Network
	baseURL                    string
	httpClient                 *http.Client
	connectionMode             ConnectionMode
	webSocketBaseURL           string
	webSocketInactivityTimeout time.Duration
	execute                    TransactionExecutor
	logger                     *zap.Logger
}

type WaitOptions struct {
	MaxAttempts int
	Interval    time.Duration
	Progress    ProgressCallback
}

// NewClient creates an inscription API client bound to one network and API key.
func NewClient(config Config) (*Client, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	network, err := ParseNetwork(string(config.Network))
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	connectionMode := config.ConnectionMode
	if connectionMode == "" {
		connectionMode = ConnectionModeWebSocket
	}
	if connectionMode != ConnectionModeHTTP &&
		connectionMode != ConnectionModeWebSocket &&
		connectionMode != ConnectionModeAuto {
		return nil, fmt.Errorf("connection mode must be http, websocket, or auto")
	}

	executor := config.Executor
	if executor == nil {
		executor = ExecuteTransaction
	}

	return &Client{
		apiKey:                     apiKey,
		network:                    network,
		baseURL:                    baseURL,
		httpClient:                 httpClient,
		connectionMode:             connectionMode,
		webSocketBaseURL:           strings.TrimSpace(config.WebSocketBaseURL),
		webSocketInactivityTimeout: config.WebSocketInactivityTimeout,
		execute:                    executor,
		logger:                     shared.LoggerOrNop(config.Logger),
	}, nil
}

// ParseNetwork maps a ledger network name onto the networks the inscription service
// supports. Blank means mainnet.
func ParseNetwork(value string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(value))) {
	case "", NetworkMainnet:
		return NetworkMainnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	default:
		return "", fmt.Errorf("inscription network must be mainnet or testnet, got %q", value)
	}
}

func (c *Client) Network() Network {
	return c.network
}

// startInscriptionBody is the wire form of StartInscriptionRequest. The file is
// flattened into either fileURL or the fileBase64 group.
type startInscriptionBody struct {
	HolderID     string          `json:"holderId"`
	Mode         InscriptionMode `json:"mode"`
	Network      Network         `json:"network"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	ChunkSize    int             `json:"chunkSize,omitempty"`
	Creator      string          `json:"creator,omitempty"`
	Description  string          `json:"description,omitempty"`
	FileStandard string          `json:"fileStandard,omitempty"`
	FileURL      string          `json:"fileURL,omitempty"`
	FileBase64   string          `json:"fileBase64,omitempty"`
	FileName     string          `json:"fileName,omitempty"`
	FileMimeType string          `json:"fileMimeType,omitempty"`
}

func (r StartInscriptionRequest) validate() error {
	switch {
	case strings.TrimSpace(r.HolderID) == "":
		return fmt.Errorf("holderId is required")
	case r.Mode == "":
		return fmt.Errorf("mode is required")
	case r.File.Type != "url" && r.File.Type != "base64":
		return fmt.Errorf("file.type must be url or base64")
	}
	return nil
}

func (r StartInscriptionRequest) body(network Network) startInscriptionBody {
	body := startInscriptionBody{
		HolderID:     r.HolderID,
		Mode:         r.Mode,
		Network:      network,
		Metadata:     r.Metadata,
		Tags:         r.Tags,
		ChunkSize:    r.ChunkSize,
		Creator:      strings.TrimSpace(r.Creator),
		Description:  strings.TrimSpace(r.Description),
		FileStandard: strings.TrimSpace(r.FileStandard),
	}
	if r.File.Type == "url" {
		body.FileURL = r.File.URL
		return body
	}
	body.FileBase64 = r.File.Base64
	body.FileName = r.File.FileName
	body.FileMimeType = r.File.MimeType
	return body
}

// StartInscription registers a file with the service and returns the job carrying the
// payment transaction the holder must execute.
func (c *Client) StartInscription(
	ctx context.Context,
	request StartInscriptionRequest,
) (InscriptionJob, error) {
	if err := request.validate(); err != nil {
		return InscriptionJob{}, err
	}

	var raw map[string]any
	if err := c.call(ctx, http.MethodPost, "/inscriptions/start-inscription", request.body(c.network), &raw); err != nil {
		return InscriptionJob{}, err
	}

	job, err := parseInscriptionJob(raw)
	if err != nil {
		return InscriptionJob{}, err
	}
	c.logger.Debug("inscription started",
		zap.String("tx_id", job.TxID),
		zap.String("file", request.File.FileName),
		zap.Int64("messages", job.TotalMessages),
	)
	return job, nil
}

func (c *Client) RetrieveInscription(ctx context.Context, txID string) (InscriptionJob, error) {
	normalizedID := normalizeTransactionID(txID)
	if normalizedID == "" {
		return InscriptionJob{}, fmt.Errorf("transaction ID is required")
	}

	endpoint := "/inscriptions/retrieve-inscription?id=" + url.QueryEscape(normalizedID)
	var raw map[string]any
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return InscriptionJob{}, err
	}

	job, err := parseInscriptionJob(raw)
	if err != nil {
		return InscriptionJob{}, err
	}
	if strings.EqualFold(job.Status, "completed") {
		job.Completed = true
	}
	if job.TxID == "" {
		job.TxID = normalizedID
	}

	return job, nil
}

// WaitForInscription polls the retrieve endpoint until the job completes or fails.
func (c *Client) WaitForInscription(
	ctx context.Context,
	txID string,
	options WaitOptions,
) (InscriptionJob, error) {
	maxAttempts := options.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 450
	}
	interval := options.Interval
	if interval <= 0 {
		interval = 4 * time.Second
	}

	var latest InscriptionJob
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, interval); err != nil {
				return InscriptionJob{}, err
			}
		}

		job, err := c.RetrieveInscription(ctx, txID)
		if err != nil {
			if isRetryableWaitError(err) && attempt < maxAttempts {
				continue
			}
			return InscriptionJob{}, err
		}
		latest = job

		switch {
		case strings.EqualFold(job.Status, "failed"):
			if job.Error == "" {
				job.Error = "inscription failed"
			}
			return job, errors.New(job.Error)
		case job.Completed:
			return job, nil
		}

		if options.Progress != nil {
			options.Progress(ProgressData{
				Stage:   ProgressStageConfirming,
				Message: "Waiting for inscription",
				Details: map[string]any{"attempt": attempt, "status": job.Status},
			})
		}
	}

	return latest, fmt.Errorf("inscription did not complete within %d attempts", maxAttempts)
}

// Wait waits for completion the way the client's connection mode prescribes: websocket
// modes listen for push events and fall back to HTTP polling when the socket fails.
func (c *Client) Wait(ctx context.Context, txID string, options WaitOptions) (InscriptionJob, error) {
	if c.connectionMode == ConnectionModeHTTP {
		return c.WaitForInscription(ctx, txID, options)
	}

	job, err := c.waitOverSocket(ctx, txID, options.Progress)
	if err == nil {
		return job, nil
	}
	if ctx.Err() != nil {
		return InscriptionJob{}, ctx.Err()
	}
	c.logger.Debug("websocket wait failed, polling instead", zap.String("tx_id", txID), zap.Error(err))
	return c.WaitForInscription(ctx, txID, options)
}

// InscribeAndExecute starts an inscription, pays for it and optionally waits for the
// file to land on its topic.
func (c *Client) InscribeAndExecute(
	ctx context.Context,
	request StartInscriptionRequest,
	payer Payer,
	wait *WaitOptions,
) (InscriptionResult, error) {
	job, err := c.StartInscription(ctx, request)
	if err != nil {
		return InscriptionResult{}, err
	}
	if strings.TrimSpace(job.TransactionBytes) == "" {
		return InscriptionResult{}, fmt.Errorf("inscription start did not include transaction bytes")
	}

	if wait != nil && wait.Progress != nil {
		wait.Progress(ProgressData{Stage: ProgressStagePaying, Message: "Executing inscription payment"})
	}
	transactionID, err := c.execute(ctx, job.TransactionBytes, payer)
	if err != nil {
		return InscriptionResult{}, err
	}

	result := InscriptionResult{
		JobID:         normalizeTransactionID(job.TxID),
		TransactionID: normalizeTransactionID(transactionID),
		TopicID:       job.TopicID,
		Status:        job.Status,
	}

	if wait == nil {
		return result, nil
	}

	waited, err := c.Wait(ctx, transactionID, *wait)
	if err != nil {
		return InscriptionResult{}, err
	}

	if strings.TrimSpace(waited.TopicID) != "" {
		result.TopicID = waited.TopicID
	}
	result.Status = waited.Status
	result.Completed = waited.Completed

	if wait.Progress != nil {
		wait.Progress(ProgressData{Stage: ProgressStageCompleted, Message: "Inscription completed", ProgressPercent: 100})
	}
	return result, nil
}

func parseInscriptionJob(raw map[string]any) (InscriptionJob, error) {
	job := InscriptionJob{
		ID:            stringField(raw, "id"),
		Status:        stringField(raw, "status"),
		TxID:          stringField(raw, "tx_id"),
		TopicID:       stringField(raw, "topic_id", "topicId"),
		TransactionID: stringField(raw, "transactionId"),
		Error:         stringField(raw, "error"),
		TotalCost:     int64(numberField(raw, "totalCost")),
		TotalMessages: int64(numberField(raw, "totalMessages")),
	}
	if completed, ok := raw["completed"].(bool); ok {
		job.Completed = completed
	}

	transactionBytes, err := normalizeTransactionBytes(raw["transactionBytes"])
	if err != nil {
		return InscriptionJob{}, err
	}
	job.TransactionBytes = transactionBytes

	return job, nil
}

// normalizeTransactionBytes accepts either a base64 string or a serialized Node Buffer
// object ({"type":"Buffer","data":[...]}).
func normalizeTransactionBytes(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case map[string]any:
		typeValue, _ := typed["type"].(string)
		if typeValue != "Buffer" {
			return "", fmt.Errorf("unsupported transactionBytes object type %q", typeValue)
		}
		items, ok := typed["data"].([]any)
		if !ok {
			return "", fmt.Errorf("transactionBytes Buffer object missing data array")
		}

		byteValues := make([]byte, 0, len(items))
		for _, item := range items {
			number, ok := item.(float64)
			if !ok {
				return "", fmt.Errorf("transactionBytes data includes non-numeric value %T", item)
			}
			byteValues = append(byteValues, byte(number))
		}

		return base64.StdEncoding.EncodeToString(byteValues), nil
	default:
		return "", fmt.Errorf("unsupported transactionBytes type %T", value)
	}
}

// normalizeTransactionID converts 0.0.1@1700000000.123 into the mirror node form
// 0.0.1-1700000000-123.
func normalizeTransactionID(txID string) string {
	trimmed := strings.TrimSpace(txID)
	if !strings.Contains(trimmed, "@") {
		return trimmed
	}

	parts := strings.Split(trimmed, "@")
	if len(parts) != 2 {
		return trimmed
	}

	return parts[0] + "-" + strings.ReplaceAll(parts[1], ".", "-")
}
