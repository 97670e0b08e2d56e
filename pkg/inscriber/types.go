package inscriber

import hedera "github.com/hashgraph/hedera-sdk-go/v2"

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

type InscriptionMode string

const (
	ModeFile   InscriptionMode = "file"
	ModeUpload InscriptionMode = "upload"
)

type ConnectionMode string

const (
	ConnectionModeHTTP      ConnectionMode = "http"
	ConnectionModeWebSocket ConnectionMode = "websocket"
	ConnectionModeAuto      ConnectionMode = "auto"
)

type FileInput struct {
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64,omitempty"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

type ProgressStage string

const (
	ProgressStageSubmitting ProgressStage = "submitting"
	ProgressStagePaying     ProgressStage = "paying"
	ProgressStageConfirming ProgressStage = "confirming"
	ProgressStageCompleted  ProgressStage = "completed"
)

type ProgressData struct {
	Stage           ProgressStage
	Message         string
	ProgressPercent float64
	Details         map[string]any
}

type ProgressCallback func(data ProgressData)

type StartInscriptionRequest struct {
	File         FileInput       `json:"file"`
	HolderID     string          `json:"holderId"`
	Mode         InscriptionMode `json:"mode"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Creator      string          `json:"creator,omitempty"`
	Description  string          `json:"description,omitempty"`
	FileStandard string          `json:"fileStandard,omitempty"`
	ChunkSize    int             `json:"chunkSize,omitempty"`
}

// Payer is the account that signs and pays for the inscription transaction.
type Payer struct {
	Network    string
	AccountID  hedera.AccountID
	PrivateKey hedera.PrivateKey
}

type InscriptionJob struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	Completed        bool   `json:"completed"`
	TransactionID    string `json:"transactionId,omitempty"`
	TransactionBytes string `json:"transactionBytes,omitempty"`
	TxID             string `json:"tx_id,omitempty"`
	TopicID          string `json:"topic_id,omitempty"`
	Error            string `json:"error,omitempty"`
	TotalCost        int64  `json:"totalCost,omitempty"`
	TotalMessages    int64  `json:"totalMessages,omitempty"`
}

type InscriptionResult struct {
	JobID         string `json:"jobId"`
	TransactionID string `json:"transactionId"`
	TopicID       string `json:"topicId,omitempty"`
	Status        string `json:"status,omitempty"`
	Completed     bool   `json:"completed"`
}

// HRL is the hcs://1 reference of the inscribed file.
func (r InscriptionResult) HRL() string {
	if r.TopicID == "" {
		return ""
	}
	return "hcs://1/" + r.TopicID
}

type AuthResult struct {
	APIKey string `json:"apiKey"`
}
