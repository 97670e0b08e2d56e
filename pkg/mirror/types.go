package mirror

type TopicMessage struct {
	ConsensusTimestamp string     `json:"consensus_timestamp"`
	ChunkInfo          *ChunkInfo `json:"chunk_info,omitempty"`
	Message            string     `json:"message"`
	PayerAccountID     string     `json:"payer_account_id"`
	SequenceNumber     int64      `json:"sequence_number"`
	TopicID            string     `json:"topic_id"`
}

type ChunkInfo struct {
	InitialTransactionID any `json:"initial_transaction_id,omitempty"`
	Number               int `json:"number,omitempty"`
	Total                int `json:"total,omitempty"`
}

type topicMessagesPage struct {
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
	Messages []TopicMessage `json:"messages"`
}

// NFT is one serial as the mirror node reports it. Metadata is base64.
type NFT struct {
	AccountID         string `json:"account_id"`
	CreatedTimestamp  string `json:"created_timestamp"`
	Deleted           bool   `json:"deleted"`
	Metadata          string `json:"metadata"`
	ModifiedTimestamp string `json:"modified_timestamp"`
	SerialNumber      int64  `json:"serial_number"`
	TokenID           string `json:"token_id"`
}

type TokenInfo struct {
	TokenID     string `json:"token_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Type        string `json:"type"`
	TotalSupply string `json:"total_supply"`
	MaxSupply   string `json:"max_supply"`
	SupplyType  string `json:"supply_type"`
	Treasury    string `json:"treasury_account_id"`
	Memo        string `json:"memo"`
}
