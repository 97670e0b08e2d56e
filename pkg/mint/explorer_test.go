package mint

import "testing"

func TestExplorerURLs(t *testing.T) {
	transactionURL, err := ExplorerTransactionURL("testnet", "0.0.1001@1714564800.000000000")
	if err != nil {
		t.Fatalf("ExplorerTransactionURL failed: %v", err)
	}
	if transactionURL != "https://hashscan.io/testnet/transaction/0.0.1001@1714564800.000000000" {
		t.Fatalf("unexpected transaction URL: %s", transactionURL)
	}

	tokenURL, err := ExplorerTokenURL("mainnet", "0.0.5005", 7)
	if err != nil {
		t.Fatalf("ExplorerTokenURL failed: %v", err)
	}
	if tokenURL != "https://hashscan.io/mainnet/token/0.0.5005/7" {
		t.Fatalf("unexpected token URL: %s", tokenURL)
	}

	collectionURL, _ := ExplorerTokenURL("previewnet", "0.0.5005", 0)
	if collectionURL != "https://hashscan.io/previewnet/token/0.0.5005" {
		t.Fatalf("unexpected collection URL: %s", collectionURL)
	}

	if _, err := ExplorerTransactionURL("devnet", "x"); err == nil {
		t.Fatal("expected unsupported network error")
	}
}
