package shared

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const testPrivateKey = "302e020100300506032b65700422042091132178e72057a1d7528025956fe39b0b847f200ab59b2fdd367017f3087137"

var operatorEnvKeys = []string{
	"HEDERA_NETWORK",
	"NETWORK",
	"HEDERA_ACCOUNT_ID",
	"HEDERA_OPERATOR_ID",
	"ACCOUNT_ID",
	"OPERATOR_ID",
	"HEDERA_PRIVATE_KEY",
	"HEDERA_OPERATOR_KEY",
	"PRIVATE_KEY",
	"OPERATOR_KEY",
	"MAINNET_HEDERA_ACCOUNT_ID",
	"MAINNET_HEDERA_OPERATOR_ID",
	"MAINNET_OPERATOR_ID",
	"MAINNET_HEDERA_PRIVATE_KEY",
	"MAINNET_HEDERA_OPERATOR_KEY",
	"MAINNET_OPERATOR_KEY",
	"TESTNET_HEDERA_ACCOUNT_ID",
	"TESTNET_HEDERA_OPERATOR_ID",
	"TESTNET_OPERATOR_ID",
	"TESTNET_HEDERA_PRIVATE_KEY",
	"TESTNET_HEDERA_OPERATOR_KEY",
	"TESTNET_OPERATOR_KEY",
	"MEDIAMINT_KEYPAIR_PATH",
	"KEYPAIR_PATH",
	"MEDIAMINT_TOKEN_ID",
	"MEDIAMINT_SUPPLY_KEY",
	"MEDIAMINT_STORAGE",
	"MEDIAMINT_S3_BUCKET",
	"MEDIAMINT_S3_REGION",
	"MEDIAMINT_S3_ENDPOINT",
	"MEDIAMINT_S3_PUBLIC_URL",
	"MEDIAMINT_S3_PREFIX",
	"MEDIAMINT_S3_ACCESS_KEY_ID",
	"MEDIAMINT_S3_SECRET_ACCESS_KEY",
	"AWS_REGION",
	"MEDIAMINT_LOG_LEVEL",
	"MEDIAMINT_LOG_FORMAT",
	"MEDIAMINT_CONFIRM_TIMEOUT",
}

func resetOperatorEnv(t *testing.T) {
	t.Helper()
	dotenvLoadOnce = sync.Once{}
	dotenvLoadOnce.Do(func() {})
	for _, key := range operatorEnvKeys {
		t.Setenv(key, "")
	}
}

func TestFirstNonEmptyEnv(t *testing.T) {
	t.Setenv("_TEST_FIRST_A", "")
	t.Setenv("_TEST_FIRST_B", " hello ")
	t.Setenv("_TEST_FIRST_BLANK", "   ")

	cases := []struct {
		keys []string
		want string
	}{
		{[]string{"_TEST_FIRST_A", "_TEST_FIRST_B"}, "hello"},
		{[]string{"_TEST_FIRST_BLANK"}, ""},
		{[]string{"_TEST_NONEXISTENT_1", "_TEST_NONEXISTENT_2"}, ""},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := firstNonEmptyEnv(tc.keys...); got != tc.want {
			t.Fatalf("firstNonEmptyEnv(%v) = %q, want %q", tc.keys, got, tc.want)
		}
	}
}

func TestParsePrivateKey(t *testing.T) {
	key, err := ParsePrivateKey("  " + testPrivateKey + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.PublicKey().StringRaw() == "" {
		t.Fatal("expected a usable key")
	}

	for _, raw := range []string{"", "   ", "notavalidkey"} {
		if _, err := ParsePrivateKey(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestOperatorConfigFromEnv(t *testing.T) {
	cases := []struct {
		name        string
		env         map[string]string
		wantAccount string
		wantNetwork string
		wantKeypair string
	}{
		{
			name:        "generic names",
			env:         map[string]string{"HEDERA_NETWORK": "testnet", "HEDERA_ACCOUNT_ID": "0.0.12345", "HEDERA_PRIVATE_KEY": testPrivateKey},
			wantAccount: "0.0.12345",
			wantNetwork: "testnet",
		},
		{
			name:        "network defaults to testnet",
			env:         map[string]string{"HEDERA_ACCOUNT_ID": "0.0.12345", "HEDERA_PRIVATE_KEY": testPrivateKey},
			wantAccount: "0.0.12345",
			wantNetwork: "testnet",
		},
		{
			name: "mainnet scoped names win",
			env: map[string]string{
				"HEDERA_NETWORK":             "mainnet",
				"HEDERA_ACCOUNT_ID":          "0.0.11111",
				"HEDERA_PRIVATE_KEY":         testPrivateKey,
				"MAINNET_HEDERA_ACCOUNT_ID":  "0.0.99999",
				"MAINNET_HEDERA_PRIVATE_KEY": testPrivateKey,
			},
			wantAccount: "0.0.99999",
			wantNetwork: "mainnet",
		},
		{
			name: "testnet scoped names win",
			env: map[string]string{
				"NETWORK":             "TESTNET",
				"HEDERA_ACCOUNT_ID":   "0.0.11111",
				"TESTNET_OPERATOR_ID": "0.0.88888",
				"OPERATOR_KEY":        testPrivateKey,
			},
			wantAccount: "0.0.88888",
			wantNetwork: "TESTNET",
		},
		{
			name:        "operator aliases",
			env:         map[string]string{"OPERATOR_ID": "0.0.77777", "OPERATOR_KEY": testPrivateKey},
			wantAccount: "0.0.77777",
			wantNetwork: "testnet",
		},
		{
			name:        "keypair path defaults without a key",
			env:         map[string]string{"HEDERA_ACCOUNT_ID": "0.0.12345"},
			wantAccount: "0.0.12345",
			wantNetwork: "testnet",
			wantKeypair: DefaultKeypairPath,
		},
		{
			name:        "explicit keypair path",
			env:         map[string]string{"ACCOUNT_ID": "0.0.12345", "PRIVATE_KEY": testPrivateKey, "MEDIAMINT_KEYPAIR_PATH": "/tmp/keys/custom.json"},
			wantAccount: "0.0.12345",
			wantNetwork: "testnet",
			wantKeypair: "/tmp/keys/custom.json",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetOperatorEnv(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			config, err := OperatorConfigFromEnv()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.AccountID != tc.wantAccount || config.Network != tc.wantNetwork || config.KeypairPath != tc.wantKeypair {
				t.Fatalf("unexpected config %+v", config)
			}
		})
	}
}

func TestOperatorConfigFromEnvMissingAccountID(t *testing.T) {
	resetOperatorEnv(t)
	t.Setenv("HEDERA_PRIVATE_KEY", testPrivateKey)

	if _, err := OperatorConfigFromEnv(); err == nil {
		t.Fatal("expected error for missing account ID")
	}
}

func TestNetworkFromEnv(t *testing.T) {
	resetOperatorEnv(t)

	network, err := NetworkFromEnv()
	if err != nil || network != "testnet" {
		t.Fatalf("expected testnet default, got %q (%v)", network, err)
	}

	t.Setenv("NETWORK", "Mainnet")
	network, err = NetworkFromEnv()
	if err != nil || network != "mainnet" {
		t.Fatalf("expected mainnet, got %q (%v)", network, err)
	}

	t.Setenv("HEDERA_NETWORK", "devnet")
	if _, err := NetworkFromEnv(); err == nil {
		t.Fatal("expected unsupported network error")
	}
}

func TestFindDotEnvWalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	envPath := filepath.Join(root, ".env")
	if err := os.WriteFile(envPath, []byte("X=1\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if found := findDotEnv([]string{nested}); found != envPath {
		t.Fatalf("expected %s, got %q", envPath, found)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	t.Setenv("_TEST_DOTENV_PREEXIST", "original")
	for _, key := range []string{"_TEST_DOTENV_PLAIN", "_TEST_DOTENV_EXPORT", "_TEST_DOTENV_DQ", "_TEST_DOTENV_SQ"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	envPath := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		"# comment",
		"",
		"_TEST_DOTENV_PLAIN=yes",
		"export _TEST_DOTENV_EXPORT=exported",
		`_TEST_DOTENV_DQ="double-quoted"`,
		"_TEST_DOTENV_SQ='single-quoted'",
		"_TEST_DOTENV_PREEXIST=overridden",
	}, "\n")
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	if err := loadDotEnvFile(envPath); err != nil {
		t.Fatalf("loadDotEnvFile failed: %v", err)
	}

	want := map[string]string{
		"_TEST_DOTENV_PLAIN":    "yes",
		"_TEST_DOTENV_EXPORT":   "exported",
		"_TEST_DOTENV_DQ":       "double-quoted",
		"_TEST_DOTENV_SQ":       "single-quoted",
		"_TEST_DOTENV_PREEXIST": "original",
	}
	for key, value := range want {
		if got := os.Getenv(key); got != value {
			t.Fatalf("%s = %q, want %q", key, got, value)
		}
	}
}

func TestLoadDotEnvFileNonexistent(t *testing.T) {
	if err := loadDotEnvFile(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("expected an error for a nonexistent file")
	}
}
