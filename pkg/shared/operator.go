package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/joho/godotenv"
)

const DefaultKeypairPath = "hedera-keypair.json"

// OperatorConfig identifies the paying account. The signing key comes either from
// PrivateKey or from the JSON key file at KeypairPath.
type OperatorConfig struct {
	AccountID   string
	PrivateKey  string
	Network     string
	KeypairPath string
}

// envAliases lists the variable names one setting may be given under, in priority
// order. Network scoped names win over the generic ones.
type envAliases struct {
	generic []string
	scoped  map[string][]string
}

func (a envAliases) lookup(network string) string {
	if value := firstNonEmptyEnv(a.scoped[network]...); value != "" {
		return value
	}
	return firstNonEmptyEnv(a.generic...)
}

var (
	networkEnv = []string{"HEDERA_NETWORK", "NETWORK"}
	keypairEnv = []string{"MEDIAMINT_KEYPAIR_PATH", "KEYPAIR_PATH"}

	accountEnv = envAliases{
		generic: []string{"HEDERA_ACCOUNT_ID", "HEDERA_OPERATOR_ID", "ACCOUNT_ID", "OPERATOR_ID"},
		scoped: map[string][]string{
			NetworkMainnet: {"MAINNET_HEDERA_ACCOUNT_ID", "MAINNET_HEDERA_OPERATOR_ID", "MAINNET_OPERATOR_ID"},
			NetworkTestnet: {"TESTNET_HEDERA_ACCOUNT_ID", "TESTNET_HEDERA_OPERATOR_ID", "TESTNET_OPERATOR_ID"},
		},
	}
	privateKeyEnv = envAliases{
		generic: []string{"HEDERA_PRIVATE_KEY", "HEDERA_OPERATOR_KEY", "PRIVATE_KEY", "OPERATOR_KEY"},
		scoped: map[string][]string{
			NetworkMainnet: {"MAINNET_HEDERA_PRIVATE_KEY", "MAINNET_HEDERA_OPERATOR_KEY", "MAINNET_OPERATOR_KEY"},
			NetworkTestnet: {"TESTNET_HEDERA_PRIVATE_KEY", "TESTNET_HEDERA_OPERATOR_KEY", "TESTNET_OPERATOR_KEY"},
		},
	}
)

var dotenvLoadOnce sync.Once

// OperatorConfigFromEnv reads operator settings from the environment, loading a .env
// file from the working directory or one of its parents first.
func OperatorConfigFromEnv() (OperatorConfig, error) {
	loadDotEnvIfPresent()

	network := firstNonEmptyEnv(networkEnv...)
	if network == "" {
		network = NetworkTestnet
	}
	scope := strings.ToLower(network)

	config := OperatorConfig{
		AccountID:   accountEnv.lookup(scope),
		PrivateKey:  privateKeyEnv.lookup(scope),
		Network:     network,
		KeypairPath: firstNonEmptyEnv(keypairEnv...),
	}
	if config.AccountID == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_ACCOUNT_ID is required")
	}
	if config.PrivateKey == "" && config.KeypairPath == "" {
		config.KeypairPath = DefaultKeypairPath
	}
	return config, nil
}

// NetworkFromEnv returns the configured network for commands that need no operator
// account, such as reading content back from the mirror node.
func NetworkFromEnv() (string, error) {
	loadDotEnvIfPresent()
	return NormalizeNetwork(firstNonEmptyEnv(networkEnv...))
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		roots := make([]string, 0, 2)
		if cwd, err := os.Getwd(); err == nil {
			roots = append(roots, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			roots = append(roots, filepath.Dir(currentFile))
		}

		if candidate := findDotEnv(roots); candidate != "" {
			_ = loadDotEnvFile(candidate)
		}
	})
}

// findDotEnv walks up from each root and returns the first .env file found.
func findDotEnv(roots []string) string {
	checked := make(map[string]bool)
	for _, root := range roots {
		for dir := root; ; dir = filepath.Dir(dir) {
			candidate := filepath.Join(dir, ".env")
			if !checked[candidate] {
				checked[candidate] = true
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					return candidate
				}
			}
			if filepath.Dir(dir) == dir {
				break
			}
		}
	}
	return ""
}

// loadDotEnvFile sets the variables defined in path that are not already set.
func loadDotEnvFile(path string) error {
	return godotenv.Load(path)
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// ParsePrivateKey parses a DER or hex encoded key, trying ED25519 first, then ECDSA.
func ParsePrivateKey(raw string) (hedera.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PrivateKey{}, fmt.Errorf("private key cannot be empty")
	}

	parsers := []struct {
		name  string
		parse func(string) (hedera.PrivateKey, error)
	}{
		{"ED25519", hedera.PrivateKeyFromStringEd25519},
		{"ECDSA", hedera.PrivateKeyFromStringECDSA},
		{"generic", hedera.PrivateKeyFromString},
	}

	failures := make([]string, 0, len(parsers))
	for _, parser := range parsers {
		key, err := parser.parse(candidate)
		if err == nil {
			return key, nil
		}
		failures = append(failures, fmt.Sprintf("%s (%v)", parser.name, err))
	}
	return hedera.PrivateKey{}, fmt.Errorf("failed to parse private key as %s", strings.Join(failures, ", "))
}
