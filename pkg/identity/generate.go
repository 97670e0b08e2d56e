package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

type GenerateOptions struct {
	AccountID string
	Overwrite bool
}

// Generate creates a new ED25519 key and writes it to path as a JSON array of the
// 32-byte seed followed by the 32-byte public key. The file is created with mode 0600
// and an existing file is only replaced when Overwrite is set.
func Generate(path string, options GenerateOptions) (*Identity, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, fmt.Errorf("key file path is required")
	}

	privateKey, err := hedera.PrivateKeyGenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	secret := make([]byte, 0, keypairLength)
	secret = append(secret, privateKey.BytesRaw()...)
	secret = append(secret, privateKey.PublicKey().BytesRaw()...)
	if err := writeSecret(trimmedPath, secret, options.Overwrite); err != nil {
		return nil, err
	}

	identity := &Identity{
		secret:     secret,
		privateKey: privateKey,
		keyType:    KeyTypeED25519,
	}
	if err := identity.setAccountID(options.AccountID); err != nil {
		return nil, err
	}
	return identity, nil
}

func writeSecret(path string, secret []byte, overwrite bool) error {
	values := make([]int, len(secret))
	for index, value := range secret {
		values[index] = int(value)
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create key directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("key file %s already exists", path)
		}
		return fmt.Errorf("failed to create key file: %w", err)
	}

	if _, err := file.Write(encoded); err != nil {
		file.Close()
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return file.Close()
}
