package identity

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

func writeKeyFile(t *testing.T, values []int) string {
	t.Helper()
	encoded, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return path
}

func byteValues(raw []byte) []int {
	values := make([]int, len(raw))
	for index, value := range raw {
		values[index] = int(value)
	}
	return values
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, []byte(`{"secret":"abc"}`), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	_, err := Load(path, Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	values := make([]int, 32)
	values[4] = 256
	_, err := Load(writeKeyFile(t, values), Options{})
	if err == nil || !strings.Contains(err.Error(), "not a byte") {
		t.Fatalf("expected byte range error, got %v", err)
	}
}

func TestLoadRejectsWrongLength(t *testing.T) {
	_, err := Load(writeKeyFile(t, make([]int, 48)), Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !strings.Contains(err.Error(), "got 48") {
		t.Fatalf("expected length in error, got %v", err)
	}
}

func TestLoadED25519Keypair(t *testing.T) {
	privateKey, err := hedera.PrivateKeyGenerateEd25519()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	secret := append([]byte(nil), privateKey.BytesRaw()...)
	secret = append(secret, privateKey.PublicKey().BytesRaw()...)

	identity, err := Load(writeKeyFile(t, byteValues(secret)), Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if identity.PublicKey().String() != privateKey.PublicKey().String() {
		t.Fatalf("public key mismatch")
	}
	if identity.KeyType() != KeyTypeED25519 {
		t.Fatalf("unexpected key type %s", identity.KeyType())
	}
}

func TestLoadRejectsMismatchedKeypair(t *testing.T) {
	first, _ := hedera.PrivateKeyGenerateEd25519()
	second, _ := hedera.PrivateKeyGenerateEd25519()
	secret := append([]byte(nil), first.BytesRaw()...)
	secret = append(secret, second.PublicKey().BytesRaw()...)

	_, err := Load(writeKeyFile(t, byteValues(secret)), Options{})
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestLoadED25519Seed(t *testing.T) {
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()
	identity, err := Load(writeKeyFile(t, byteValues(privateKey.BytesRaw())), Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if identity.PublicKey().String() != privateKey.PublicKey().String() {
		t.Fatalf("public key mismatch")
	}
}

func TestLoadECDSAScalar(t *testing.T) {
	privateKey, err := hedera.PrivateKeyGenerateEcdsa()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	identity, err := Load(writeKeyFile(t, byteValues(privateKey.BytesRaw())), Options{KeyType: KeyTypeECDSA})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if identity.KeyType() != KeyTypeECDSA {
		t.Fatalf("unexpected key type %s", identity.KeyType())
	}
	if identity.PublicKey().String() != privateKey.PublicKey().String() {
		t.Fatalf("public key mismatch")
	}
}

func TestLoadECDSARejectsZeroScalar(t *testing.T) {
	_, err := Load(writeKeyFile(t, make([]int, 32)), Options{KeyType: KeyTypeECDSA})
	if err == nil || !strings.Contains(err.Error(), "zero") {
		t.Fatalf("expected zero scalar error, got %v", err)
	}
}

func TestLoadECDSARejectsOverflow(t *testing.T) {
	values := make([]int, 32)
	for index := range values {
		values[index] = 255
	}
	_, err := Load(writeKeyFile(t, values), Options{KeyType: KeyTypeECDSA})
	if err == nil || !strings.Contains(err.Error(), "curve order") {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestAddressPrefersAccountID(t *testing.T) {
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()
	identity, err := Load(writeKeyFile(t, byteValues(privateKey.BytesRaw())), Options{AccountID: "0.0.4321"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if identity.Address() != "0.0.4321" {
		t.Fatalf("unexpected address %s", identity.Address())
	}
	accountID, ok := identity.AccountID()
	if !ok || accountID.Account != 4321 {
		t.Fatalf("unexpected account ID %v", accountID)
	}
}

func TestAddressFallsBackToAlias(t *testing.T) {
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()
	identity, err := FromPrivateKey(privateKey, "")
	if err != nil {
		t.Fatalf("FromPrivateKey failed: %v", err)
	}
	address := identity.Address()
	if !strings.HasPrefix(address, "0.0.") {
		t.Fatalf("expected alias account ID, got %s", address)
	}
	if address != identity.Address() {
		t.Fatalf("address is not stable")
	}
}

func TestSignVerifies(t *testing.T) {
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()
	identity, _ := FromPrivateKey(privateKey, "")
	message := []byte("challenge")
	if !identity.PublicKey().Verify(message, identity.Sign(message)) {
		t.Fatalf("signature did not verify")
	}
}

func TestResolvePrefersInlineKey(t *testing.T) {
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()
	identity, err := Resolve(shared.OperatorConfig{
		AccountID:   "0.0.100",
		PrivateKey:  privateKey.String(),
		KeypairPath: filepath.Join(t.TempDir(), "absent.json"),
	}, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if identity.PublicKey().String() != privateKey.PublicKey().String() {
		t.Fatalf("public key mismatch")
	}
}

func TestResolveReadsKeyFile(t *testing.T) {
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()
	path := writeKeyFile(t, byteValues(privateKey.BytesRaw()))
	identity, err := Resolve(shared.OperatorConfig{AccountID: "0.0.100", KeypairPath: path}, KeyTypeED25519)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if identity.Address() != "0.0.100" {
		t.Fatalf("unexpected address %s", identity.Address())
	}
}

func TestGenerateWritesLoadableKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hedera-keypair.json")
	generated, err := Generate(path, GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.PublicKey().String() != generated.PublicKey().String() {
		t.Fatalf("public key mismatch after reload")
	}
	if len(loaded.SecretBytes()) != 64 {
		t.Fatalf("expected 64 secret bytes, got %d", len(loaded.SecretBytes()))
	}
}

func TestGenerateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, []byte("keep"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Generate(path, GenerateOptions{}); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	contents, _ := os.ReadFile(path)
	if string(contents) != "keep" {
		t.Fatalf("existing file was modified")
	}

	if _, err := Generate(path, GenerateOptions{Overwrite: true}); err != nil {
		t.Fatalf("Generate with overwrite failed: %v", err)
	}
}
