package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	}
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlainTextCredentials(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	if err := store.Load(dir); err != nil {
		t.Fatalf("Load() on empty dir: %v", err)
	}
	store.Set("openai", "sk-test")
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials perms = %o, want 0600", info.Mode().Perm())
	}

	reloaded := NewCredentialStore(SecurityPlainText, "")
	if err := reloaded.Load(dir); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get("openai"); got != "sk-test" {
		t.Errorf("Get(openai) = %q", got)
	}

	reloaded.Delete("openai")
	if reloaded.Get("openai") != "" {
		t.Error("Delete did not remove the key")
	}
}

func TestSealedCredentials(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, "")

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	store.Set("anthropic", "sk-ant-test")
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || strings.Contains(string(data), "sk-ant-test") {
		t.Error("sealed file should not contain the plaintext key")
	}

	reloaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Get("anthropic"); got != "sk-ant-test" {
		t.Errorf("Get(anthropic) = %q", got)
	}

	other := NewCredentialStore(SecuritySSHKey, writeTestKey(t, ""))
	if err := other.Load(dir); err == nil {
		t.Error("a different key should not open the credentials")
	}
}

func TestSealerPassphrase(t *testing.T) {
	keyPath := writeTestKey(t, "hunter2")

	if _, err := NewSealer(keyPath, ""); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("NewSealer without passphrase = %v, want ErrPassphraseRequired", err)
	}
	if _, err := NewSealer(keyPath, "wrong"); err == nil {
		t.Error("expected error for wrong passphrase")
	}

	s, err := NewSealer(keyPath, "hunter2")
	if err != nil {
		t.Fatalf("NewSealer() error = %v", err)
	}
	sealed, err := s.Seal([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "payload" {
		t.Errorf("Open() = %q", plain)
	}
	if _, err := s.Open(sealed[:4]); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
