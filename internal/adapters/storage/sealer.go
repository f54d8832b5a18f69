package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/logging"
)

// ErrCorruptSealed is returned when a sealed value fails authentication
var ErrCorruptSealed = errors.New("sealed value could not be opened")

// Sealer encrypts token material at rest with XChaCha20-Poly1305.
// Sealed values are nonce || ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a Sealer from a 32-byte key
func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("invalid sealing key: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// LoadOrCreateSealer reads the key at keyPath, generating it on first use.
// Creation is serialized across processes by a lock file next to the key.
func LoadOrCreateSealer(keyPath string) (*Sealer, error) {
	keyPath = config.ExpandPath(keyPath)
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	lock, err := os.OpenFile(keyPath+".lock", os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open key lock: %w", err)
	}
	defer lock.Close()

	if err := lockFile(lock); err != nil {
		return nil, fmt.Errorf("failed to acquire key lock: %w", err)
	}
	defer unlockFile(lock)

	key, err := os.ReadFile(keyPath)
	if errors.Is(err, fs.ErrNotExist) {
		key, err = generateKey(keyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sealing key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sealing key %s has %d bytes, want %d", keyPath, len(key), chacha20poly1305.KeySize)
	}
	return NewSealer(key)
}

func generateKey(keyPath string) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	tmp := keyPath + ".tmp"
	if err := os.WriteFile(tmp, key, 0600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, keyPath); err != nil {
		os.Remove(tmp)
		return nil, err
	}

	logging.Logger.Info("Generated session sealing key", "path", keyPath)
	return key, nil
}

// Seal encrypts plaintext; label binds the value to its column
func (s *Sealer) Seal(plaintext, label string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(label)), nil
}

// Open decrypts a value produced by Seal with the same label
func (s *Sealer) Open(sealed []byte, label string) (string, error) {
	if len(sealed) < s.aead.NonceSize() {
		return "", ErrCorruptSealed
	}
	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, []byte(label))
	if err != nil {
		return "", ErrCorruptSealed
	}
	return string(plaintext), nil
}
