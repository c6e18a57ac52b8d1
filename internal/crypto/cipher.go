package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// NonceSize - размер nonce для XChaCha20-Poly1305 (24 bytes)
	NonceSize = chacha20poly1305.NonceSizeX
	// KeySize - размер ключа (32 bytes)
	KeySize = chacha20poly1305.KeySize

	// sealedPrefix версия формата запечатанного значения
	sealedPrefix = "v1."
)

var (
	// ErrMalformed значение не похоже на результат Seal
	ErrMalformed = errors.New("sealed value is malformed")
	// ErrOpenFailed неверный ключ, чужая метка или поврежденные данные
	ErrOpenFailed = errors.New("sealed value cannot be opened")
)

// Sealer шифрует короткие секреты (токены) для хранения на диске.
// Метка (label) идет в additional data AEAD: значение, запечатанное для
// "durable/access", не откроется как "ephemeral/refresh".
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer создает Sealer; key должен быть ровно 32 байта
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal шифрует plaintext и возвращает "v1." + base64url(nonce | ciphertext | tag)
func (s *Sealer) Seal(plaintext []byte, label string) (string, error) {
	if len(plaintext) == 0 {
		return "", fmt.Errorf("plaintext cannot be empty")
	}

	// Случайный nonce: 24 байта XChaCha достаточно для случайного выбора
	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, []byte(label))
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open расшифровывает значение, полученное из Seal с той же меткой
func (s *Sealer) Open(sealed, label string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: unknown format version", ErrMalformed)
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < NonceSize+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: too short", ErrMalformed)
	}

	plaintext, err := s.aead.Open(nil, raw[:NonceSize], raw[NonceSize:], []byte(label))
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
