// Package crypto encrypts third-party credentials at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// KeySize AES-256 密钥长度（字节）
	KeySize = 32
	// NonceSize 每次加密使用的随机 IV 长度
	NonceSize = 16
	// TagSize GCM 认证标签长度
	TagSize = 16
)

var (
	// ErrMalformed 密文不是合法的 base64
	ErrMalformed = errors.New("ciphertext is not valid base64")
	// ErrTooShort 密文长度不足 nonce + tag
	ErrTooShort = errors.New("ciphertext too short")
	// ErrAuthentication 认证标签校验失败（密文被篡改或密钥错误）
	ErrAuthentication = errors.New("message authentication failed")
)

// ConfigError reports a missing or unusable encryption key.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "crypto: invalid configuration: " + e.Reason
}

// CryptoError reports a failure to encrypt or decrypt a single value.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// TokenCipher AES-256-GCM 加密服务
// 输出格式：base64(nonce(16字节) || tag(16字节) || ciphertext)
type TokenCipher struct {
	aead cipher.AEAD
}

// NewTokenCipher builds a cipher from a 64 character hex key.
func NewTokenCipher(hexKey string) (*TokenCipher, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, &ConfigError{Reason: "encryption key is not set"}
	}
	if len(hexKey) != KeySize*2 {
		return nil, &ConfigError{Reason: fmt.Sprintf("encryption key must be %d hex characters, got %d", KeySize*2, len(hexKey))}
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, &ConfigError{Reason: "encryption key is not valid hex"}
	}
	return NewTokenCipherFromBytes(key)
}

// NewTokenCipherFromBytes builds a cipher from a raw 32 byte key.
func NewTokenCipherFromBytes(key []byte) (*TokenCipher, error) {
	if len(key) != KeySize {
		return nil, &ConfigError{Reason: fmt.Sprintf("encryption key must be %d bytes, got %d", KeySize, len(key))}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	// 16 字节 IV，与已存储的历史数据保持兼容
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	return &TokenCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
// An empty plaintext encrypts to an empty string.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", &ConfigError{Reason: "cipher is not initialized"}
	}
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", &CryptoError{Op: "encrypt", Err: fmt.Errorf("generate nonce: %w", err)}
	}

	// Seal 输出 ciphertext || tag，重新排列为 nonce || tag || ciphertext
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	body, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]

	out := make([]byte, 0, NonceSize+TagSize+len(body))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, body...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a blob produced by Encrypt.
func (c *TokenCipher) Decrypt(blob string) (string, error) {
	if c == nil || c.aead == nil {
		return "", &ConfigError{Reason: "cipher is not initialized"}
	}
	if blob == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", &CryptoError{Op: "decrypt", Err: ErrMalformed}
	}
	if len(raw) < NonceSize+TagSize {
		return "", &CryptoError{Op: "decrypt", Err: ErrTooShort}
	}

	nonce := raw[:NonceSize]
	tag := raw[NonceSize : NonceSize+TagSize]
	body := raw[NonceSize+TagSize:]

	sealed := make([]byte, 0, len(body)+TagSize)
	sealed = append(sealed, body...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &CryptoError{Op: "decrypt", Err: ErrAuthentication}
	}

	return string(plaintext), nil
}
