package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLen is the shortest key secret accepted by New.
const MinSecretLen = 16

const keyInfo = "email-verification-code/v1"

// Error is returned for every encryption or decryption failure.
type Error struct {
	Op  string // "init" | "encrypt" | "decrypt"
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("codec %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Codec encrypts verification codes for storage with AES-256-GCM.
// Ciphertexts are base64(nonce || sealed).
type Codec struct {
	aead cipher.AEAD
}

// New derives an AES-256 key from secret with HKDF-SHA256 and returns a Codec bound to it.
func New(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, &Error{Op: "init", Err: fmt.Errorf("secret must be at least %d bytes, got %d", MinSecretLen, len(secret))}
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, &Error{Op: "init", Err: err}
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &Error{Op: "init", Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &Error{Op: "init", Err: err}
	}
	return &Codec{aead: aead}, nil
}

func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", &Error{Op: "encrypt", Err: err}
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Codec) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", &Error{Op: "decrypt", Err: fmt.Errorf("decode base64: %w", err)}
	}
	n := c.aead.NonceSize()
	if len(raw) < n+c.aead.Overhead() {
		return "", &Error{Op: "decrypt", Err: errors.New("ciphertext too short")}
	}
	plain, err := c.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", &Error{Op: "decrypt", Err: err}
	}
	return string(plain), nil
}
