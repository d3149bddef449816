package private

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	KeySize = 32
	IVSize  = aes.BlockSize
)

// Sealed is an AES-256-CTR encryption result. The key stays on this struct; only
// Artifact is meant to leave the client.
type Sealed struct {
	Key        []byte
	IV         []byte
	Ciphertext []byte
}

func Encrypt(plain []byte) (*Sealed, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	ciphertext, err := xorCTR(key, iv, plain)
	if err != nil {
		return nil, err
	}
	return &Sealed{Key: key, IV: iv, Ciphertext: ciphertext}, nil
}

// Bytes is the combined key || iv || ciphertext layout.
func (s *Sealed) Bytes() []byte {
	out := make([]byte, 0, len(s.Key)+len(s.IV)+len(s.Ciphertext))
	out = append(out, s.Key...)
	out = append(out, s.IV...)
	return append(out, s.Ciphertext...)
}

// Artifact is iv || ciphertext, the only form that is uploaded.
func (s *Sealed) Artifact() []byte {
	out := make([]byte, 0, len(s.IV)+len(s.Ciphertext))
	out = append(out, s.IV...)
	return append(out, s.Ciphertext...)
}

// ParseSealed splits the key || iv || ciphertext layout.
func ParseSealed(b []byte) (*Sealed, error) {
	if len(b) < KeySize+IVSize {
		return nil, fmt.Errorf("sealed payload too short: %d bytes", len(b))
	}
	return &Sealed{
		Key:        append([]byte(nil), b[:KeySize]...),
		IV:         append([]byte(nil), b[KeySize:KeySize+IVSize]...),
		Ciphertext: append([]byte(nil), b[KeySize+IVSize:]...),
	}, nil
}

// Decrypt opens an uploaded artifact with the key kept by the client.
func Decrypt(key, artifact []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	if len(artifact) < IVSize {
		return nil, fmt.Errorf("artifact too short: %d bytes", len(artifact))
	}
	return xorCTR(key, artifact[:IVSize], artifact[IVSize:])
}

func xorCTR(key, iv, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out, nil
}
