package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

// Private key files at rest may be encrypted with a passphrase. The format
// is AES-256-GCM over the PEM bytes: [12-byte nonce][ciphertext+tag], with
// the AES key derived as SHA-256(passphrase).

const gcmNonceSize = 12

// EncryptPrivateKey encrypts PEM-encoded key material under a passphrase.
// Used by operators to prepare the key file this service reads at startup.
func EncryptPrivateKey(pemData, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("cryptox: empty passphrase")
	}
	key := sha256.Sum256(passphrase)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, pemData, nil), nil
}

// DecryptPrivateKey reverses EncryptPrivateKey. A wrong passphrase fails
// authentication rather than yielding garbage plaintext.
func DecryptPrivateKey(data, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("cryptox: empty passphrase")
	}
	if len(data) < gcmNonceSize {
		return nil, errors.New("cryptox: encrypted key too short")
	}
	key := sha256.Sum256(passphrase)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}

	nonce, ciphertext := data[:gcmNonceSize], data[gcmNonceSize:]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: decrypt private key: %w", err)
	}
	return plain, nil
}
