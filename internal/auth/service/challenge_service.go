package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// challengeService implements ChallengeService with AES-128-CBC.
type challengeService struct{}

// NewChallengeService creates a ChallengeService.
func NewChallengeService() ChallengeService {
	return &challengeService{}
}

// Transform encrypts the nonce with AES-128-CBC and no padding. The sensor
// firmware has no padding support, so the nonce length must be a multiple of
// the AES block size (it is always exactly one block).
func (c *challengeService) Transform(nonce, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create cipher")
	}
	if len(iv) != aes.BlockSize {
		return nil, apperrors.New("iv must be one AES block")
	}
	if len(nonce)%aes.BlockSize != 0 {
		return nil, apperrors.New("nonce must be a multiple of the AES block size")
	}

	out := make([]byte, len(nonce))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, nonce)
	return out, nil
}

// Verify compares proof and expected in constant time. The comparison is
// timing-safe because proof-of-possession depends on secret material never
// transmitted over the wire.
func (c *challengeService) Verify(proof, expected []byte) bool {
	return subtle.ConstantTimeCompare(proof, expected) == 1
}
