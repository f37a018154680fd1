package secret

import (
	"crypto/rand"
	"math/big"
)

const (
	// KeyPrefix marks secrets minted by --gen-key.
	KeyPrefix = "pp_"
	// KeyLength is the number of random characters after the prefix
	KeyLength = 48
)

var base62Alphabet = []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")

// GenerateKey creates a new proxy secret: pp_ + 48 base62 chars.
func GenerateKey() (string, error) {
	result := make([]byte, KeyLength)
	alphabetLen := big.NewInt(int64(len(base62Alphabet)))

	for i := range result {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		result[i] = base62Alphabet[idx.Int64()]
	}

	return KeyPrefix + string(result), nil
}
