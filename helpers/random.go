package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// RandomKey returns prefix followed by n random bytes, hex encoded.
func RandomKey(prefix string, n int) string {
	return prefix + hex.EncodeToString(RandomBytes(n))
}
