package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

const slugCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSlug returns a random short-id of the given length.
func GenerateSlug(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(slugCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is effectively unrecoverable; fall
			// back to a time-derived index rather than panicking.
			b[i] = slugCharset[time.Now().UnixNano()%int64(len(slugCharset))]
			continue
		}
		b[i] = slugCharset[n.Int64()]
	}
	return string(b)
}
