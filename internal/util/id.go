package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a 128-bit random identifier in hex, prefixed like
// "jti_4f2a..." when a prefix is given. Used for token ids and refresh
// token material, so it must come from crypto/rand.
func NewID(prefix string) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	id := hex.EncodeToString(buf)
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
