package shared

import (
	"crypto/rand"
	"encoding/hex"
)

func NewID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

// ValidID reports whether id looks like a value produced by NewID(prefix).
func ValidID(prefix, id string) bool {
	if len(id) != len(prefix)+32 || id[:len(prefix)] != prefix {
		return false
	}
	_, err := hex.DecodeString(id[len(prefix):])
	return err == nil
}
