package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

type IHash interface {
	Fingerprint(data []byte) string
	SameContent(a, b []byte) bool
}

type hasher struct{}

func New() IHash {
	return &hasher{}
}

// Fingerprint returns the hex encoded SHA-256 digest of the byte content.
// It never fails, including on empty input.
func (h *hasher) Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (h *hasher) SameContent(a, b []byte) bool {
	return h.Fingerprint(a) == h.Fingerprint(b)
}
