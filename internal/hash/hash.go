// Package hash provides deterministic content fingerprints used by the
// trace ledger and the optimistic file lock.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Content returns the lowercase hex-encoded SHA-256 digest of content.
// UTF-8 text callers should pass []byte(s) directly; no salt, no
// normalization beyond what the caller already applied.
func Content(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// String is a convenience wrapper for text content.
func String(content string) string {
	return Content([]byte(content))
}
