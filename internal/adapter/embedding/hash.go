package embedding

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashString returns the hex sha256 of a text, used as the cache identifier
// so arbitrarily long segments produce fixed-size keys.
func hashString(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
