package course

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// shortHashBytes is the number of digest bytes kept in a course ID
const shortHashBytes = 4

// ShortHash creates a deterministic course ID from its URL: the first four
// bytes of the SHA-256 digest as eight lowercase hex characters.
// Distinct URLs may collide.
func ShortHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:shortHashBytes])
}

// SlotID identifies a slot by its position within its course.
// It is stable only as long as the provider keeps the slot order.
func SlotID(courseID string, index int) string {
	return fmt.Sprintf("%s-%d", courseID, index)
}
