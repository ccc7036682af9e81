package burstpick

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
)

// Fingerprint returns the 64-bit difference hash of img as 16 hex digits.
// The hash identifies a relocated frame in the manifest; frames are never
// compared by it. Returns "" when hashing fails (graceful degradation).
func Fingerprint(img image.Image) string {
	if img == nil {
		return ""
	}
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", hash.GetHash())
}
