package internal

import (
	"crypto/rand"
	"errors"
	"strings"
)

// KeyAlphabet is the character set for refresh-token keys: lowercase
// alphanumeric, 36 symbols. At 32 characters this gives ~165 bits of
// entropy, which makes store collisions astronomically unlikely.
const KeyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// rejectAbove is the largest byte value usable for unbiased sampling of a
// 36-symbol alphabet: 252 = 7 * 36.
const rejectAbove = byte(252)

// NewTokenKey draws a random key of the given length from [KeyAlphabet].
func NewTokenKey(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid key length")
	}

	var b strings.Builder
	b.Grow(length)

	buf := make([]byte, length)
	for b.Len() < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, v := range buf {
			if v >= rejectAbove {
				// rejection sampling: discard to keep the draw unbiased
				continue
			}
			b.WriteByte(KeyAlphabet[int(v)%len(KeyAlphabet)])
			if b.Len() == length {
				break
			}
		}
	}

	return b.String(), nil
}
