package model

import (
	"fmt"
	"math/rand"
	"time"
)

// ID prefixes per collection.
const (
	PrefixTask     = "t"
	PrefixResource = "r"
	PrefixFeed     = "f"
	PrefixEvent    = "e"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns prefix + unix millis + "_" + 9 random base-36 characters.
// Unique in practice, not cryptographically.
func NewID(prefix string, now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("%s%d_%s", prefix, now.UnixMilli(), suffix)
}
