package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint 对若干字段做 sha256，字段之间以 ":" 分隔，用作缓存键
func Fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))

	return hex.EncodeToString(sum[:])
}
