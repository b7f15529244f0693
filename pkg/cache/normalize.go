package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

// Normalize reduces a free-form request string to its canonical form:
// lowercased, punctuation replaced by spaces, whitespace collapsed, trimmed.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// HashRequest computes the stable cache key for a request. The hash covers
// the API type and the normalized request text, so the same question yields
// the same key across processes and restarts. MD5 is enough here: the key
// only needs to be stable and well distributed, not collision resistant.
func HashRequest(apiType models.APIType, request string) string {
	sum := md5.Sum([]byte(string(apiType) + ":" + Normalize(request)))
	return hex.EncodeToString(sum[:])
}
