package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for in-memory caching of pipeline values.
// Values are stored as-is; callers own the type assertion on the way out.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Key generates a namespaced cache key from the given parts.
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "factsense:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// EvidenceKey builds the composite retrieval cache key from the normalized
// claim text and its search terms.
func EvidenceKey(normalizedText string, searchTerms []string) string {
	return Key("evidence", normalizedText, strings.Join(searchTerms, ","))
}

// SourceKey builds the assessment cache key from account name, domain and
// the candidate-source list.
func SourceKey(accountName, domain string, candidates []string) string {
	return Key("source", accountName, domain, strings.Join(candidates, ","))
}
