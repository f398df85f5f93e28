package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Listing entries live under a generation number that every write bumps. A
// reader that raced a write stores its result under the old generation, which
// no later reader looks up.
const (
	listingsGenerationKey = "experts:gen"
	allListingsPattern    = "experts:v*"
)

func listCacheKey(gen int64) string {
	return fmt.Sprintf("experts:v%d:list", gen)
}

// searchCacheKey keys a search by its lowercased query. Matching is
// case-insensitive, so case variants share an entry; whitespace is kept
// because it is part of the substring being matched.
func searchCacheKey(gen int64, query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(query)))
	return fmt.Sprintf("experts:v%d:search:%s", gen, hex.EncodeToString(sum[:]))
}

func generationPattern(gen int64) string {
	return fmt.Sprintf("experts:v%d:*", gen)
}
