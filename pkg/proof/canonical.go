package proof

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/aindus-labs/veritas/pkg/core"
)

// Canonical serializes a calculation into the byte string the verification
// hash is computed over. The encoding is deterministic by construction:
// the query is pre-normalized, bindings are sorted by key, steps keep
// their evaluation order, and every float is rendered through
// core.FormatNumber. Two logically identical calculations always
// canonicalize to the same bytes.
func Canonical(normalizedQuery string, bindings core.Bindings, steps []core.Step, result float64) []byte {
	var sb strings.Builder

	sb.WriteString("query=")
	sb.WriteString(normalizedQuery)
	sb.WriteByte('\n')

	for _, key := range sortedKeys(bindings) {
		sb.WriteString("var=")
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(core.FormatNumber(bindings[key]))
		sb.WriteByte('\n')
	}

	for _, step := range steps {
		sb.WriteString("step=")
		sb.WriteString(step.Description)
		sb.WriteByte('\n')
	}

	sb.WriteString("result=")
	sb.WriteString(core.FormatNumber(result))
	sb.WriteByte('\n')

	return []byte(sb.String())
}

// Hash computes the SHA-256 digest of the canonical serialization,
// hex-encoded.
func Hash(normalizedQuery string, bindings core.Bindings, steps []core.Step, result float64) string {
	sum := sha256.Sum256(Canonical(normalizedQuery, bindings, steps, result))
	return hex.EncodeToString(sum[:])
}

// CacheKey derives the lookup key for the optional calculation cache:
// the canonical form of the inputs alone, before any evaluation happens.
func CacheKey(normalizedQuery string, bindings core.Bindings, level core.VerificationLevel) string {
	var sb strings.Builder
	sb.WriteString(level.String())
	sb.WriteByte('|')
	sb.WriteString(normalizedQuery)
	for _, key := range sortedKeys(bindings) {
		sb.WriteByte('|')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(core.FormatNumber(bindings[key]))
	}
	return sb.String()
}

func sortedKeys(bindings core.Bindings) []string {
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
