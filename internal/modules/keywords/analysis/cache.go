package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Cache stores successful batch payloads keyed by BatchKey.
type Cache interface {
	Get(ctx context.Context, key string) (*AnalysisPayload, bool, error)
	Set(ctx context.Context, key string, payload *AnalysisPayload) error
}

// promptVersion changes the cache keyspace whenever analysisPrompt changes meaning.
const promptVersion = "v1"

// BatchKey hashes the exact keyword sequence of a batch.
func BatchKey(batch []string) string {
	h := sha256.New()
	h.Write([]byte(promptVersion))
	for _, kw := range batch {
		h.Write([]byte{0})
		h.Write([]byte(strings.TrimSpace(kw)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
