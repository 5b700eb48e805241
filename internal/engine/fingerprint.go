package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the SHA-256 digest of an article body as lowercase
// hex. Identical content yields an identical fingerprint regardless of
// which source delivered it, which is what makes cross-source dedup work.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FingerprintStore is the slice of the storage collaborator the
// deduplicator consults.
type FingerprintStore interface {
	ExistsByFingerprint(ctx context.Context, fp string) (bool, error)
}

// SeenCache is an optional fast path in front of the store lookup. A cache
// error degrades the check to store-only.
type SeenCache interface {
	IsSeen(ctx context.Context, fp string) (bool, error)
	MarkSeen(ctx context.Context, fp string) error
}

// Deduplicator answers whether content with a given fingerprint already
// exists anywhere in the corpus. The check and a subsequent insert are not
// atomic: concurrent producers may both pass the check and insert articles
// sharing a fingerprint. That race is tolerated; the only hard uniqueness
// the store enforces is (source, external id).
type Deduplicator struct {
	store FingerprintStore
	cache SeenCache // nil when Redis is not configured
}

func NewDeduplicator(store FingerprintStore, cache SeenCache) *Deduplicator {
	return &Deduplicator{store: store, cache: cache}
}

// Seen reports whether the fingerprint is already present in the corpus.
// An empty fingerprint belongs to an article without content and is never
// deduplicated by this path.
func (d *Deduplicator) Seen(ctx context.Context, fp string) (bool, error) {
	if fp == "" {
		return false, nil
	}

	if d.cache != nil {
		if seen, err := d.cache.IsSeen(ctx, fp); err == nil && seen {
			return true, nil
		}
	}

	return d.store.ExistsByFingerprint(ctx, fp)
}

// Remember records a fingerprint in the cache after a successful insert.
// Best effort: the store remains the source of truth.
func (d *Deduplicator) Remember(ctx context.Context, fp string) {
	if fp == "" || d.cache == nil {
		return
	}
	_ = d.cache.MarkSeen(ctx, fp)
}
