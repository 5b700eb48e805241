package engine

import (
	"context"
	"regexp"
	"testing"

	"github.com/hkarap/sentinews/internal/cache"
)

type fakeFingerprintStore struct {
	fingerprints map[string]bool
	calls        int
}

func (f *fakeFingerprintStore) ExistsByFingerprint(_ context.Context, fp string) (bool, error) {
	f.calls++
	return f.fingerprints[fp], nil
}

func TestFingerprintDeterministic(t *testing.T) {
	content := "Հայաստանի տնտեսությունը աճել է երրորդ եռամսյակում"
	if Fingerprint(content) != Fingerprint(content) {
		t.Error("identical content produced different fingerprints")
	}
}

func TestFingerprintDistinct(t *testing.T) {
	if Fingerprint("article one") == Fingerprint("article two") {
		t.Error("different content produced the same fingerprint")
	}
}

func TestFingerprintShape(t *testing.T) {
	fp := Fingerprint("hello world")

	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(fp) {
		t.Errorf("fingerprint is not 64 lowercase hex chars: %q", fp)
	}
	// SHA-256 of "hello world".
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if fp != want {
		t.Errorf("Fingerprint(\"hello world\") = %q, want %q", fp, want)
	}
}

func TestDeduplicatorSeen(t *testing.T) {
	ctx := context.Background()
	fp := Fingerprint("some body")
	st := &fakeFingerprintStore{fingerprints: map[string]bool{}}
	dedup := NewDeduplicator(st, nil)

	seen, err := dedup.Seen(ctx, fp)
	if err != nil {
		t.Fatalf("Seen() returned error: %v", err)
	}
	if seen {
		t.Error("content never saved reported as seen")
	}

	st.fingerprints[fp] = true

	seen, err = dedup.Seen(ctx, fp)
	if err != nil {
		t.Fatalf("Seen() returned error: %v", err)
	}
	if !seen {
		t.Error("saved content not reported as seen")
	}
}

func TestDeduplicatorEmptyFingerprint(t *testing.T) {
	st := &fakeFingerprintStore{fingerprints: map[string]bool{}}
	dedup := NewDeduplicator(st, nil)

	seen, err := dedup.Seen(context.Background(), "")
	if err != nil {
		t.Fatalf("Seen() returned error: %v", err)
	}
	if seen {
		t.Error("empty fingerprint reported as seen")
	}
	if st.calls != 0 {
		t.Errorf("empty fingerprint hit the store %d times, want 0", st.calls)
	}
}

func TestDeduplicatorCacheFastPath(t *testing.T) {
	ctx := context.Background()
	fp := Fingerprint("cached body")
	st := &fakeFingerprintStore{fingerprints: map[string]bool{}}
	dedup := NewDeduplicator(st, cache.NewMockCache())

	dedup.Remember(ctx, fp)

	seen, err := dedup.Seen(ctx, fp)
	if err != nil {
		t.Fatalf("Seen() returned error: %v", err)
	}
	if !seen {
		t.Error("remembered fingerprint not reported as seen")
	}
	if st.calls != 0 {
		t.Errorf("cache hit still queried the store %d times", st.calls)
	}
}

func TestDeduplicatorCacheMissFallsThrough(t *testing.T) {
	ctx := context.Background()
	fp := Fingerprint("uncached body")
	st := &fakeFingerprintStore{fingerprints: map[string]bool{fp: true}}
	dedup := NewDeduplicator(st, cache.NewMockCache())

	seen, err := dedup.Seen(ctx, fp)
	if err != nil {
		t.Fatalf("Seen() returned error: %v", err)
	}
	if !seen {
		t.Error("store-known fingerprint not reported as seen on cache miss")
	}
	if st.calls != 1 {
		t.Errorf("store queried %d times, want 1", st.calls)
	}
}
