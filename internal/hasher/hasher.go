// Package hasher computes the content fingerprints used as cache keys.
//
// A digest is the XXH3-64 hash of the input rendered in base 10. The hash is
// chosen for speed and distribution, not collision resistance.
package hasher

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"fphash/internal/trace"
)

// SampleSize is the capacity of the buffered reader used by HashFile. Only
// one fill of this buffer is hashed, so files longer than SampleSize are
// identified by their head. Changing it invalidates every stored file digest.
const SampleSize = 8 * 1024

// HashBytes returns the digest of content.
func HashBytes(content []byte) string {
	return strconv.FormatUint(xxh3.Hash(content), 10)
}

// HashString returns the digest of the bytes of s.
func HashString(s string) string {
	return strconv.FormatUint(xxh3.HashString(s), 10)
}

// HashArray returns the digest of items joined with ",".
// Elements are not escaped: ["a,b"] and ["a", "b"] hash the same.
func HashArray(items []string) string {
	return HashString(strings.Join(items, ","))
}

// HashFile returns the digest of the first buffer fill of the file at path.
// ok is false when the file cannot be opened or read.
func HashFile(path string) (digest string, ok bool) {
	return HashFileContext(context.Background(), path)
}

// HashFileContext is HashFile with failures reported to the tracer in ctx.
// Unreadable files are traced as errors, visible from LevelError up.
func HashFileContext(ctx context.Context, path string) (string, bool) {
	content, err := sampleFile(path)
	if err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, "unreadable", err.Error(), trace.CurrentSpan(ctx))
		return "", false
	}
	return HashBytes(content), true
}

// sampleFile reads a single buffer fill from the start of the file.
func sampleFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, SampleSize)
	// Peek(1) performs exactly one fill; whatever it buffered is the sample.
	if _, err := r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return r.Peek(r.Buffered())
}
