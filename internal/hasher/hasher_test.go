package hasher_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fphash/internal/hasher"
	"fphash/internal/trace"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestHashBytes_Deterministic(t *testing.T) {
	inputs := [][]byte{nil, {}, []byte("content"), bytes.Repeat([]byte{0xff}, 1000)}
	for _, in := range inputs {
		if a, b := hasher.HashBytes(in), hasher.HashBytes(in); a != b {
			t.Fatalf("HashBytes(%q) not deterministic: %s vs %s", in, a, b)
		}
	}
	if hasher.HashBytes(nil) != hasher.HashBytes([]byte{}) {
		t.Fatal("nil and empty input must hash the same")
	}
}

func TestHashBytes_KnownValue(t *testing.T) {
	const want = "6193209363630369380"
	if got := hasher.HashBytes([]byte("content")); got != want {
		t.Fatalf("HashBytes(content) = %s, want %s", got, want)
	}
	if got := hasher.HashString("content"); got != want {
		t.Fatalf("HashString(content) = %s, want %s", got, want)
	}
}

func TestHashArray_JoinsWithComma(t *testing.T) {
	cases := []struct {
		items  []string
		joined string
	}{
		{nil, ""},
		{[]string{}, ""},
		{[]string{"foo"}, "foo"},
		{[]string{"foo", "bar"}, "foo,bar"},
		{[]string{"", ""}, ","},
		{[]string{"a", "", "b"}, "a,,b"},
	}
	for _, tc := range cases {
		if got, want := hasher.HashArray(tc.items), hasher.HashBytes([]byte(tc.joined)); got != want {
			t.Errorf("HashArray(%q) = %s, want digest of %q = %s", tc.items, got, tc.joined, want)
		}
	}
}

func TestHashArray_EmptyEqualsEmptyBytes(t *testing.T) {
	if hasher.HashArray(nil) != hasher.HashBytes(nil) {
		t.Fatal("empty list must hash like the empty byte sequence")
	}
}

func TestHashArray_CommaInsideElementIsAmbiguous(t *testing.T) {
	if hasher.HashArray([]string{"a,b"}) != hasher.HashArray([]string{"a", "b"}) {
		t.Fatal("elements are joined without escaping")
	}
}

func TestHashArray_OrderSensitive(t *testing.T) {
	if hasher.HashArray([]string{"a", "b"}) == hasher.HashArray([]string{"b", "a"}) {
		t.Fatal("permuted list hashed the same")
	}
}

func TestHashFile_Missing(t *testing.T) {
	if d, ok := hasher.HashFile(""); ok {
		t.Fatalf("empty path produced digest %s", d)
	}
	if d, ok := hasher.HashFile(filepath.Join(t.TempDir(), "nope.txt")); ok {
		t.Fatalf("missing file produced digest %s", d)
	}
}

func TestHashFile_Directory(t *testing.T) {
	if d, ok := hasher.HashFile(t.TempDir()); ok {
		t.Fatalf("directory produced digest %s", d)
	}
}

func TestHashFile_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := writeFile(t, t.TempDir(), "secret.txt", []byte("content"))
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatal(err)
	}
	if d, ok := hasher.HashFile(path); ok {
		t.Fatalf("unreadable file produced digest %s", d)
	}
}

func TestHashFile_Content(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.txt", []byte("content"))
	writeFile(t, dir, "foo.txt", []byte("content1"))

	got, ok := hasher.HashFile(path)
	if !ok {
		t.Fatal("expected digest")
	}
	if got != "6193209363630369380" {
		t.Fatalf("HashFile = %s, want 6193209363630369380", got)
	}
	if got != hasher.HashBytes([]byte("content")) {
		t.Fatal("file digest differs from byte digest of its content")
	}
}

func TestHashFile_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty", nil)
	got, ok := hasher.HashFile(path)
	if !ok {
		t.Fatal("empty file must produce a digest")
	}
	if got != hasher.HashBytes(nil) {
		t.Fatalf("empty file digest %s, want %s", got, hasher.HashBytes(nil))
	}
}

func TestHashFile_ExactlyOneBuffer(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), hasher.SampleSize/16)
	path := writeFile(t, t.TempDir(), "exact.bin", data)
	got, ok := hasher.HashFile(path)
	if !ok {
		t.Fatal("expected digest")
	}
	if got != hasher.HashBytes(data) {
		t.Fatal("file of exactly SampleSize bytes must hash in full")
	}
}

func TestHashFile_SamplesFirstBuffer(t *testing.T) {
	head := bytes.Repeat([]byte{'h'}, hasher.SampleSize)
	tail := bytes.Repeat([]byte{'t'}, 3*hasher.SampleSize+17)
	data := append(append([]byte{}, head...), tail...)
	path := writeFile(t, t.TempDir(), "large.bin", data)

	got, ok := hasher.HashFile(path)
	if !ok {
		t.Fatal("expected digest")
	}
	if got != hasher.HashBytes(head) {
		t.Fatal("large file must hash only its first SampleSize bytes")
	}
	if got == hasher.HashBytes(data) {
		t.Fatal("large file hashed in full")
	}

	// changing only the tail keeps the digest
	other := append(append([]byte{}, head...), []byte("something else entirely")...)
	otherPath := writeFile(t, t.TempDir(), "large2.bin", other)
	if d, _ := hasher.HashFile(otherPath); d != got {
		t.Fatal("tail change altered a sampled digest")
	}
}

func TestHashFileContext_TracesUnreadable(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, ok := hasher.HashFileContext(ctx, missing); ok {
		t.Fatal("expected absent digest")
	}
	if !strings.Contains(buf.String(), "file:unreadable") || !strings.Contains(buf.String(), "missing.txt") {
		t.Fatalf("unexpected trace output: %q", buf.String())
	}
}

func TestHashFileContext_UnreadableAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelError, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	if _, ok := hasher.HashFileContext(ctx, t.TempDir()); ok {
		t.Fatal("directory produced a digest")
	}
	if !strings.Contains(buf.String(), "! file:unreadable") {
		t.Fatalf("unreadable file not traced at error level: %q", buf.String())
	}

	buf.Reset()
	path := writeFile(t, t.TempDir(), "ok.txt", []byte("content"))
	if _, ok := hasher.HashFileContext(ctx, path); !ok {
		t.Fatal("expected digest")
	}
	if buf.Len() != 0 {
		t.Fatalf("readable file traced at error level: %q", buf.String())
	}
}

func BenchmarkHashBytes(b *testing.B) {
	data := bytes.Repeat([]byte("x"), hasher.SampleSize)
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		_ = hasher.HashBytes(data)
	}
}

func BenchmarkHashArray(b *testing.B) {
	items := []string{"packages/nx", "build", "production", "^build"}
	for b.Loop() {
		_ = hasher.HashArray(items)
	}
}
