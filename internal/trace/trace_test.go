package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":       LevelOff,
		"off":    LevelOff,
		"ERROR":  LevelError,
		"phase":  LevelPhase,
		"Detail": LevelDetail,
		"debug":  LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Error("phase level must not emit file events")
	}
	if !LevelPhase.ShouldEmit(ScopeBatch) {
		t.Error("phase level must emit batch events")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) {
		t.Error("detail level must emit file events")
	}
	if LevelOff.ShouldEmit(ScopeCommand) {
		t.Error("off level must not emit")
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("expected disabled tracer")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeBatch, "hash-files", 0)
	Point(tr, ScopeFile, "open", "no such file", span.ID())
	span.WithExtra("hashed", "2").WithExtra("absent", "1").End("")

	out := buf.String()
	for _, want := range []string{"batch:hash-files", "file:open (no such file)", "{absent=1, hashed=2}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("expected 3 lines, got %d:\n%s", n, out)
	}
}

func TestStreamTracerFiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	Point(tr, ScopeFile, "open", "denied", 0)
	if buf.Len() != 0 {
		t.Fatalf("file event leaked at phase level: %q", buf.String())
	}

	Error(tr, ScopeFile, "open", "denied", 0)
	if !strings.Contains(buf.String(), "! file:open (denied)") {
		t.Fatalf("error event not emitted: %q", buf.String())
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "read", "is a directory", 7)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "file" || got["name"] != "read" {
		t.Fatalf("unexpected event: %v", got)
	}
	if got["parent_id"] != float64(7) {
		t.Fatalf("parent_id = %v, want 7", got["parent_id"])
	}
}

func TestNewAutoFormatFromPath(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Output: &buf, OutputPath: "trace.ndjson"})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeFile, "open", "", 0)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected NDJSON output, got %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop from empty context")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not propagated")
	}

	span := Begin(tr, ScopeCommand, "file", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}
