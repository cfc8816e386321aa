package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"intentgate/internal/classify"
)

func TestAppendCreatesDirAndFile(t *testing.T) {
	dir := t.TempDir()
	rec := Record{
		ReqID:         "t-42",
		IntentID:      "INT-1",
		File:          "src/a.ts",
		Timestamp:     "2025-01-15T10:30:00.000Z",
		MutationClass: classify.Evolution,
		ContentHash:   strings.Repeat("a", 64),
		Related:       []string{"t-42"},
		Ranges:        Ranges{ContentHash: strings.Repeat("a", 64)},
	}

	if err := Append(dir, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".orchestration", "agent_trace.jsonl"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatalf("expected trailing newline")
	}

	var raw map[string]interface{}
	line := strings.TrimRight(string(data), "\n")
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if raw["mutation_class"] != "INTENT_EVOLUTION" {
		t.Fatalf("mutation_class = %v, want INTENT_EVOLUTION", raw["mutation_class"])
	}
}

func TestAppendIsOrderPreservingAndOnlyAppends(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		rec := Record{ReqID: string(rune('a' + i)), ContentHash: "x", Ranges: Ranges{ContentHash: "x"}, Related: []string{}}
		if err := Append(dir, rec); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, ".orchestration", "agent_trace.jsonl"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		got, err := Parse([]byte(line))
		if err != nil {
			t.Fatalf("Parse line %d: %v", i, err)
		}
		if want := string(rune('a' + i)); got.ReqID != want {
			t.Fatalf("line %d ReqID = %q, want %q", i, got.ReqID, want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	rec := Record{
		ReqID:            "t-1",
		IntentID:         "INT-1",
		File:             "a.go",
		MutationClass:    classify.Refactor,
		MutationClassRaw: classify.Refactor.Wire(),
		ContentHash:      "h",
		Ranges:           Ranges{ContentHash: "h"},
		Related:          []string{"t-1"},
		VCS:              &VCSInfo{Revision: "abc123"},
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMalformedLineErrors(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed line")
	}
}
