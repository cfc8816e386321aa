package authz

import (
	"bytes"
	"strings"
	"testing"
)

func TestStdioPrompterApprove(t *testing.T) {
	p := NewStdioPrompter(strings.NewReader("y\n"), &bytes.Buffer{})
	decision, err := p.Confirm("write src/a.ts?")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if decision != Approve {
		t.Fatalf("decision = %v, want Approve", decision)
	}
}

func TestStdioPrompterRejectOnAnythingElse(t *testing.T) {
	p := NewStdioPrompter(strings.NewReader("n\n"), &bytes.Buffer{})
	decision, err := p.Confirm("write src/a.ts?")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if decision != Reject {
		t.Fatalf("decision = %v, want Reject", decision)
	}
}

func TestStdioPrompterUnavailableOnEOF(t *testing.T) {
	p := NewStdioPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.Confirm("write src/a.ts?"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAutoPrompterReturnsFixedDecision(t *testing.T) {
	p := AutoPrompter{Decision: Reject}
	decision, err := p.Confirm("anything")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if decision != Reject {
		t.Fatalf("decision = %v, want Reject", decision)
	}
}
