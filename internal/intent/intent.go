// Package intent loads the workspace's intent manifest and prior trace
// ledger, and builds the per-intent context view injected into the
// agent's prompt.
package intent

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"intentgate/internal/ledger"
	"intentgate/internal/logging"
)

const (
	manifestPath = ".orchestration/active_intents.yaml"
	tracePath    = ".orchestration/agent_trace.jsonl"
)

// Intent is one entry from the manifest.
type Intent struct {
	ID          string
	Constraints string
	Scope       string
	OwnedScope  []string
}

// ContextView is the derived, ephemeral per-intent view built on demand;
// it is never persisted.
type ContextView struct {
	IntentID    string
	Constraints string
	Scope       string
	OwnedScope  []string
	Traces      []ledger.Record
	Rendered    string
}

type manifestEntry struct {
	ID         string      `yaml:"id"`
	IntentID   string      `yaml:"intent_id"`
	Constraints string     `yaml:"constraints"`
	Scope      string      `yaml:"scope"`
	OwnedScope interface{} `yaml:"owned_scope"`
}

type manifestDoc struct {
	Intents []manifestEntry `yaml:"intents"`
}

// Load parses the manifest and trace ledger for workspaceRoot and
// returns the context view for intentID, or ok=false when intentID
// isn't present in the manifest. Missing files degrade silently: a
// missing manifest means "no such intent" and a missing ledger means
// "no prior traces".
func Load(workspaceRoot, intentID string) (ContextView, bool) {
	entries := loadManifest(workspaceRoot)

	var found *manifestEntry
	for i := range entries {
		id := entries[i].ID
		if id == "" {
			id = entries[i].IntentID
		}
		if id == intentID {
			found = &entries[i]
			break
		}
	}
	if found == nil {
		return ContextView{}, false
	}

	view := ContextView{
		IntentID:    intentID,
		Constraints: found.Constraints,
		Scope:       found.Scope,
		OwnedScope:  ownedScopeList(found.OwnedScope),
	}

	for _, rec := range loadTraces(workspaceRoot) {
		if rec.IntentID == intentID {
			view.Traces = append(view.Traces, rec)
		}
	}

	view.Rendered = render(view)
	return view, true
}

func loadManifest(workspaceRoot string) []manifestEntry {
	path := filepath.Join(workspaceRoot, manifestPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Intents) > 0 {
		return doc.Intents
	}

	var list []manifestEntry
	if err := yaml.Unmarshal(data, &list); err != nil {
		logging.Get(logging.CategoryIntent).Warn("failed to parse %s: %v", path, err)
		return nil
	}
	return list
}

func loadTraces(workspaceRoot string) []ledger.Record {
	path := filepath.Join(workspaceRoot, tracePath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var records []ledger.Record
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, err := ledger.Parse([]byte(line))
		if err != nil {
			logging.Get(logging.CategoryIntent).Warn("skipping malformed trace line in %s: %v", path, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

func ownedScopeList(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func render(v ContextView) string {
	var b strings.Builder
	b.WriteString(`<intent_context id="`)
	b.WriteString(escape(v.IntentID))
	b.WriteString("\">\n")

	if v.Constraints != "" {
		b.WriteString("  <constraints>")
		b.WriteString(escape(v.Constraints))
		b.WriteString("</constraints>\n")
	}
	if v.Scope != "" {
		b.WriteString("  <scope>")
		b.WriteString(escape(v.Scope))
		b.WriteString("</scope>\n")
	}
	for _, t := range v.Traces {
		b.WriteString("  <agent_trace>")
		b.WriteString(escape(t.File))
		b.WriteString(" ")
		b.WriteString(escape(t.MutationClass.Wire()))
		b.WriteString("</agent_trace>\n")
	}
	b.WriteString("</intent_context>")
	return b.String()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
