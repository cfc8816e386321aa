// Package classify assigns a semantic label, Refactor or Evolution, to a
// file mutation. The heuristic is intentionally cheap and language
// agnostic: it is meant to furnish a label for the trace ledger, not to
// be a provably correct static analysis.
package classify

import (
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Class is the mutation label attached to a trace record.
type Class string

const (
	Refactor  Class = "refactor"
	Evolution Class = "evolution"
)

// Wire returns the ledger's on-disk spelling for the class.
func (c Class) Wire() string {
	if c == Refactor {
		return "AST_REFACTOR"
	}
	return "INTENT_EVOLUTION"
}

// FromWire parses the ledger's on-disk spelling back into a Class.
func FromWire(s string) Class {
	if s == "AST_REFACTOR" {
		return Refactor
	}
	return Evolution
}

var (
	funcPattern   = regexp.MustCompile(`(?m)^\s*(?:func|function|def|fn)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	classPattern  = regexp.MustCompile(`(?m)^\s*(?:class|struct|type|interface)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	importPattern = regexp.MustCompile(`(?m)^\s*(?:import|from|require|use)\s+["']?([A-Za-z0-9_./-]+)`)
)

var dmp = diffmatchpatch.New()

// Classify labels the transition from oldContent to newContent. oldContent
// absent (hasOld=false) means "new file". hint is the agent's own declared
// label, consulted only as a last-resort tiebreaker.
func Classify(oldContent string, hasOld bool, newContent string, hint Class) Class {
	if !hasOld {
		return Evolution
	}
	if oldContent == newContent {
		return Refactor
	}

	s := similarity(oldContent, newContent)
	ratio := contentChangeRatio(oldContent, newContent)

	if s > 0.8 && ratio < 0.3 {
		return Refactor
	}
	if structuralMembershipChanged(oldContent, newContent) {
		return Evolution
	}

	oldLines := countLines(oldContent)
	newLines := countLines(newContent)
	deltaLines := abs(newLines - oldLines)
	if oldLines > 0 && float64(deltaLines)/float64(oldLines) > 0.2 {
		return Evolution
	}
	if deltaLines > 50 {
		return Evolution
	}
	if s < 0.5 {
		return Evolution
	}
	if ratio > 0.5 {
		return Evolution
	}

	if hint != "" && s > 0.6 && ratio < 0.4 {
		return hint
	}
	return Refactor
}

// PreviewResult reports the class a mutation would receive along with
// the similarity and change-ratio inputs that drove the decision, for
// an inspection path that never touches disk or the ledger.
type PreviewResult struct {
	Class       Class
	Similarity  float64
	ChangeRatio float64
}

// Preview computes what Classify would return for the given transition,
// without a hint, and exposes the intermediate metrics so a caller can
// show its work (e.g. "refactor: similarity=0.92 change_ratio=0.10").
func Preview(oldContent string, hasOld bool, newContent string) PreviewResult {
	if !hasOld {
		return PreviewResult{Class: Evolution}
	}
	return PreviewResult{
		Class:       Classify(oldContent, hasOld, newContent, ""),
		Similarity:  similarity(oldContent, newContent),
		ChangeRatio: contentChangeRatio(oldContent, newContent),
	}
}

func structuralMembershipChanged(oldContent, newContent string) bool {
	oldFuncs, oldClasses := extract(funcPattern, oldContent), extract(classPattern, oldContent)
	newFuncs, newClasses := extract(funcPattern, newContent), extract(classPattern, newContent)
	return setsDiffer(oldFuncs, newFuncs) || setsDiffer(oldClasses, newClasses)
}

func setsDiffer(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return true
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			return true
		}
	}
	return false
}

func similarity(oldContent, newContent string) float64 {
	oldFuncs, newFuncs := extract(funcPattern, oldContent), extract(funcPattern, newContent)
	oldClasses, newClasses := extract(classPattern, oldContent), extract(classPattern, newContent)
	oldImports, newImports := extract(importPattern, oldContent), extract(importPattern, newContent)

	return 0.4*jaccard(oldFuncs, newFuncs) + 0.4*jaccard(oldClasses, newClasses) + 0.2*jaccard(oldImports, newImports)
}

func extract(pattern *regexp.Regexp, content string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, match := range pattern.FindAllStringSubmatch(content, -1) {
		set[match[1]] = struct{}{}
	}
	return set
}

// jaccard returns 1 when both sets are empty (an undefined feature set
// contributes neutral similarity rather than penalizing the score).
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}

// contentChangeRatio is the fraction of line-pairs that differ, measured
// over a line-level diff rather than naive positional pairing so that a
// single inserted line doesn't shift every pair after it out of alignment.
func contentChangeRatio(oldContent, newContent string) float64 {
	oldLines, newLines := countLines(oldContent), countLines(newContent)
	denom := oldLines
	if newLines > denom {
		denom = newLines
	}
	if denom == 0 {
		return 0
	}

	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	changed := 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		n := countLines(d.Text)
		// An adjacent delete/insert pair is one run of replaced lines:
		// each replaced line is one differing pair, not two.
		if i+1 < len(diffs) && diffs[i+1].Type != diffmatchpatch.DiffEqual && diffs[i+1].Type != d.Type {
			if m := countLines(diffs[i+1].Text); m > n {
				n = m
			}
			i++
		}
		changed += n
	}
	if changed > denom {
		changed = denom
	}
	return float64(changed) / float64(denom)
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(strings.TrimRight(s, "\n"), "\n"))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
