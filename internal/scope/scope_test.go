package scope

import "testing"

func TestIsWithinEmptyScopeMeansNoConstraint(t *testing.T) {
	if !IsWithin("docs/readme.md", nil) {
		t.Fatalf("empty ownedScope must not deny")
	}
}

func TestIsWithinDoubleStarGlob(t *testing.T) {
	owned := []string{"a/b/**"}
	cases := map[string]bool{
		"a/b":       true,
		"a/b/c":     true,
		"a/b/c/d":   true,
		"a/bc":      false,
		"a/other":   false,
	}
	for path, want := range cases {
		if got := IsWithin(path, owned); got != want {
			t.Errorf("IsWithin(%q, %v) = %v, want %v", path, owned, got, want)
		}
	}
}

func TestIsWithinSingleStarGlob(t *testing.T) {
	owned := []string{"src/utils/weather/*"}
	if !IsWithin("src/utils/weather/convert.go", owned) {
		t.Fatalf("expected single-star pattern to match child path")
	}
	if IsWithin("src/utils/other.go", owned) {
		t.Fatalf("unexpected match outside base")
	}
}

func TestIsWithinExactPath(t *testing.T) {
	owned := []string{"src/api/weather.go"}
	if !IsWithin("src/api/weather.go", owned) {
		t.Fatalf("expected exact path match")
	}
	if IsWithin("src/api/weather.go.bak", owned) {
		t.Fatalf("must not match sibling with shared prefix but no separator")
	}
}

func TestIsWithinBackslashNormalized(t *testing.T) {
	owned := []string{"src/api/weather/**"}
	if !IsWithin(`src\api\weather\convert.go`, owned) {
		t.Fatalf("expected backslash path to normalize before match")
	}
}

func TestMultiplePatternsAnyMatch(t *testing.T) {
	owned := []string{"src/api/weather/**", "src/utils/weather/*"}
	if !IsWithin("src/utils/weather/convert.go", owned) {
		t.Fatalf("expected match against second pattern")
	}
	if IsWithin("docs/a.md", owned) {
		t.Fatalf("unexpected match outside all patterns")
	}
}
