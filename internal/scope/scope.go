// Package scope implements the path-prefix / suffix-wildcard containment
// check an intent's ownedScope uses to decide whether a target path is
// within the intent's enforceable file scope.
package scope

import "strings"

// IsWithin reports whether relativePath falls within one of the patterns
// in ownedScope. An empty ownedScope means "no constraint declared" —
// callers must treat that as "skip the check", never as "deny all".
func IsWithin(relativePath string, ownedScope []string) bool {
	if len(ownedScope) == 0 {
		return true
	}

	path := normalize(relativePath)
	for _, pattern := range ownedScope {
		if matches(path, pattern) {
			return true
		}
	}
	return false
}

func matches(path, pattern string) bool {
	base := normalize(pattern)
	base = strings.TrimSuffix(base, "/**")
	base = strings.TrimSuffix(base, "/*")
	if base == "" {
		return false
	}
	return path == base || strings.HasPrefix(path, base+"/")
}

func normalize(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
