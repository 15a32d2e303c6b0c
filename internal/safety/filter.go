package safety

import "path/filepath"

// Filter controls access to named workers using an allowlist and a denylist
// of glob patterns (as understood by filepath.Match).
//
// Rules:
//   - If both lists are empty (or nil), every worker is allowed.
//   - The denylist always takes priority over the allowlist.
//   - With a non-empty allowlist, a worker must match at least one allowlist
//     pattern to be permitted (after the denylist check).
type Filter struct {
	allowlist []string
	denylist  []string
}

// NewFilter constructs a Filter from the provided pattern slices. Either or
// both may be nil or empty.
func NewFilter(allowlist, denylist []string) *Filter {
	return &Filter{allowlist: allowlist, denylist: denylist}
}

// IsAllowed reports whether name is permitted by this filter.
func (f *Filter) IsAllowed(name string) bool {
	for _, pattern := range f.denylist {
		if matchGlob(pattern, name) {
			return false
		}
	}

	if len(f.allowlist) == 0 {
		return true
	}

	for _, pattern := range f.allowlist {
		if matchGlob(pattern, name) {
			return true
		}
	}
	return false
}

// matchGlob reports whether name matches pattern. Malformed patterns are
// treated as non-matching.
func matchGlob(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return false
	}
	return matched
}
