package assertions

import (
	"strings"

	"golang.org/x/text/cases"
)

// ContainsFold reports whether substr occurs in s under Unicode case folding.
func ContainsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}

// ContainsAnyFold reports whether any of words occurs in s under case folding.
func ContainsAnyFold(s string, words ...string) bool {
	folded := cases.Fold().String(s)
	for _, w := range words {
		if strings.Contains(folded, cases.Fold().String(w)) {
			return true
		}
	}
	return false
}
