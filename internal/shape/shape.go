// Package shape buckets free-text shot results into the six canonical
// shot-shape categories. Golfers describe the same miss a dozen ways
// ("pull hook", "snap hook", "pulled it"), so classification is best-effort
// keyword matching rather than a fixed enumeration.
package shape

import "strings"

// Category is one of the six shot-shape buckets.
type Category string

const (
	Left        Category = "left"
	CenterLeft  Category = "center_left"
	Center      Category = "center"
	CenterRight Category = "center_right"
	Right       Category = "right"
	Other       Category = "other"
)

// Categories lists the buckets in chart order, left to right.
var Categories = []Category{Left, CenterLeft, Center, CenterRight, Right, Other}

// Normalize lowercases and trims a raw result string the same way the
// classifier does, for display alongside classified data.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Classify maps a raw result string to its category. Keyword sets are
// checked in fixed priority order and the first match wins, so a label
// containing keywords from two buckets resolves by priority ("slight pull
// fade" is Left). Matching is substring containment, not whole-word:
// "pushover" classifies as Right. Historical charts were built on that
// behavior, so it is kept as is.
func Classify(raw string) Category {
	r := Normalize(raw)
	switch {
	case contains(r, "left", "hook", "pull"):
		return Left
	case contains(r, "draw"):
		return CenterLeft
	case contains(r, "right", "slice", "push"):
		return Right
	case contains(r, "cut", "fade"):
		return CenterRight
	case contains(r, "center", "straight", "pure"):
		return Center
	default:
		return Other
	}
}

// Lane returns the discrete horizontal chart offset for a category.
func Lane(c Category) int {
	switch c {
	case Left:
		return -2
	case CenterLeft:
		return -1
	case Right:
		return 2
	case CenterRight:
		return 1
	default: // Center and Other share the middle lane
		return 0
	}
}

func contains(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
