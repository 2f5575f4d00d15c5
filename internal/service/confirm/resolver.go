// Package confirm decides what a reply to a confirmation prompt means.
package confirm

import "strings"

type Decision int

const (
	Unclear Decision = iota
	Confirm
	Deny
)

func (d Decision) String() string {
	switch d {
	case Confirm:
		return "confirm"
	case Deny:
		return "deny"
	default:
		return "unclear"
	}
}

// Keyword order does not matter, but set order does: confirm is checked first,
// so "yes, cancel it" confirms.
var (
	confirmKeywords = []string{"yes", "confirm", "ok", "sure", "go ahead", "proceed", "do it"}
	denyKeywords    = []string{"no", "cancel", "don't", "stop", "nevermind", "never mind"}
)

// Resolve matches by containment, so "not sure" confirms and "know" denies.
func Resolve(reply string) Decision {
	text := strings.ToLower(strings.TrimSpace(reply))

	if containsAny(text, confirmKeywords) {
		return Confirm
	}
	if containsAny(text, denyKeywords) {
		return Deny
	}
	return Unclear
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
