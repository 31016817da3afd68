package evalsession

import (
	"regexp"
	"strings"
)

const (
	directiveKeyword    = "using"
	directiveTerminator = ";"
)

var spaceRuns = regexp.MustCompile(`\s{2,}`)

// splitDirectives concatenates raw directive fragments, splits them on the
// statement terminator, and canonicalizes each piece. An empty input yields
// nothing, but empty pieces inside a non-empty input survive: "a;" splits
// into "a" and "", and the latter canonicalizes to ";". That degenerate
// directive is evaluated and recorded like any other, matching the behavior
// callers have come to rely on.
func splitDirectives(fragments []string) []string {
	if len(fragments) == 0 {
		return nil
	}
	parts := strings.Split(strings.Join(fragments, ""), directiveTerminator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, canonicalDirective(p))
	}
	return out
}

// canonicalDirective reduces one fragment to its single canonical form: outer
// whitespace trimmed, terminator appended, keyword prefixed when missing, and
// runs of two or more spaces collapsed to one. Exactly one canonical form
// exists per logical namespace, which is what makes deduplication by string
// comparison sound.
func canonicalDirective(fragment string) string {
	d := strings.TrimSpace(fragment) + directiveTerminator
	if d != directiveTerminator && !strings.HasPrefix(d, directiveKeyword) {
		d = directiveKeyword + " " + d
	}
	return spaceRuns.ReplaceAllString(d, " ")
}
