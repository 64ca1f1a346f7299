package ratelimit

import "strings"

// MatchRule returns the rule for a request: exact path matches first, then the
// longest matching prefix rule. It returns nil when nothing matches.
func MatchRule(path, method string, rules []Rule) *Rule {
	var best *Rule
	for i := range rules {
		r := &rules[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			if best == nil || len(r.Path) > len(best.Path) {
				best = r
			}
		}
	}
	return best
}
