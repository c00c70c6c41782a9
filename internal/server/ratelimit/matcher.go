package ratelimit

import "strings"

// Match returns the rule for the request, or nil if none applies.
// Exact paths win over prefix rules.
func Match(path, method string, rules []Rule) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method == method && r.Path == path {
			return r
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}
