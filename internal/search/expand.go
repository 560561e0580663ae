// Package search broadens directory queries through category synonym groups.
package search

import "strings"

// Normalize lowercases and trims a raw query.
func Normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// matches is deliberately loose: equality or substring in either direction.
func matches(q, synonym string) bool {
	return q == synonym || strings.Contains(q, synonym) || strings.Contains(synonym, q)
}

func groupMatches(q string, g SynonymGroup) bool {
	for _, s := range g.Synonyms {
		if matches(q, s) {
			return true
		}
	}
	return false
}

// ExpandSearchTerms returns the normalized query plus, for every matching
// synonym group, the group's slug and synonyms. An empty query expands to nil.
func ExpandSearchTerms(raw string) []string {
	q := Normalize(raw)
	if q == "" {
		return nil
	}

	seen := map[string]bool{q: true}
	terms := []string{q}
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	for _, g := range Groups {
		if !groupMatches(q, g) {
			continue
		}
		add(g.Slug)
		for _, s := range g.Synonyms {
			add(s)
		}
	}
	return terms
}

// MatchingCategorySlugs returns the slugs of groups that match the query.
func MatchingCategorySlugs(raw string) []string {
	q := Normalize(raw)
	out := []string{}
	if q == "" {
		return out
	}
	for _, g := range Groups {
		if groupMatches(q, g) {
			out = append(out, g.Slug)
		}
	}
	return out
}
