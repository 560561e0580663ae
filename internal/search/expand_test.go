package search

import (
	"reflect"
	"testing"
)

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestExpandSearchTermsPizza(t *testing.T) {
	terms := ExpandSearchTerms("  Pizza ")

	for _, want := range []string{"pizza", "restaurants", "food", "dining", "restaurant", "tacos"} {
		if !contains(terms, want) {
			t.Errorf("expected %q in %v", want, terms)
		}
	}
	if contains(terms, "cafes") || contains(terms, "coffee") {
		t.Errorf("unexpected cafes group in %v", terms)
	}

	seen := map[string]bool{}
	for _, term := range terms {
		if seen[term] {
			t.Fatalf("duplicate term %q in %v", term, terms)
		}
		seen[term] = true
	}

	if got := MatchingCategorySlugs("pizza"); !reflect.DeepEqual(got, []string{"restaurants"}) {
		t.Fatalf("MatchingCategorySlugs(pizza) = %v", got)
	}
}

func TestExpandSearchTermsNoMatch(t *testing.T) {
	if got := ExpandSearchTerms("xyz123"); !reflect.DeepEqual(got, []string{"xyz123"}) {
		t.Fatalf("ExpandSearchTerms(xyz123) = %v", got)
	}
	if got := MatchingCategorySlugs("xyz123"); len(got) != 0 {
		t.Fatalf("MatchingCategorySlugs(xyz123) = %v", got)
	}
}

func TestExpandSearchTermsBidirectional(t *testing.T) {
	// query contained in a synonym
	if got := MatchingCategorySlugs("coff"); !reflect.DeepEqual(got, []string{"cafes"}) {
		t.Fatalf("MatchingCategorySlugs(coff) = %v", got)
	}
	// synonym contained in the query
	if got := MatchingCategorySlugs("best yoga studio"); !contains(got, "health-wellness") {
		t.Fatalf("MatchingCategorySlugs(best yoga studio) = %v", got)
	}
}

func TestExpandSearchTermsEmpty(t *testing.T) {
	if got := ExpandSearchTerms("   "); got != nil {
		t.Fatalf("expected nil for blank query, got %v", got)
	}
	if got := MatchingCategorySlugs(""); len(got) != 0 {
		t.Fatalf("expected no slugs for blank query, got %v", got)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("escapeLike = %q", got)
	}
}
