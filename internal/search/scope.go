package search

import (
	"strings"

	"gorm.io/gorm"
)

// Entities returns a gorm scope that filters entities by the expanded terms:
// any term as a case-insensitive substring of name, description or address,
// or membership in a matching category.
func Entities(raw string) func(*gorm.DB) *gorm.DB {
	terms := ExpandSearchTerms(raw)
	slugs := MatchingCategorySlugs(raw)

	return func(db *gorm.DB) *gorm.DB {
		if len(terms) == 0 {
			return db
		}

		clauses := make([]string, 0, len(terms)+1)
		args := make([]any, 0, len(terms)*3+1)
		for _, t := range terms {
			like := "%" + escapeLike(t) + "%"
			clauses = append(clauses,
				"LOWER(entities.name) LIKE ? OR LOWER(entities.description) LIKE ? OR LOWER(entities.address) LIKE ?")
			args = append(args, like, like, like)
		}
		if len(slugs) > 0 {
			clauses = append(clauses,
				"entities.category_id IN (SELECT id FROM categories WHERE slug IN ?)")
			args = append(args, slugs)
		}

		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
