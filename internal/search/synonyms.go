package search

// SynonymGroup ties a category slug to the free-text words people use for it.
type SynonymGroup struct {
	Slug     string
	Synonyms []string
}

// Groups is ordered; matching slugs are reported in this order.
var Groups = []SynonymGroup{
	{Slug: "restaurants", Synonyms: []string{
		"restaurant", "food", "dining", "eat", "pizza", "tacos", "burgers",
		"sushi", "bbq", "brunch", "diner", "takeout", "pho",
	}},
	{Slug: "cafes", Synonyms: []string{
		"coffee", "cafe", "café", "espresso", "tea", "bakery", "pastries", "donuts",
	}},
	{Slug: "bars", Synonyms: []string{
		"bar", "brewery", "beer", "wine", "pub", "cocktails", "taproom",
	}},
	{Slug: "shopping", Synonyms: []string{
		"shop", "store", "boutique", "retail", "clothing", "gifts", "books", "thrift",
	}},
	{Slug: "health-wellness", Synonyms: []string{
		"health", "wellness", "gym", "fitness", "yoga", "spa", "clinic",
		"dentist", "pharmacy", "massage",
	}},
	{Slug: "beauty", Synonyms: []string{
		"salon", "barber", "hair", "nails", "beauty", "cosmetics",
	}},
	{Slug: "services", Synonyms: []string{
		"repair", "plumber", "electrician", "mechanic", "cleaning", "laundry", "tailor",
	}},
	{Slug: "arts-culture", Synonyms: []string{
		"gallery", "museum", "music", "theater", "studio", "murals", "artist",
	}},
	{Slug: "civic", Synonyms: []string{
		"library", "community", "nonprofit", "church", "school", "government", "civic",
	}},
	{Slug: "parks", Synonyms: []string{
		"park", "garden", "playground", "trail", "recreation", "outdoors",
	}},
}
