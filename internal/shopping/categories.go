package shopping

// Categories are the fixed grocery buckets of every shopping list, in display
// order. The categorization gateway is instructed to use exactly these names;
// anything else it returns is discarded.
var Categories = []string{
	"Warzywa i owoce",
	"Nabiał",
	"Mięso i ryby",
	"Przyprawy i sosy",
	"Inne",
}

func emptyItems() map[string][]string {
	items := make(map[string][]string, len(Categories))
	for _, category := range Categories {
		items[category] = []string{}
	}
	return items
}
