package model

// Category is the semantic bucket a declaration is expected to live in.
// The filesystem subtree for each category comes from configuration.
type Category string

const (
	Navigation    Category = "navigation"
	Api           Category = "api"
	Entity        Category = "entity"
	Screen        Category = "screen"
	Ui            Category = "ui"
	Store         Category = "store"
	Uncategorized Category = "uncategorized"
)

// KnownCategories lists every category a rule table may target.
var KnownCategories = []Category{
	Navigation, Api, Entity, Screen, Ui, Store, Uncategorized,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, k := range KnownCategories {
		if c == k {
			return true
		}
	}
	return false
}
