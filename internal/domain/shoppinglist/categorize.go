package shoppinglist

import "strings"

// ItemCategory is a shopping-list aisle category.
type ItemCategory string

const (
	CategoryProduce   ItemCategory = "produce"
	CategoryDairy     ItemCategory = "dairy"
	CategoryMeat      ItemCategory = "meat"
	CategoryPoultry   ItemCategory = "poultry"
	CategorySeafood   ItemCategory = "seafood"
	CategoryBakery    ItemCategory = "bakery"
	CategoryFrozen    ItemCategory = "frozen"
	CategorySpices    ItemCategory = "spices"
	CategoryBeverages ItemCategory = "beverages"
	CategoryPantry    ItemCategory = "pantry"
)

// categoryKeywords is checked in order; the first category whose keyword
// appears as a substring of the ingredient name wins, with pantry as the
// fallback when nothing matches.
var categoryKeywords = []struct {
	category ItemCategory
	keywords []string
}{
	{CategoryProduce, []string{
		"tomato", "onion", "garlic", "lettuce", "spinach", "kale", "carrot",
		"celery", "pepper", "cucumber", "zucchini", "broccoli", "cauliflower",
		"mushroom", "potato", "avocado", "apple", "banana", "orange", "lemon",
		"lime", "berry", "berries", "grape", "melon", "mango", "pineapple",
		"peach", "pear", "plum", "cabbage", "corn", "pea", "bean sprout",
		"herb", "cilantro", "parsley", "basil", "mint", "ginger", "scallion",
		"leek", "radish", "beet", "squash", "eggplant", "asparagus",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "yogurt", "butter", "cream", "egg", "mozzarella",
		"cheddar", "parmesan", "feta", "ricotta", "sour cream", "ghee",
	}},
	{CategoryMeat, []string{
		"beef", "pork", "lamb", "veal", "bacon", "sausage", "ham", "steak",
		"ground meat", "prosciutto", "chorizo",
	}},
	{CategoryPoultry, []string{
		"chicken", "turkey", "duck", "hen",
	}},
	{CategorySeafood, []string{
		"fish", "salmon", "tuna", "shrimp", "prawn", "crab", "lobster",
		"scallop", "mussel", "clam", "cod", "halibut", "tilapia", "anchovy",
		"sardine",
	}},
	{CategoryBakery, []string{
		"bread", "bagel", "bun", "roll", "tortilla", "pita", "croissant",
		"baguette", "naan",
	}},
	{CategoryFrozen, []string{
		"frozen", "ice cream", "sorbet",
	}},
	{CategorySpices, []string{
		"salt", "cumin", "paprika", "oregano", "thyme", "rosemary", "cinnamon",
		"nutmeg", "turmeric", "curry powder", "chili powder", "cayenne",
		"black pepper", "white pepper", "spice", "seasoning", "bay leaf",
		"vanilla",
	}},
	{CategoryBeverages, []string{
		"juice", "coffee", "tea", "soda", "wine", "beer", "water", "kombucha",
	}},
}

// Categorize assigns an ingredient name to a shopping category by keyword
// substring match.
func Categorize(name string) ItemCategory {
	lowered := strings.ToLower(name)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.category
			}
		}
	}
	return CategoryPantry
}
