package shoppinglist

import "strings"

// unitSynonyms collapses common unit spellings onto one canonical form so
// ingredients measured as "cups" and "cup" merge into a single entry.
var unitSynonyms = map[string]string{
	// volume
	"cups":        "cup",
	"c":           "cup",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tbs":         "tbsp",
	"tbsps":       "tbsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"tsps":        "tsp",
	"milliliter":  "ml",
	"milliliters": "ml",
	"liter":       "l",
	"liters":      "l",
	"litre":       "l",
	"litres":      "l",
	"fluid ounce": "fl oz",
	"fl. oz":      "fl oz",

	// weight
	"pound":     "lb",
	"pounds":    "lb",
	"lbs":       "lb",
	"ounce":     "oz",
	"ounces":    "oz",
	"gram":      "g",
	"grams":     "g",
	"kilogram":  "kg",
	"kilograms": "kg",

	// count
	"pieces":  "piece",
	"pc":      "piece",
	"pcs":     "piece",
	"clove":   "clove",
	"cloves":  "clove",
	"slices":  "slice",
	"pinches": "pinch",
	"dashes":  "dash",
	"cans":    "can",
	"jars":    "jar",
	"bunches": "bunch",
}

// NormalizeUnit maps a unit string onto its canonical form. Unknown units
// pass through lower-cased and trimmed.
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitSynonyms[u]; ok {
		return canonical
	}
	return u
}
