package parser

import (
	"regexp"
	"sort"
	"strings"
)

// knownUnits is the scan order used by ExtractUnit; the first unit found wins
var knownUnits = []string{
	"kg", "g", "l", "ml", "dozen", "packet", "piece", "bottle", "box", "bag", "jar", "bundle", "tray",
}

// unitSynonyms maps every accepted spelling to its canonical unit
var unitSynonyms = map[string]string{
	"kg": "kg", "kgs": "kg", "kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg",
	"g": "g", "gm": "g", "gms": "g", "gram": "g", "grams": "g", "gramme": "g", "grammes": "g",
	"l": "l", "lt": "l", "ltr": "l", "ltrs": "l", "litre": "l", "litres": "l", "liter": "l", "liters": "l",
	"ml": "ml", "mls": "ml", "millilitre": "ml", "millilitres": "ml", "milliliter": "ml", "milliliters": "ml",
	"dozen": "dozen", "dozens": "dozen", "dz": "dozen",
	"packet": "packet", "packets": "packet", "pack": "packet", "packs": "packet", "pkt": "packet", "pkts": "packet",
	"piece": "piece", "pieces": "piece", "pc": "piece", "pcs": "piece",
	"bottle": "bottle", "bottles": "bottle", "btl": "bottle",
	"box": "box", "boxes": "box",
	"bag": "bag", "bags": "bag", "sack": "bag", "sacks": "bag",
	"jar": "jar", "jars": "jar",
	"bundle": "bundle", "bundles": "bundle",
	"tray": "tray", "trays": "tray",
}

// numberWords are spoken quantities accepted in front of a unit
var numberWords = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"fifteen": 15, "twenty": 20, "fifty": 50, "hundred": 100, "half": 0.5, "quarter": 0.25,
}

var transactionVerbs = []string{
	"sold", "sell", "sells", "selling", "sale", "sales",
	"bought", "buy", "buys", "buying", "purchased", "purchase", "purchases",
	"spent", "spend", "expense", "expenses", "invoice", "bill",
	"paid", "pay", "payment", "payments", "received", "receive", "got", "income", "earned",
	"gave", "give", "given", "took", "take", "credit", "udhar",
}

var stopwords = []string{
	"for", "of", "at", "to", "the", "and", "with", "from", "by", "in", "on", "each", "per",
	"worth", "price", "cost", "costs", "total", "is", "was", "were", "are", "rs", "rupee", "rupees",
	"inr", "today", "yesterday", "my", "me", "i", "we", "some", "x", "qty", "amount", "rate", "mrp",
	"please", "add", "entry", "only", "just", "it", "customer",
}

// stripWords is every lower-case token the item extractor removes
var stripWords = buildWordSet(transactionVerbs, stopwords, numberWordList())

// customerExclusions reject "for NAME" candidates that are really quantities, units or goods
var customerExclusions = buildWordSet(numberWordList(), unitWordList(), []string{
	"rice", "sugar", "salt", "milk", "oil", "dal", "atta", "flour", "tea", "coffee", "bread", "butter",
	"egg", "eggs", "biscuit", "biscuits", "soap", "onion", "onions", "potato", "potatoes", "tomato",
	"tomatoes", "chips", "noodles", "water", "juice", "ghee", "curd", "paneer", "wheat", "jaggery",
	"maggi", "rs", "rupee", "rupees", "each", "cash", "credit", "delivery", "today", "tomorrow",
	"me", "him", "her", "them", "us", "now", "later", "home", "sale", "free",
})

// specialBrand is a product whose name would otherwise be mangled by unit or number stripping
type specialBrand struct {
	pattern *regexp.Regexp
	name    string
}

var specialBrands = []specialBrand{
	{regexp.MustCompile(`(?i)\bparle[\s-]*g\b`), "Parle G"},
	{regexp.MustCompile(`(?i)\bmaggi\b`), "Maggi"},
	{regexp.MustCompile(`(?i)\blay'?s\b`), "Lays"},
	{regexp.MustCompile(`(?i)\bkurkure\b`), "Kurkure"},
	{regexp.MustCompile(`(?i)\bgood[\s-]*day\b`), "Good Day"},
	{regexp.MustCompile(`(?i)\bmarie[\s-]*gold\b`), "Marie Gold"},
	{regexp.MustCompile(`(?i)\bbourbon\b`), "Bourbon"},
	{regexp.MustCompile(`(?i)\byippee\b`), "Yippee"},
	{regexp.MustCompile(`(?i)\bbingo\b`), "Bingo"},
}

// productTypes are suffixed to a brand name when the text mentions the category
var productTypes = []struct {
	pattern *regexp.Regexp
	suffix  string
}{
	{regexp.MustCompile(`(?i)\bbiscuits?\b`), "Biscuits"},
	{regexp.MustCompile(`(?i)\bnoodles?\b`), "Noodles"},
	{regexp.MustCompile(`(?i)\bchips?\b`), "Chips"},
}

var parleGPattern = specialBrands[0].pattern

const numberPattern = `\d+(?:\.\d+)?`

// currencyPattern matches a currency token; "rs" and "rupees" need a word start
const currencyPattern = `(?:₹|\brs\.?|\brupees?\b|\binr\b)`

var (
	unitAlternation    = alternation(keys(unitSynonyms))
	numWordAlternation = alternation(keys(numberWords))
	unitPatterns       = buildUnitPatterns()
	thousandsRe        = regexp.MustCompile(`(\d),(\d{3})\b`)
)

func buildUnitPatterns() map[string]*regexp.Regexp {
	byUnit := make(map[string][]string)
	for word, unit := range unitSynonyms {
		byUnit[unit] = append(byUnit[unit], word)
	}
	patterns := make(map[string]*regexp.Regexp, len(byUnit))
	for unit, words := range byUnit {
		patterns[unit] = regexp.MustCompile(`(?i)(?:^|[^\pL])(` + alternation(words) + `)(?:[^\pL]|$)`)
	}
	return patterns
}

// alternation builds a regexp alternation, longest words first so prefixes never shadow them
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func numberWordList() []string {
	return keys(numberWords)
}

func unitWordList() []string {
	return keys(unitSynonyms)
}

func buildWordSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, w := range list {
			set[w] = true
		}
	}
	return set
}

// isUnitWord accepts unit spellings and their plurals
func isUnitWord(word string) bool {
	w := strings.ToLower(word)
	if _, ok := unitSynonyms[w]; ok {
		return true
	}
	if strings.HasSuffix(w, "es") {
		if _, ok := unitSynonyms[strings.TrimSuffix(w, "es")]; ok {
			return true
		}
	}
	if strings.HasSuffix(w, "s") {
		if _, ok := unitSynonyms[strings.TrimSuffix(w, "s")]; ok {
			return true
		}
	}
	return false
}

// normalizeNumbers drops thousands separators so "1,200" survives comma splitting
func normalizeNumbers(text string) string {
	return thousandsRe.ReplaceAllString(text, "$1$2")
}
