package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NormalizeUnit case-folds and singularizes a unit against the synonym table.
// Unrecognized units are returned unchanged.
func NormalizeUnit(unit string) string {
	key := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitSynonyms[key]; ok {
		return canonical
	}
	return unit
}

// ExtractUnit returns the first known unit mentioned in text, scanning units in a fixed order,
// or "" when none is present. The "G" of "Parle G" is never taken as grams.
func ExtractUnit(text string) string {
	cleaned := parleGPattern.ReplaceAllString(text, " ")
	for _, unit := range knownUnits {
		if unitPatterns[unit].MatchString(cleaned) {
			return unit
		}
	}
	return ""
}

var (
	qtyBeforeUnitRe     = regexp.MustCompile(`(?i)(?:^|[^\pL\d.])(` + numberPattern + `)\s*(?:` + unitAlternation + `)(?:[^\pL]|$)`)
	qtyWordBeforeUnitRe = regexp.MustCompile(`(?i)(?:^|[^\pL])(` + numWordAlternation + `)\s+(?:` + unitAlternation + `)(?:[^\pL]|$)`)
	leadingQtyRe        = regexp.MustCompile(`(?i)^\s*(?:(?:` + alternation(transactionVerbs) + `)\s+)?(` + numberPattern + `)\s+(\S+)`)
	leadingQtyWordRe    = regexp.MustCompile(`(?i)^\s*(?:(?:` + alternation(transactionVerbs) + `)\s+)?(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty|fifty|hundred)\s+\pL`)
	qtyOfRe             = regexp.MustCompile(`(?i)(` + numberPattern + `)\s+of\b`)
	currencyWordRe      = regexp.MustCompile(`(?i)^(?:₹|rs\.?|rupees?|inr|/-)$`)
)

// ExtractQuantity finds the quantity in text: a number in front of a unit, a leading number
// followed by an item word, or a number followed by "of". It defaults to 1 and never returns zero or a negative value.
func ExtractQuantity(text string) float64 {
	cleaned := normalizeNumbers(parleGPattern.ReplaceAllString(text, " "))

	if m := qtyBeforeUnitRe.FindStringSubmatch(cleaned); m != nil {
		if qty, ok := positive(m[1]); ok {
			return qty
		}
	}
	if m := qtyWordBeforeUnitRe.FindStringSubmatch(cleaned); m != nil {
		return numberWords[strings.ToLower(m[1])]
	}
	if m := leadingQtyRe.FindStringSubmatch(cleaned); m != nil && quantityFollower(m[2]) {
		if qty, ok := positive(m[1]); ok {
			return qty
		}
	}
	if m := leadingQtyWordRe.FindStringSubmatch(cleaned); m != nil {
		return numberWords[strings.ToLower(m[1])]
	}
	if m := qtyOfRe.FindStringSubmatch(cleaned); m != nil {
		if qty, ok := positive(m[1]); ok {
			return qty
		}
	}
	return 1
}

// priceRule is one entry of the ordered price grammar. accept may veto a match.
type priceRule struct {
	name    string
	pattern *regexp.Regexp
	accept  func(m []string) bool
}

var priceRules = []priceRule{
	{
		name:    "currency-prefix",
		pattern: regexp.MustCompile(`(?i)(?:\bfor\s+)?` + currencyPattern + `\s*(` + numberPattern + `)`),
	},
	{
		name:    "currency-suffix",
		pattern: regexp.MustCompile(`(?i)(` + numberPattern + `)\s*(?:₹|rs\b\.?|rupees?\b|inr\b|/-)`),
	},
	{
		name:    "each-per",
		pattern: regexp.MustCompile(`(?i)(?:\bat|\bfor|@)\s*(` + numberPattern + `)\s*(?:rs\b\.?|rupees?\b)?\s*(?:\beach\b|\bper\b|/)`),
	},
	{
		name:    "costs-price",
		pattern: regexp.MustCompile(`(?i)\b(?:costs?|priced?|rate|mrp)\s*(?:is|of|at|:|=)?\s*(` + numberPattern + `)`),
	},
	{
		name:    "for-at-number",
		pattern: regexp.MustCompile(`(?i)(?:\bfor|\bat|@)\s*(` + numberPattern + `)(?:\s*(\pL+))?`),
		accept: func(m []string) bool {
			return m[2] == "" || !isUnitWord(m[2])
		},
	},
}

// amountFollowers introduce the payee or purpose of an amount: "spent 200 on tea"
var amountFollowers = []string{"on", "from", "by", "to", "towards", "against"}

var (
	numberRe          = regexp.MustCompile(numberPattern)
	trailingNumRe     = regexp.MustCompile(`(` + numberPattern + `)\s*$`)
	bareAmountRe      = regexp.MustCompile(`(?i)(?:^|[^\pL\d.])(` + numberPattern + `)\s*(?:[.!]*\s*$|(?:` + alternation(amountFollowers) + `)\b)`)
	amountFollowerSet = buildWordSet(amountFollowers)
)

// quantityFollower reports whether word may follow a leading quantity. Currency words and
// amount prepositions mark the number as money instead.
func quantityFollower(word string) bool {
	w := strings.ToLower(strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) }))
	return !currencyWordRe.MatchString(word) && !amountFollowerSet[w]
}

// ExtractPrice tries the price grammar in order and returns the first positive match.
// Two fallbacks follow: a trailing number when another number (the quantity) precedes it, and
// a lone number at the end of the text or in front of an amount preposition ("bill 500",
// "spent 200 on tea").
func ExtractPrice(text string) (float64, bool) {
	cleaned := normalizeNumbers(text)
	for _, rule := range priceRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(cleaned, -1) {
			if rule.accept != nil && !rule.accept(m) {
				continue
			}
			if price, ok := positive(m[1]); ok {
				return price, true
			}
		}
	}
	fallback := bareAmountRe
	if len(numberRe.FindAllString(cleaned, -1)) >= 2 {
		fallback = trailingNumRe
	}
	if m := fallback.FindStringSubmatch(cleaned); m != nil {
		return positive(m[1])
	}
	return 0, false
}

// ContainsSpecialBrand returns the canonical brand name mentioned in text. When the text names a
// product category the brand does not already carry, the category is appended ("Parle G Biscuits").
func ContainsSpecialBrand(text string) (string, bool) {
	for _, brand := range specialBrands {
		if !brand.pattern.MatchString(text) {
			continue
		}
		name := brand.name
		for _, pt := range productTypes {
			if pt.pattern.MatchString(text) && !strings.Contains(strings.ToLower(name), strings.ToLower(pt.suffix)) {
				name = name + " " + pt.suffix
				break
			}
		}
		return name, true
	}
	return "", false
}

func positive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// lineTotal is qty * price rounded to 2 decimals
func lineTotal(qty, price float64) float64 {
	total, _ := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).Round(2).Float64()
	return total
}

// sumMoney adds amounts without float drift, rounded to 2 decimals
func sumMoney(amounts ...float64) float64 {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(decimal.NewFromFloat(a))
	}
	total, _ := sum.Round(2).Float64()
	return total
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
