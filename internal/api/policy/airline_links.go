package policy

import (
	"regexp"
	"strings"
)

// airlineEntry maps match keys (full name plus the 2-letter IATA alias)
// onto one canonical display name and baggage-policy URL. Exactly one
// canonical pair exists per airline no matter which key matched.
type airlineEntry struct {
	keys []string
	name string
	url  string
}

// Table order is authoritative: lookups scan it in sequence and the first
// hit wins, so reordering entries changes observable answers.
var airlineTable = []airlineEntry{
	{[]string{"american", "aa"}, "American Airlines", "https://www.aa.com/i18n/travel-info/baggage/baggage.jsp"},
	{[]string{"delta", "dl"}, "Delta Air Lines", "https://www.delta.com/traveling-with-us/baggage"},
	{[]string{"united", "ua"}, "United Airlines", "https://www.united.com/en/us/fly/travel/baggage.html"},
	{[]string{"southwest", "wn"}, "Southwest Airlines", "https://www.southwest.com/help/baggage"},
	{[]string{"alaska", "as"}, "Alaska Airlines", "https://www.alaskaair.com/travel-info/baggage/overview"},
	{[]string{"jetblue", "b6"}, "JetBlue", "https://www.jetblue.com/help/baggage"},
	{[]string{"air canada", "ac"}, "Air Canada", "https://www.aircanada.com/ca/en/aco/home/plan/baggage.html"},
	{[]string{"british airways", "ba"}, "British Airways", "https://www.britishairways.com/en-us/information/baggage-essentials"},
	{[]string{"lufthansa", "lh"}, "Lufthansa", "https://www.lufthansa.com/us/en/baggage-overview"},
	{[]string{"emirates", "ek"}, "Emirates", "https://www.emirates.com/us/english/before-you-fly/baggage/"},
	{[]string{"qatar", "qr"}, "Qatar Airways", "https://www.qatarairways.com/en-us/baggage/allowance.html"},
	{[]string{"singapore", "sq"}, "Singapore Airlines", "https://www.singaporeair.com/en_UK/us/travel-info/baggage/"},
}

// These two are checked first as plain substrings: their 2-letter aliases
// ("ac", "ba") collide with ordinary words under word-boundary matching.
var literalFirstKeys = []string{"air canada", "british airways"}

var wordKeyRes = buildWordKeyRes()

func buildWordKeyRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp)
	for _, entry := range airlineTable {
		for _, key := range entry.keys {
			if isLiteralFirst(key) {
				continue
			}
			res[key] = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
		}
	}
	return res
}

func isLiteralFirst(key string) bool {
	for _, k := range literalFirstKeys {
		if key == k {
			return true
		}
	}
	return false
}

func entryForKey(key string) (airlineEntry, bool) {
	for _, entry := range airlineTable {
		for _, k := range entry.keys {
			if k == key {
				return entry, true
			}
		}
	}
	return airlineEntry{}, false
}

// BaggageLink finds the airline mentioned in normalized text and returns
// its canonical display name and baggage-policy URL.
func (s *Service) BaggageLink(normalized string) (string, string, bool) {
	for _, key := range literalFirstKeys {
		if strings.Contains(normalized, key) {
			entry, _ := entryForKey(key)
			return entry.name, entry.url, true
		}
	}

	for _, entry := range airlineTable {
		for _, key := range entry.keys {
			if isLiteralFirst(key) {
				continue
			}
			if wordKeyRes[key].MatchString(normalized) {
				return entry.name, entry.url, true
			}
		}
	}

	return "", "", false
}
