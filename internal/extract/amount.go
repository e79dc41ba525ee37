package extract

import (
	"strconv"
	"strings"
)

// resolveAmount finds the transaction amount in the raw (not lower-cased)
// message text. Two strategies are tried in order: a currency-marker
// prefixed number, then a transaction-verb prefixed number. The first
// capture wins; digit-group separators are stripped before conversion.
//
// Amount is the only mandatory field: a missing, unparseable or
// exactly-zero value fails the whole extraction.
func resolveAmount(text string) (float64, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount == 0 {
			return 0, false
		}
		return amount, true
	}
	return 0, false
}
