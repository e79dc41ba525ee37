package extract

import (
	"strings"
)

// directionRule pairs a keyword with the direction it indicates. Rules
// are evaluated in order and the first hit wins, so the ordering below
// IS the tie-break: every credit rule sits above every debit rule,
// which makes a message carrying both vocabularies resolve to CREDIT.
type directionRule struct {
	keyword   string
	direction Direction
}

var directionRules = []directionRule{
	{"credited", DirectionCredit},
	{"credit", DirectionCredit},
	{"received rs", DirectionCredit},
	{"received a payment", DirectionCredit},
	{"debited", DirectionDebit},
	{"debit", DirectionDebit},
	{"spent", DirectionDebit},
	{"paid", DirectionDebit},
	{"sent rs", DirectionDebit},
}

// resolveDirection picks the transaction direction from the lower-cased
// text. A message with no direction keyword at all falls back to DEBIT;
// that asymmetric default is long-standing observed behavior and is kept
// deliberately (see DESIGN.md).
func resolveDirection(lower string) Direction {
	for _, rule := range directionRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.direction
		}
	}
	return DirectionDebit
}
