package extract

import (
	"strings"
)

// counterpartyMatcher attempts one message-template family and reports
// whether it produced a name.
type counterpartyMatcher func(text string) (string, bool)

// counterpartyChain is the fallback order. Matchers are independent and
// the chain short-circuits on the first success; keep new template
// families at the position their specificity deserves.
var counterpartyChain = []counterpartyMatcher{
	matchPrepositionBounded,
	matchTransferTemplate,
	matchUPITemplate,
}

// matchPrepositionBounded handles the generic "to/from <name> on|thru|via|ref"
// family. Names that are not payment handles get internal whitespace
// runs collapsed, since banks pad display names unpredictably.
func matchPrepositionBounded(text string) (string, bool) {
	m := prepositionBoundedPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if !strings.Contains(name, "@") {
		name = whitespaceRun.ReplaceAllString(name, " ")
	}
	return name, name != ""
}

// matchTransferTemplate handles the "trf to <name> Refno" family.
func matchTransferTemplate(text string) (string, bool) {
	m := transferTemplatePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

// matchUPITemplate handles the "for UPI to <name> on" family.
func matchUPITemplate(text string) (string, bool) {
	m := upiTemplatePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

// resolveCounterparty runs the template chain and falls back to the
// already-resolved payment identifier, then to the Unknown placeholder.
func resolveCounterparty(text, paymentID string) string {
	for _, match := range counterpartyChain {
		if name, ok := match(text); ok {
			return name
		}
	}
	if paymentID != "" {
		return paymentID
	}
	return CounterpartyUnknown
}
