package extract

import (
	"strings"
)

// financialVocabulary is the fixed keyword set the classifier matches
// against: debit/credit verbs, rail names, currency markers and the
// balance token. Matching is recall-biased on purpose; a false positive
// only costs one failing extraction attempt, while a false negative
// silently drops a real transaction.
var financialVocabulary = []string{
	"debited", "credited", "spent", "received", "payment",
	"transferred", "transaction", "upi", "neft", "imps",
	"withdrawn", "deposited", "balance", "rs", "inr", "₹",
}

// IsFinancial reports whether text looks like it describes a monetary
// transaction. It is a cheap case-insensitive substring test, total and
// deterministic; absence of a match is an expected outcome, not an error.
func IsFinancial(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range financialVocabulary {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
