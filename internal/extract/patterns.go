package extract

import (
	"regexp"
)

// All patterns are compiled once here so the priority orderings stay in
// one auditable place. Go's regexp package guarantees linear-time
// matching, which keeps Extract bounded on adversarial input.
var (
	// Amount strategies, tried in order (see resolveAmount).
	amountPatterns = []*regexp.Regexp{
		// Currency marker directly followed by a number: "Rs.1,234.50", "INR 500".
		regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
		// Transaction verb followed by a number: "debited by 35.0", "credited 250".
		regexp.MustCompile(`(?i)(?:debited|credited|sent|received|transferred)\s+(?:by\s+|with\s+|of\s+)?(?:rs\.?|inr|₹)?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
	}

	// Account label synonym, optional qualifier and punctuation, then either
	// a masked token ("XX1234") or a bare run of at least 4 digits.
	accountPattern = regexp.MustCompile(`(?i)(?:a/c|acct|account|ac)\s*(?:no|number|#)?\s*[.:]*\s*(x+[0-9]+|[0-9]{4,})`)

	// Payment-handle identifier anywhere in the text: local@domain.
	paymentIDPattern = regexp.MustCompile(`([a-zA-Z0-9][a-zA-Z0-9._-]*@[a-zA-Z0-9][a-zA-Z0-9.-]*)`)

	// Counterparty template families, one pattern per family (see
	// counterpartyChain for the fallback order).
	prepositionBoundedPattern = regexp.MustCompile(`(?i)(?:to|from)\s+([a-zA-Z0-9@._\s-]+?)\s+(?:on|thru|via|ref)`)
	transferTemplatePattern   = regexp.MustCompile(`(?i)trf\s+to\s+([a-zA-Z\s]+?)\s+(?:refno|ref)`)
	upiTemplatePattern        = regexp.MustCompile(`(?i)for\s+upi\s+to\s+([a-zA-Z\s]+?)\s+on`)

	// Reference-number phrasings, most specific first.
	referencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)upi\s*ref\s*(?:no\.?)?\s*[:#]?\s*([0-9]{6,})`),
		regexp.MustCompile(`(?i)(?:ref(?:erence)?|txn)\s*(?:no\.?|number)?\s*[:#]?\s*([a-zA-Z0-9]{6,})`),
	}

	// Running balance after the transaction: "Avl Bal 4583.96", "Avl Bal Rs.2.13".
	balancePattern = regexp.MustCompile(`(?i)\b(?:avl|available)?\s*bal(?:ance)?\s*(?:is\s*)?(?:rs\.?|inr|₹)?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)
