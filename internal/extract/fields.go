package extract

import (
	"strconv"
	"strings"
)

// resolveAccountReference pulls the masked account suffix (or a bare
// digit run) that follows an account-label token. Absence is non-fatal;
// the field just stays empty.
func resolveAccountReference(text string) string {
	m := accountPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// resolvePaymentIdentifier finds the first local@domain payment handle
// in the text, if any.
func resolvePaymentIdentifier(text string) string {
	m := paymentIDPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// railPriority is the fixed order rails are tested in; the first rail
// whose token appears in the message wins.
var railPriority = []TransferMode{ModeUPI, ModeNEFT, ModeIMPS, ModeRTGS}

// resolveTransferMode detects the payment rail. Payment identifiers are
// blanked out first so that a handle like "merchant@upi" cannot claim
// the UPI rail for a message that actually travelled over NEFT.
func resolveTransferMode(text string) TransferMode {
	scan := strings.ToUpper(paymentIDPattern.ReplaceAllString(text, " "))
	for _, mode := range railPriority {
		if strings.Contains(scan, string(mode)) {
			return mode
		}
	}
	return ModeOther
}

// resolveReferenceNumber picks up the bank's transfer reference
// ("UPI Ref 384380308617", "Refno 763846935006", "ref No.589400102736").
func resolveReferenceNumber(text string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// resolveBalance extracts the post-transaction available balance when
// the message reports one.
func resolveBalance(text string) *float64 {
	m := balancePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &balance
}
