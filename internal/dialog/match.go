package dialog

import (
	"strings"

	"github.com/truongvq/tellerbot/internal/bank"
)

// Tokens that carry no name information in a transfer utterance.
var stopTokens = map[string]bool{
	"chuyển": true, "tiền": true, "cho": true, "tới": true,
	"vnd": true, "đ": true, "k": true,
}

// FindBeneficiary resolves a saved contact mentioned in free text. It first
// looks for the full name as a substring, then falls back to matching
// individual tokens (skipping stop words, short tokens and anything with a
// digit) against the parts of each contact's name.
func FindBeneficiary(text string, contacts []bank.Beneficiary) (bank.Beneficiary, bool) {
	lower := strings.ToLower(text)

	for _, b := range contacts {
		if strings.Contains(lower, strings.ToLower(b.Name)) {
			return b, true
		}
	}

	for _, token := range strings.Fields(lower) {
		if stopTokens[token] || len([]rune(token)) < 2 || strings.ContainsAny(token, "0123456789") {
			continue
		}
		for _, b := range contacts {
			for _, part := range strings.Fields(strings.ToLower(b.Name)) {
				if strings.Contains(part, token) {
					return b, true
				}
			}
		}
	}
	return bank.Beneficiary{}, false
}
