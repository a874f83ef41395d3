package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// Vietnamese magnitude shorthand. Only whole tokens trailing the digit run
// count, so a "k" or "tr" buried in a beneficiary name or in "trừ" never
// scales the amount. When the number carries several unit words the
// largest-scale one wins. That precedence is deliberate and covered by tests.
var unitScale = map[string]int64{
	"k":     1_000,
	"nghìn": 1_000,
	"ngàn":  1_000,
	"tr":    1_000_000,
	"triệu": 1_000_000,
	"tỷ":    1_000_000_000,
}

// ExtractAmount parses an amount in VND out of free text: "500k" → 500000,
// "1 triệu" → 1000000, "âm 50 nghìn" → -50000. Thousands separators (commas
// and dots) are stripped before scanning. The second return is false when the
// text carries no digit run at all.
func ExtractAmount(text string) (int64, bool) {
	lower := strings.ToLower(text)
	lower = strings.ReplaceAll(lower, ",", "")
	lower = strings.ReplaceAll(lower, ".", "")

	negative := strings.Contains(lower, "-") ||
		strings.Contains(lower, "âm") ||
		strings.Contains(lower, "trừ")

	loc := digitRun.FindStringIndex(lower)
	if loc == nil {
		return 0, false
	}
	value, err := strconv.ParseInt(lower[loc[0]:loc[1]], 10, 64)
	if err != nil {
		return 0, false
	}

	// Unit words attach to the number: consume the token run right after the
	// digits ("500k", "5 nghìn triệu") and stop at the first non-unit token.
	multiplier := int64(1)
	for _, tok := range strings.Fields(lower[loc[1]:]) {
		scale, ok := unitScale[tok]
		if !ok {
			break
		}
		if scale > multiplier {
			multiplier = scale
		}
	}
	value *= multiplier
	if negative {
		value = -value
	}
	return value, true
}

// ExtractTerm pulls a savings term out of an interest-rate query and returns
// the term key ("3", "6", "12") or empty when no term phrase is present.
// Choosing a default for the empty case is the caller's job.
func ExtractTerm(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "12 tháng"), strings.Contains(lower, "1 năm"), strings.Contains(lower, "12t"):
		return "12"
	case strings.Contains(lower, "6 tháng"), strings.Contains(lower, "6t"):
		return "6"
	case strings.Contains(lower, "3 tháng"), strings.Contains(lower, "3t"):
		return "3"
	}
	return ""
}

// Denylist for the hallucination guard. Kept here rather than in the policy
// store because the recognizer must run without a store reference; the policy
// store carries the governance copy.
var unsupportedKeywords = []string{
	"bitcoin", "crypto", "ethereum", "tiền điện tử", "tiền ảo",
	"nft", "btc", "eth", "usdt", "coin",
}

// UnsupportedProduct returns the first denylisted product token the text
// mentions, or empty when none match.
func UnsupportedProduct(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range unsupportedKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
