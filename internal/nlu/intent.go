// Package nlu turns raw Vietnamese utterances into tagged intents using
// deterministic keyword matching. There is no model behind this on purpose:
// classification must be auditable and reproducible, so the rules live in one
// ordered table evaluated first-match-wins.
package nlu

import "strings"

type IntentType string

const (
	IntentBalance  IntentType = "balance_inquiry"
	IntentInterest IntentType = "interest_rate"
	IntentTransfer IntentType = "transfer"
	IntentSpending IntentType = "spending_analysis"
	IntentLoan     IntentType = "loan_inquiry"
	IntentCancel   IntentType = "cancel"
	IntentFollowUp IntentType = "follow_up"
	IntentHistory  IntentType = "transaction_history"
	IntentUnknown  IntentType = "unknown"
)

// Intent is the classified purpose of one utterance. Produced fresh per turn,
// never mutated. HasAmount guards Amount the way a nullable would; IsNegative
// is set iff HasAmount and Amount < 0.
type Intent struct {
	Type       IntentType `json:"type"`
	Term       string     `json:"term,omitempty"`
	Amount     int64      `json:"amount,omitempty"`
	HasAmount  bool       `json:"hasAmount,omitempty"`
	Product    string     `json:"product,omitempty"`
	IsNegative bool       `json:"isNegative,omitempty"`
	Raw        string     `json:"raw"`
}

// Context is the slice of prior-turn state the recognizer is allowed to see.
// The recognizer itself is stateless; the dialogue controller threads this in.
type Context struct {
	PreviousIntent IntentType
}

var intentKeywords = map[IntentType][]string{
	IntentBalance:  {"số dư", "bao nhiêu tiền", "tiền trong ví", "còn bao nhiêu", "tài khoản", "balance", "account", "số tiền"},
	IntentInterest: {"lãi suất", "tiết kiệm", "gửi tiết kiệm", "interest", "rate", "lãi", "tiền gửi"},
	IntentTransfer: {"chuyển", "ck", "chuyển khoản", "transfer", "gửi tiền cho"},
	IntentSpending: {"chi tiêu", "tháng này", "đã tiêu", "spending", "expense"},
	IntentLoan:     {"vay", "khoản vay", "loan", "mượn tiền"},
	IntentCancel:   {"hủy", "reset", "thôi", "cancel", "bỏ qua"},
	IntentFollowUp: {"thì sao", "còn gì", "vậy thì", "thế còn"},
	IntentHistory:  {"lịch sử", "giao dịch", "đã chuyển", "history", "sao kê", "biến động"},
}

// turn is the per-utterance scratch the rule predicates read.
type turn struct {
	raw       string
	lower     string
	amount    int64
	hasAmount bool
	ctx       Context
}

func (t turn) anyKeyword(it IntentType) bool {
	for _, kw := range intentKeywords[it] {
		if strings.Contains(t.lower, kw) {
			return true
		}
	}
	return false
}

type rule struct {
	name  string
	match func(t turn) bool
	build func(t turn) Intent
}

// The table order is load-bearing:
//   - cancel short-circuits everything so a reset always works;
//   - follow_up needs prior context or it would shadow real intents;
//   - loan runs before transfer because loan utterances routinely carry
//     amounts ("vay 500 triệu") that would otherwise look like transfers;
//   - interest_rate runs its own unsupported-product check so the generator
//     can refuse without re-deriving the product.
var rules = []rule{
	{
		name:  "cancel",
		match: func(t turn) bool { return t.anyKeyword(IntentCancel) },
		build: func(t turn) Intent { return Intent{Type: IntentCancel, Raw: t.raw} },
	},
	{
		name: "follow_up",
		match: func(t turn) bool {
			return t.ctx.PreviousIntent != "" && t.anyKeyword(IntentFollowUp)
		},
		build: func(t turn) Intent {
			return Intent{Type: IntentFollowUp, Term: ExtractTerm(t.raw), Raw: t.raw}
		},
	},
	{
		name:  "balance_inquiry",
		match: func(t turn) bool { return t.anyKeyword(IntentBalance) },
		build: func(t turn) Intent { return Intent{Type: IntentBalance, Raw: t.raw} },
	},
	{
		name:  "interest_rate",
		match: func(t turn) bool { return t.anyKeyword(IntentInterest) },
		build: func(t turn) Intent {
			if product := UnsupportedProduct(t.raw); product != "" {
				return Intent{Type: IntentInterest, Product: product, Raw: t.raw}
			}
			return Intent{Type: IntentInterest, Term: ExtractTerm(t.raw), Raw: t.raw}
		},
	},
	{
		name:  "loan_inquiry",
		match: func(t turn) bool { return t.anyKeyword(IntentLoan) },
		build: func(t turn) Intent {
			return Intent{Type: IntentLoan, Amount: t.amount, HasAmount: t.hasAmount, Raw: t.raw}
		},
	},
	{
		name:  "transfer",
		match: func(t turn) bool { return t.anyKeyword(IntentTransfer) || t.hasAmount },
		build: func(t turn) Intent {
			return Intent{
				Type:       IntentTransfer,
				Amount:     t.amount,
				HasAmount:  t.hasAmount,
				IsNegative: t.hasAmount && t.amount < 0,
				Raw:        t.raw,
			}
		},
	},
	{
		name:  "spending_analysis",
		match: func(t turn) bool { return t.anyKeyword(IntentSpending) },
		build: func(t turn) Intent { return Intent{Type: IntentSpending, Raw: t.raw} },
	},
	{
		name:  "transaction_history",
		match: func(t turn) bool { return t.anyKeyword(IntentHistory) },
		build: func(t turn) Intent { return Intent{Type: IntentHistory, Raw: t.raw} },
	},
}

// Recognize classifies one utterance. Identical input and context always
// yield an identical intent.
func Recognize(text string, ctx Context) Intent {
	t := turn{raw: text, lower: strings.ToLower(text), ctx: ctx}
	t.amount, t.hasAmount = ExtractAmount(text)

	for _, r := range rules {
		if r.match(t) {
			return r.build(t)
		}
	}
	return Intent{Type: IntentUnknown, Raw: text}
}
