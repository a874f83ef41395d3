// Package reply turns a recognized intent into a structured bot response by
// consulting the policy store. It performs no I/O and cannot fail: an
// unknown term degrades to a clarification text, and a refusal never carries
// a rate — that asymmetry is the hallucination-prevention guarantee.
package reply

import (
	"fmt"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/nlu"
	"github.com/truongvq/tellerbot/internal/policy"
)

// Type tags a response so the rendering collaborator knows what to draw.
type Type string

const (
	TypeText            Type = "text"
	TypeBalance         Type = "balance"
	TypeInterestRate    Type = "interest_rate"
	TypeTransferConfirm Type = "transfer_confirmation"
	TypeBeneficiaryList Type = "beneficiary_list"
	TypeSpendingChart   Type = "spending_chart"
	TypeLoanDenied      Type = "loan_denied"
	TypeHandoverAlert   Type = "handover_alert"
	TypeError           Type = "error"
)

// TransferDetails is the prefill payload for the transfer-review flow.
type TransferDetails struct {
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	Amount        int64  `json:"amount"`
}

// Payload carries the typed body of a response. Exactly the fields matching
// the response type are set; Rate in particular is never set on a refusal.
type Payload struct {
	Rate          *float64           `json:"rate,omitempty"`
	Balance       *int64             `json:"balance,omitempty"`
	Beneficiaries []bank.Beneficiary `json:"beneficiaries,omitempty"`
	Spending      *bank.Spending     `json:"spending,omitempty"`
	Transfer      *TransferDetails   `json:"transfer,omitempty"`
}

// Response is one generated bot message body.
type Response struct {
	Text      string   `json:"text"`
	Type      Type     `json:"type"`
	IsRefusal bool     `json:"isRefusal,omitempty"`
	Payload   *Payload `json:"payload,omitempty"`
}

// Context is the prior-turn state the generator may use for follow-ups.
type Context struct {
	PreviousIntent nlu.IntentType
	PreviousTerm   string
}

// Generator produces responses from intents, the policy store and the bank
// reference data.
type Generator struct {
	policy *policy.Store
	bank   *bank.Repository
}

func NewGenerator(store *policy.Store, repo *bank.Repository) *Generator {
	return &Generator{policy: store, bank: repo}
}

// Generate maps an intent to a response. State transitions are the dialogue
// controller's job; this function only decides what to say.
func (g *Generator) Generate(intent nlu.Intent, ctx Context) Response {
	switch intent.Type {
	case nlu.IntentBalance:
		return g.balance()
	case nlu.IntentInterest:
		return g.InterestRate(intent.Term, intent.Product)
	case nlu.IntentFollowUp:
		return g.followUp(intent, ctx)
	case nlu.IntentSpending:
		return g.spending()
	case nlu.IntentLoan:
		return Response{
			Text: "Dựa trên lịch sử tín dụng của bạn, OCB không thể cho bạn sử dụng Khoản vay của ngân hàng.",
			Type: TypeLoanDenied,
		}
	case nlu.IntentTransfer:
		return g.transfer(intent)
	case nlu.IntentCancel:
		return Response{Text: "Đã hủy yêu cầu.", Type: TypeText}
	default:
		return Response{
			Text: `Xin lỗi, tôi chưa hiểu ý bạn. Bạn có thể hỏi về "Số dư", "Lãi suất", "Chuyển tiền", hoặc "Chi tiêu".`,
			Type: TypeText,
		}
	}
}

func (g *Generator) balance() Response {
	balance := g.bank.User().Balance
	return Response{
		Text:    g.policy.BalanceText(balance),
		Type:    TypeBalance,
		Payload: &Payload{Balance: &balance},
	}
}

// InterestRate answers a savings-rate query. An unsupported product yields a
// refusal with no rate in the payload; an empty term lists all stored rates;
// anything else reports the stored percentage exactly.
func (g *Generator) InterestRate(term, product string) Response {
	if product != "" && g.productUnsupported(product) {
		return Response{
			Text:      g.policy.UnsupportedProductText(product),
			Type:      TypeError,
			IsRefusal: true,
		}
	}

	if term == "" {
		return Response{Text: g.policy.AllRatesText(), Type: TypeInterestRate}
	}

	entry, ok := g.policy.Rate(term)
	if !ok {
		return Response{Text: g.policy.UnknownTermText(term), Type: TypeError}
	}
	rate := entry.Rate
	return Response{
		Text:    g.policy.InterestRateText(entry),
		Type:    TypeInterestRate,
		Payload: &Payload{Rate: &rate},
	}
}

func (g *Generator) productUnsupported(product string) bool {
	return nlu.UnsupportedProduct(product) != ""
}

func (g *Generator) followUp(intent nlu.Intent, ctx Context) Response {
	if ctx.PreviousIntent == nlu.IntentInterest {
		term := intent.Term
		if term == "" {
			term = ctx.PreviousTerm
		}
		return g.InterestRate(term, "")
	}
	return Response{
		Text: "Xin lỗi, tôi chưa hiểu ý bạn. Bạn có thể hỏi rõ hơn không?",
		Type: TypeText,
	}
}

func (g *Generator) spending() Response {
	spending := g.bank.Spending()
	text := fmt.Sprintf("⚠️ Tổng chi tiêu tháng này của bạn là %s VND.", g.policy.FormatVND(spending.Total))
	if over := spending.Total - spending.Limit; over > 0 {
		text += fmt.Sprintf(" Bạn đã vượt hạn mức %s VND!", g.policy.FormatVND(over))
	}
	return Response{
		Text:    text,
		Type:    TypeSpendingChart,
		Payload: &Payload{Spending: &spending},
	}
}

func (g *Generator) transfer(intent nlu.Intent) Response {
	if intent.IsNegative {
		return Response{Text: g.policy.NegativeAmountText(), Type: TypeError}
	}
	if intent.HasAmount {
		return Response{
			Text:    fmt.Sprintf("Chuyển %s VND cho ai?", g.policy.FormatVND(intent.Amount)),
			Type:    TypeBeneficiaryList,
			Payload: &Payload{Beneficiaries: g.bank.Beneficiaries()},
		}
	}
	return Response{Text: "Bạn muốn chuyển bao nhiêu tiền?", Type: TypeText}
}
