package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/nlu"
	"github.com/truongvq/tellerbot/internal/policy"
)

func newGenerator() *Generator {
	return NewGenerator(policy.NewStore(), bank.Seed())
}

func TestGenerateBalance(t *testing.T) {
	g := newGenerator()
	resp := g.Generate(nlu.Intent{Type: nlu.IntentBalance}, Context{})

	assert.Equal(t, TypeBalance, resp.Type)
	assert.Equal(t, "Số dư hiện tại của bạn là 1.850.000 VND.", resp.Text)
	require.NotNil(t, resp.Payload)
	require.NotNil(t, resp.Payload.Balance)
	assert.Equal(t, int64(1_850_000), *resp.Payload.Balance)
}

func TestInterestRateStoredValues(t *testing.T) {
	g := newGenerator()
	tests := []struct {
		term string
		rate float64
		text string
	}{
		{"3", 4.6, "Lãi suất tiết kiệm online kỳ hạn 3 tháng là 4.6%/năm."},
		{"6", 5.7, "Lãi suất tiết kiệm online kỳ hạn 6 tháng là 5.7%/năm."},
		{"12", 5.8, "Lãi suất tiết kiệm online kỳ hạn 12 tháng là 5.8%/năm."},
	}
	for _, tt := range tests {
		resp := g.InterestRate(tt.term, "")
		assert.Equal(t, TypeInterestRate, resp.Type)
		assert.Equal(t, tt.text, resp.Text)
		require.NotNil(t, resp.Payload, tt.term)
		require.NotNil(t, resp.Payload.Rate, tt.term)
		assert.Equal(t, tt.rate, *resp.Payload.Rate, tt.term)
	}
}

func TestInterestRateAllTerms(t *testing.T) {
	g := newGenerator()
	resp := g.InterestRate("", "")
	assert.Equal(t, TypeInterestRate, resp.Type)
	assert.Equal(t, "Lãi suất tiết kiệm online OCB: 3 tháng: 4.6%, 6 tháng: 5.7%, 12 tháng: 5.8%", resp.Text)
}

// A refusal must never carry a rate, no matter what else the intent holds.
func TestInterestRateRefusalCarriesNoRate(t *testing.T) {
	g := newGenerator()
	resp := g.InterestRate("6", "bitcoin")

	assert.True(t, resp.IsRefusal)
	assert.Equal(t, TypeError, resp.Type)
	assert.Nil(t, resp.Payload)
	assert.Contains(t, resp.Text, "bitcoin")
	assert.Contains(t, resp.Text, "1800 6678")
}

func TestInterestRateUnknownTerm(t *testing.T) {
	g := newGenerator()
	resp := g.InterestRate("9", "")
	assert.Equal(t, TypeError, resp.Type)
	assert.False(t, resp.IsRefusal)
	assert.Nil(t, resp.Payload)
	assert.Contains(t, resp.Text, "kỳ hạn 9 tháng")
}

func TestFollowUpReusesInterestContext(t *testing.T) {
	g := newGenerator()
	ctx := Context{PreviousIntent: nlu.IntentInterest, PreviousTerm: "6"}

	// Follow-up with its own term answers that term.
	resp := g.Generate(nlu.Intent{Type: nlu.IntentFollowUp, Term: "3"}, ctx)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, 4.6, *resp.Payload.Rate)

	// Follow-up without a term repeats the previous one.
	resp = g.Generate(nlu.Intent{Type: nlu.IntentFollowUp}, ctx)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, 5.7, *resp.Payload.Rate)

	// No interest context degrades to a clarification.
	resp = g.Generate(nlu.Intent{Type: nlu.IntentFollowUp}, Context{})
	assert.Equal(t, TypeText, resp.Type)
	assert.Nil(t, resp.Payload)
}

func TestGenerateSpendingOverLimit(t *testing.T) {
	g := newGenerator()
	resp := g.Generate(nlu.Intent{Type: nlu.IntentSpending}, Context{})

	assert.Equal(t, TypeSpendingChart, resp.Type)
	assert.Contains(t, resp.Text, "15.450.000 VND")
	assert.Contains(t, resp.Text, "vượt hạn mức 5.450.000 VND")
	require.NotNil(t, resp.Payload)
	require.NotNil(t, resp.Payload.Spending)
	assert.Len(t, resp.Payload.Spending.Categories, 4)
}

func TestGenerateLoanAlwaysDenied(t *testing.T) {
	g := newGenerator()
	resp := g.Generate(nlu.Intent{Type: nlu.IntentLoan, Amount: 500_000_000, HasAmount: true}, Context{})
	assert.Equal(t, TypeLoanDenied, resp.Type)
	assert.Contains(t, resp.Text, "không thể cho bạn sử dụng Khoản vay")
}

func TestGenerateTransfer(t *testing.T) {
	g := newGenerator()

	resp := g.Generate(nlu.Intent{Type: nlu.IntentTransfer, Amount: 500_000, HasAmount: true}, Context{})
	assert.Equal(t, TypeBeneficiaryList, resp.Type)
	assert.Equal(t, "Chuyển 500.000 VND cho ai?", resp.Text)
	require.NotNil(t, resp.Payload)
	assert.Len(t, resp.Payload.Beneficiaries, 4)

	resp = g.Generate(nlu.Intent{Type: nlu.IntentTransfer}, Context{})
	assert.Equal(t, "Bạn muốn chuyển bao nhiêu tiền?", resp.Text)

	resp = g.Generate(nlu.Intent{Type: nlu.IntentTransfer, Amount: -500_000, HasAmount: true, IsNegative: true}, Context{})
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, "Số tiền không hợp lệ. Số tiền phải là số dương.", resp.Text)
}

func TestGenerateUnknown(t *testing.T) {
	g := newGenerator()
	resp := g.Generate(nlu.Intent{Type: nlu.IntentUnknown}, Context{})
	assert.Equal(t, TypeText, resp.Type)
	assert.Contains(t, resp.Text, `"Số dư"`)
}
