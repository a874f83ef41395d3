package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize(t *testing.T) {
	tests := []struct {
		name string
		text string
		ctx  Context
		want IntentType
	}{
		{"balance", "Số dư của tôi là bao nhiêu?", Context{}, IntentBalance},
		{"balance english", "check my balance", Context{}, IntentBalance},
		{"interest", "Lãi suất tiết kiệm 6 tháng là bao nhiêu?", Context{}, IntentInterest},
		{"transfer keyword", "Chuyển tiền cho mẹ", Context{}, IntentTransfer},
		{"transfer amount only", "200 nghìn", Context{}, IntentTransfer},
		{"spending", "Chi tiêu tháng này của tôi", Context{}, IntentSpending},
		{"loan", "Tôi muốn vay 500 triệu", Context{}, IntentLoan},
		{"cancel", "Thôi, hủy đi", Context{}, IntentCancel},
		{"history", "Xem lịch sử giao dịch", Context{}, IntentHistory},
		{"follow up with context", "3 tháng thì sao?", Context{PreviousIntent: IntentInterest}, IntentFollowUp},
		{"follow up without context", "3 tháng thì sao?", Context{}, IntentTransfer},
		{"unknown", "thời tiết hôm nay", Context{}, IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recognize(tt.text, tt.ctx)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.text, got.Raw)
		})
	}
}

func TestRecognizeCancelWins(t *testing.T) {
	// Cancel beats every other keyword in the same utterance.
	got := Recognize("Hủy chuyển tiền đi", Context{})
	assert.Equal(t, IntentCancel, got.Type)
}

func TestRecognizeLoanBeforeTransfer(t *testing.T) {
	got := Recognize("Tôi muốn vay 500 triệu", Context{})
	require.Equal(t, IntentLoan, got.Type)
	assert.True(t, got.HasAmount)
	assert.Equal(t, int64(500_000_000), got.Amount)
}

func TestRecognizeTransferAmount(t *testing.T) {
	got := Recognize("Chuyển 200k", Context{})
	require.Equal(t, IntentTransfer, got.Type)
	assert.True(t, got.HasAmount)
	assert.Equal(t, int64(200_000), got.Amount)
	assert.False(t, got.IsNegative)

	got = Recognize("Chuyển -500k", Context{})
	require.Equal(t, IntentTransfer, got.Type)
	assert.True(t, got.IsNegative)
	assert.Equal(t, int64(-500_000), got.Amount)
}

func TestRecognizeInterestAttachments(t *testing.T) {
	got := Recognize("Lãi suất 6 tháng", Context{})
	require.Equal(t, IntentInterest, got.Type)
	assert.Equal(t, "6", got.Term)
	assert.Empty(t, got.Product)

	got = Recognize("Lãi suất bitcoin", Context{})
	require.Equal(t, IntentInterest, got.Type)
	assert.Equal(t, "bitcoin", got.Product)
	assert.Empty(t, got.Term)

	got = Recognize("Lãi suất tiết kiệm", Context{})
	require.Equal(t, IntentInterest, got.Type)
	assert.Empty(t, got.Term)
}

func TestRecognizeFollowUpTerm(t *testing.T) {
	got := Recognize("Thế còn 3 tháng thì sao?", Context{PreviousIntent: IntentInterest})
	require.Equal(t, IntentFollowUp, got.Type)
	assert.Equal(t, "3", got.Term)
}

// Same input and context always classify identically.
func TestRecognizeDeterministic(t *testing.T) {
	ctx := Context{PreviousIntent: IntentInterest}
	first := Recognize("6 tháng thì sao?", ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Recognize("6 tháng thì sao?", ctx))
	}
}
