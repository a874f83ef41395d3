package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRates(t *testing.T) {
	s := NewStore()

	entry, ok := s.Rate("6")
	require.True(t, ok)
	assert.Equal(t, 5.7, entry.Rate)
	assert.Equal(t, "6 tháng", entry.Label)

	_, ok = s.Rate("9")
	assert.False(t, ok)

	all := s.Rates()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"3", "6", "12"}, []string{all[0].Term, all[1].Term, all[2].Term})
	assert.Equal(t, 4.6, all[0].Rate)
	assert.Equal(t, 5.8, all[2].Rate)
}

func TestTransferRules(t *testing.T) {
	rules := NewStore().Transfer()
	assert.Equal(t, int64(1000), rules.MinAmount)
	assert.Equal(t, int64(500_000_000), rules.MaxAmount)
	assert.Equal(t, 20, rules.MaxDailyTx)
}

func TestFormatVND(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "1.850.000", s.FormatVND(1_850_000))
	assert.Equal(t, "1.000", s.FormatVND(1000))
	assert.Equal(t, "500", s.FormatVND(500))
	assert.Equal(t, "500.000.000", s.FormatVND(500_000_000))
}

func TestTemplates(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "Số dư hiện tại của bạn là 1.850.000 VND.", s.BalanceText(1_850_000))
	assert.Equal(t, "Số tiền tối thiểu là 1.000 VND.", s.MinAmountText())
	assert.Equal(t, "Số tiền tối đa là 500.000.000 VND.", s.MaxAmountText())
	assert.Contains(t, s.UnsupportedProductText("bitcoin"), "1800 6678")
	assert.Contains(t, s.Disclaimer(), "Nghị định 13/2023")
}
