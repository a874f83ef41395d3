package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	r := Seed()

	assert.Equal(t, "NGUYEN VAN A", r.User().FullName)
	assert.Equal(t, int64(1_850_000), r.User().Balance)
	assert.Len(t, r.Beneficiaries(), 4)

	b, ok := r.BeneficiaryByID("ben_004")
	require.True(t, ok)
	assert.Equal(t, "DAO LE KHANH", b.Name)

	_, ok = r.BeneficiaryByID("ben_999")
	assert.False(t, ok)

	spending := r.Spending()
	assert.Equal(t, int64(15_450_000), spending.Total)
	assert.Equal(t, int64(10_000_000), spending.Limit)
}

func TestRecentTransactions(t *testing.T) {
	r := Seed()

	assert.Len(t, r.RecentTransactions(3), 3)
	assert.Len(t, r.RecentTransactions(10), 5)
	assert.Equal(t, "trans_001", r.RecentTransactions(1)[0].ID)

	// Returned slices are copies.
	rows := r.RecentTransactions(5)
	rows[0].Amount = 0
	assert.Equal(t, int64(200_000), r.RecentTransactions(5)[0].Amount)
}
