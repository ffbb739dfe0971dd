package loyalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		points int64
		want   Tier
	}{
		{0, TierSilver},
		{5000, TierSilver},
		{5001, TierGold},
		{20000, TierGold},
		{20001, TierPlatinum},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TierFor(tc.points), tc.points)
	}
}

func TestAccrual(t *testing.T) {
	first := AccrualFor(1234599, 0)
	assert.Equal(t, int64(123), first.Earned)
	assert.Equal(t, int64(623), first.Total())

	next := AccrualFor(1234599, 3)
	assert.Equal(t, int64(123), next.Total())

	small := AccrualFor(9999, 0)
	assert.Zero(t, small.Earned)
	assert.Equal(t, int64(FirstBookingBonus), small.Total())
}

func TestApplyRecordsTransactions(t *testing.T) {
	acct, err := NewAccount("g1")
	require.NoError(t, err)
	acct.Apply(AccrualFor(50000, 0), now)
	assert.Equal(t, int64(505), acct.Points)
	require.Len(t, acct.Transactions, 2)
	assert.Equal(t, ReasonBooking, acct.Transactions[0].Reason)
	assert.Equal(t, ReasonFirstBooking, acct.Transactions[1].Reason)

	acct.Apply(AccrualFor(50, 1), now)
	assert.Len(t, acct.Transactions, 2)

	_, err = NewAccount("")
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestRedeem(t *testing.T) {
	acct := &Account{UserID: "g1", Points: 100}
	assert.ErrorIs(t, acct.Redeem(101, now), ErrInsufficientPoints)
	assert.ErrorIs(t, acct.Redeem(0, now), ErrInvalidPoints)
	assert.Equal(t, int64(100), acct.Points)

	require.NoError(t, acct.Redeem(40, now))
	assert.Equal(t, int64(60), acct.Points)
	require.Len(t, acct.Transactions, 1)
	assert.Equal(t, int64(-40), acct.Transactions[0].Points)
	assert.Equal(t, ReasonRedeem, acct.Transactions[0].Reason)
}
