package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesCurrency(t *testing.T) {
	m, err := New(500000, " inr ")
	require.NoError(t, err)
	assert.Equal(t, "INR", m.Currency)

	for _, bad := range []string{"", "RUPEE", "IN1"} {
		_, err := New(1, bad)
		assert.ErrorIs(t, err, ErrInvalidCurrency, bad)
	}
	assert.Panics(t, func() { Must(1, "x") })
}

func TestArithmetic(t *testing.T) {
	rate := Must(250050, "INR")

	total, err := rate.Add(Must(100, "INR"))
	require.NoError(t, err)
	assert.Equal(t, int64(250150), total.Amount)

	diff, err := rate.Sub(Must(50, "INR"))
	require.NoError(t, err)
	assert.Equal(t, int64(250000), diff.Amount)

	_, err = rate.Add(Must(1, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	_, err = rate.Add(Money{Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	assert.Equal(t, int64(750150), rate.Multiply(3).Amount)
	assert.Equal(t, int64(250050), rate.Amount, "receiver is a value")
}

func TestPercentTruncates(t *testing.T) {
	assert.Equal(t, int64(499), Must(999, "INR").Percent(50).Amount)
	assert.Equal(t, int64(999), Must(999, "INR").Percent(100).Amount)
	zero := Must(999, "INR").Percent(0)
	assert.True(t, zero.IsZero())
	assert.Equal(t, "INR", zero.Currency)
}

func TestMajorConversions(t *testing.T) {
	assert.Equal(t, Money{Amount: 450025, Currency: "INR"}, FromMajor(4500.25, ""))
	assert.Equal(t, int64(2), Round(1.5))
	assert.Equal(t, int64(-2), Round(-1.5))
	assert.InDelta(t, 4500.25, Must(450025, "INR").Major(), 1e-9)
	assert.Equal(t, "4500.25 INR", Must(450025, "INR").String())
}
