package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "whole amount", input: "100", want: "100.00"},
		{name: "one fractional digit", input: "3.5", want: "3.50"},
		{name: "two fractional digits", input: "0.01", want: "0.01"},
		{name: "trailing zeros beyond scale", input: "1.100", want: "1.10"},
		{name: "negative is representable", input: "-25.50", want: "-25.50"},
		{name: "surrounding whitespace", input: " 10.00 ", want: "10.00"},
		{name: "three fractional digits", input: "1.001", wantErr: domain.ErrInvalidAmount},
		{name: "not a number", input: "ten", wantErr: domain.ErrInvalidAmount},
		{name: "empty", input: "", wantErr: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := domain.ParseMoney(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := domain.MustMoney("100.00")
	b := domain.MustMoney("37.25")

	assert.Equal(t, "137.25", a.Add(b).String())
	assert.Equal(t, "62.75", a.Sub(b).String())
	assert.Equal(t, "-62.75", b.Sub(a).String())
	assert.True(t, b.Sub(a).IsNegative())

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(domain.MustMoney("100")))
	assert.True(t, a.Equal(domain.MustMoney("100.0")))
}

// 10,000 deposits of one cent must sum to exactly 100.00, with no
// rounding drift.
func TestMoneyNoDriftOverManySmallAmounts(t *testing.T) {
	cent := domain.MustMoney("0.01")

	var sum domain.Money
	for range 10_000 {
		sum = sum.Add(cent)
	}

	assert.Equal(t, "100.00", sum.String())
	assert.True(t, sum.Equal(domain.MustMoney("100.00")))

	for range 10_000 {
		sum = sum.Sub(cent)
	}
	assert.True(t, sum.IsZero())
}

func TestMoneyZeroValue(t *testing.T) {
	var m domain.Money
	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.False(t, m.IsPositive())
	assert.Equal(t, "0.00", m.String())
}

func TestMoneyJSON(t *testing.T) {
	m := domain.MustMoney("42.10")
	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"42.10"`, string(b))

	var back domain.Money
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, m.Equal(back))

	var bad domain.Money
	require.ErrorIs(t, bad.UnmarshalJSON([]byte(`"1.005"`)), domain.ErrInvalidAmount)
}
