package models

import (
	"encoding/json"
	"testing"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
	}{
		{"100", 10000},
		{"100.5", 10050},
		{"12,34", 1234},
		{" 0.01 ", 1},
		{"10.005", 1001},
		{"10.004", 1000},
		{"99999999.99", MaxAmountCents},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, m.Cents)
		})
	}
}

func TestParseMoneyRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "100000000.00", "1e20"} {
		_, err := ParseMoney(in)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err), "input %q", in)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(NewMoney(10000))
	require.NoError(t, err)
	assert.Equal(t, `"100.00"`, string(b))

	var fromString, fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`"49.90"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`49.9`), &fromNumber))
	assert.Equal(t, int64(4990), fromString.Cents)
	assert.Equal(t, fromString, fromNumber)

	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &fromString))
}

func TestMoneyValidate(t *testing.T) {
	assert.Error(t, NewMoney(0).Validate())
	assert.Error(t, NewMoney(-5).Validate())
	assert.Error(t, NewMoney(MaxAmountCents+1).Validate())
	assert.NoError(t, NewMoney(1).Validate())
}

func TestMoneyArithmetic(t *testing.T) {
	balance := NewMoney(1000).Sub(NewMoney(2550))
	assert.Equal(t, "-15.50", balance.String())
	assert.Equal(t, "35.50", NewMoney(1000).Add(NewMoney(2550)).String())
}
