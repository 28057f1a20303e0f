package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAffordability(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		balance       int64
		limit         int64
		allowNegative bool
		want          Affordability
	}{
		{
			name:    "covered by balance",
			amount:  3000,
			balance: 5000,
			limit:   5000,
			want:    Affordability{CanAfford: true, RemainingBalance: 2000},
		},
		{
			name:    "exactly drains balance",
			amount:  5000,
			balance: 5000,
			want:    Affordability{CanAfford: true, RemainingBalance: 0},
		},
		{
			name:    "negative not permitted",
			amount:  5000,
			balance: 0,
			limit:   5000,
			want:    Affordability{RemainingBalance: -5000},
		},
		{
			name:          "exact ceiling",
			amount:        5000,
			balance:       0,
			limit:         5000,
			allowNegative: true,
			want: Affordability{
				CanAfford:             true,
				UseNegativeBalance:    true,
				NegativeBalanceAmount: 5000,
				RemainingBalance:      -5000,
			},
		},
		{
			name:          "one cent over ceiling",
			amount:        5001,
			balance:       0,
			limit:         5000,
			allowNegative: true,
			want:          Affordability{RemainingBalance: -5001},
		},
		{
			name:          "already in deficit",
			amount:        1000,
			balance:       -3000,
			limit:         5000,
			allowNegative: true,
			want: Affordability{
				CanAfford:             true,
				UseNegativeBalance:    true,
				NegativeBalanceAmount: 4000,
				RemainingBalance:      -4000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAffordability(tt.amount, tt.balance, tt.limit, tt.allowNegative)
			assert.Equal(t, tt.want, got)
		})
	}
}
