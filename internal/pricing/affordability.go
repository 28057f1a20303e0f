package pricing

// Affordability is the outcome of checking a charge against a wallet.
type Affordability struct {
	CanAfford             bool  `json:"can_afford"`
	UseNegativeBalance    bool  `json:"use_negative_balance"`
	NegativeBalanceAmount int64 `json:"negative_balance_amount"`
	RemainingBalance      int64 `json:"remaining_balance"`
}

// CheckAffordability decides whether amount can be charged to a wallet
// holding balance. Going below zero needs allowNegative, and the resulting
// deficit may never exceed negativeLimit.
func CheckAffordability(amount, balance, negativeLimit int64, allowNegative bool) Affordability {
	remaining := balance - amount
	res := Affordability{RemainingBalance: remaining}

	switch {
	case remaining >= 0:
		res.CanAfford = true
	case !allowNegative:
	case -remaining <= negativeLimit:
		res.CanAfford = true
		res.UseNegativeBalance = true
		res.NegativeBalanceAmount = -remaining
	}
	return res
}
