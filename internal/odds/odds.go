// Package odds implements American-odds payout math for the bet ledger.
package odds

import (
	"fmt"

	"github.com/pickage/platform/internal/domain"
)

// PotentialPayout returns the total payout in cents for a stake at the
// given American odds, rounded to the nearest cent:
//
//	positive odds O: stake * (O/100 + 1)
//	negative odds O: stake * (100/|O| + 1)
//
// The computation is exact integer arithmetic; rounding happens only once,
// at cent precision, which is the display precision of the currency.
func PotentialPayout(stake int64, odds int) (int64, error) {
	if err := domain.ValidatePositiveAmount(stake); err != nil {
		return 0, err
	}
	if err := domain.ValidateAmericanOdds(odds); err != nil {
		return 0, err
	}

	// Both branches reduce to stake * (100 + |odds|) / d with d = 100 for
	// favorites' inverse (positive odds) and d = |odds| for negative odds.
	abs := int64(odds)
	if abs < 0 {
		abs = -abs
	}
	numerator := stake * (100 + abs)
	var denominator int64 = 100
	if odds < 0 {
		denominator = abs
	}

	// Round half up. All values are positive here.
	return (numerator + denominator/2) / denominator, nil
}

// DecimalMultiplier returns the decimal-odds multiplier for American odds,
// for display purposes only. Never use this for persisted payout values.
func DecimalMultiplier(odds int) float64 {
	if odds > 0 {
		return float64(odds)/100 + 1
	}
	if odds < 0 {
		return 100/float64(-odds) + 1
	}
	return 0
}

// FormatAmerican renders American odds with their conventional explicit sign.
func FormatAmerican(odds int) string {
	if odds > 0 {
		return fmt.Sprintf("+%d", odds)
	}
	return fmt.Sprintf("%d", odds)
}
