package domain

import "fmt"

// ValidatePositiveAmount checks that an amount in cents is positive.
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount(fmt.Sprintf("amount must be positive, got %d", amount))
	}
	return nil
}

// ValidateBetSide checks that a bet side is over or under.
func ValidateBetSide(side BetSide) error {
	switch side {
	case SideOver, SideUnder:
		return nil
	}
	return ErrValidation(fmt.Sprintf("bet side must be over or under, got %q", side))
}

// ValidateAmericanOdds checks that odds use the standard American format,
// a signed integer with absolute value of at least 100.
func ValidateAmericanOdds(odds int) error {
	if odds >= 100 || odds <= -100 {
		return nil
	}
	return ErrValidation(fmt.Sprintf("odds must be at least +100 or at most -100, got %d", odds))
}
