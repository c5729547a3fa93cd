package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/pickage/platform/internal/domain"
)

// WalletProjection is a cached read model of a user's wallet headline
// numbers. It is advisory only: commands always read the locked profile
// row, never this cache.
type WalletProjection struct {
	UserID        string `json:"user_id"`
	Balance       int64  `json:"balance"`
	TotalBets     int64  `json:"total_bets"`
	TotalWinnings int64  `json:"total_winnings"`
	UpdatedAt     string `json:"updated_at"`
}

const walletTTL = 5 * time.Minute

func walletKey(userID string) string {
	return fmt.Sprintf("projection:wallet:%s", userID)
}

// UpdateWallet caches a user's wallet projection from a fresh profile row.
func UpdateWallet(ctx context.Context, store Store, profile *domain.Profile) error {
	p := WalletProjection{
		UserID:        profile.UserID.String(),
		Balance:       profile.Balance,
		TotalBets:     profile.TotalBets,
		TotalWinnings: profile.TotalWinnings,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	return SetJSON(ctx, store, walletKey(p.UserID), p, walletTTL)
}

// GetWallet retrieves a cached wallet projection.
func GetWallet(ctx context.Context, store Store, userID string) (*WalletProjection, error) {
	var p WalletProjection
	if err := GetJSON(ctx, store, walletKey(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// InvalidateWallet removes a user's cached wallet projection.
func InvalidateWallet(ctx context.Context, store Store, userID string) error {
	return store.Delete(ctx, walletKey(userID))
}
