package services

import (
	"testing"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWallet(t *testing.T) {
	env := newTestEnv(t)
	env.api.Seed("wallets", models.Wallet{WalletID: 5, AccountID: 1, Amount: 1250000})
	env.api.Seed("TransactionHistory",
		models.TransactionHistory{TransactionHistoryID: 1, WalletID: 5, Amount: 500000, Status: "topup", TransactionDate: "2025-07-01T09:00:00"},
		models.TransactionHistory{TransactionHistoryID: 2, WalletID: 5, Amount: 300000, Status: "payment", TransactionDate: "2025-07-10T09:00:00"},
		models.TransactionHistory{TransactionHistoryID: 3, WalletID: 6, Amount: 1, Status: "other", TransactionDate: "2025-07-12T09:00:00"},
		models.TransactionHistory{TransactionHistoryID: 4, WalletID: 5, Amount: 100000, Status: "refund", TransactionDate: "2025-07-05T09:00:00"},
	)
	svc := NewWalletService(env.repos.Wallets, env.repos.TransactionHistories)

	overview, err := svc.GetWallet(ctxWithToken(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1.250.000\u00a0₫", overview.BalanceLabel)
	require.Len(t, overview.History, 3)
	assert.Equal(t, int64(2), overview.History[0].TransactionHistoryID)
	assert.Equal(t, int64(4), overview.History[1].TransactionHistoryID)
	assert.Equal(t, int64(1), overview.History[2].TransactionHistoryID)
	assert.Equal(t, "09:00 - 10/07/2025", overview.History[0].DateLabel)
}

func TestGetWallet_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewWalletService(env.repos.Wallets, env.repos.TransactionHistories).GetWallet(ctxWithToken(), 9)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestValidateTopUp(t *testing.T) {
	svc := NewWalletService(nil, nil)

	quote, err := svc.ValidateTopUp("50.000")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), quote.Amount)
	assert.Equal(t, "50.000", quote.InputText)

	for _, input := range []string{"", "5.000", "12.345", "abc"} {
		_, err := svc.ValidateTopUp(input)
		var v *apperrors.ValidationError
		assert.ErrorAs(t, err, &v, input)
	}
}
