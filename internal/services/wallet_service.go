package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/pkg/format"
)

// ErrWalletNotFound is returned when the account has no wallet.
var ErrWalletNotFound = errors.New("wallet not found")

// TransactionView is a ledger entry with display labels.
type TransactionView struct {
	models.TransactionHistory
	AmountLabel string `json:"amountLabel"`
	DateLabel   string `json:"dateLabel"`
}

// WalletOverview is the wallet screen: balance and newest-first history.
type WalletOverview struct {
	Wallet       models.Wallet     `json:"wallet"`
	BalanceLabel string            `json:"balanceLabel"`
	History      []TransactionView `json:"history"`
}

// TopUpQuote is a validated top-up amount.
type TopUpQuote struct {
	Amount      int64  `json:"amount"`
	InputText   string `json:"inputText"`
	AmountLabel string `json:"amountLabel"`
}

type WalletService interface {
	GetWallet(ctx context.Context, accountID int64) (*WalletOverview, error)
	ValidateTopUp(input string) (*TopUpQuote, error)
}

type walletService struct {
	wallets      repositories.WalletRepository
	transactions repositories.TransactionHistoryRepository
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(wallets repositories.WalletRepository, transactions repositories.TransactionHistoryRepository) WalletService {
	return &walletService{wallets: wallets, transactions: transactions}
}

func (s *walletService) GetWallet(ctx context.Context, accountID int64) (*WalletOverview, error) {
	wallet, err := s.wallets.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %d", ErrWalletNotFound, accountID)
		}
		return nil, err
	}
	history, err := s.transactions.GetByForeignKey(ctx, "walletID", wallet.WalletID)
	if err != nil {
		return nil, fmt.Errorf("loading wallet history: %w", err)
	}

	views := make([]TransactionView, 0, len(history))
	for _, h := range history {
		views = append(views, TransactionView{
			TransactionHistory: h,
			AmountLabel:        format.FormatPrice(h.Amount),
			DateLabel:          format.FormatDateTime(h.TransactionDate),
		})
	}
	sortTransactionsNewestFirst(views)

	return &WalletOverview{
		Wallet:       *wallet,
		BalanceLabel: format.FormatPrice(wallet.Amount),
		History:      views,
	}, nil
}

func sortTransactionsNewestFirst(views []TransactionView) {
	loc := format.Location()
	sort.SliceStable(views, func(i, j int) bool {
		ti, ierr := format.ParseTimestamp(views[i].TransactionDate, loc)
		tj, jerr := format.ParseTimestamp(views[j].TransactionDate, loc)
		if (ierr == nil) != (jerr == nil) {
			return ierr == nil
		}
		return ti.After(tj)
	})
}

func (s *walletService) ValidateTopUp(input string) (*TopUpQuote, error) {
	amount, err := format.ParseAmount(input)
	if err == nil {
		err = format.ValidateTopUpAmount(amount)
	}
	if err != nil {
		return nil, apperrors.NewValidationError("amount", err.Error())
	}
	return &TopUpQuote{
		Amount:      amount,
		InputText:   format.FormatAmountForInput(amount),
		AmountLabel: format.FormatPrice(float64(amount)),
	}, nil
}
