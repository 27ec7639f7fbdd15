package repositories

import (
	"context"
	"net/http"

	"homecare_client/internal/models"
	"homecare_client/internal/transport"
)

// WalletRepository reads wallets.
type WalletRepository interface {
	ResourceRepository[models.Wallet]
	GetByAccount(ctx context.Context, accountID int64) (*models.Wallet, error)
}

type walletRepository struct {
	ResourceRepository[models.Wallet]
}

// NewWalletRepository creates a new instance of WalletRepository.
func NewWalletRepository(sender transport.Sender, reads transport.RetryPolicy) WalletRepository {
	return &walletRepository{ResourceRepository: NewResourceRepository(sender, WalletResource, reads)}
}

func (r *walletRepository) GetByAccount(ctx context.Context, accountID int64) (*models.Wallet, error) {
	wallets, err := r.GetByForeignKey(ctx, "accountID", accountID)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, notFound("wallet of account", accountID)
	}
	return &wallets[0], nil
}

// TransactionHistoryRepository reads the wallet ledger and issues refunds.
type TransactionHistoryRepository interface {
	ResourceRepository[models.TransactionHistory]
	RefundToWallet(ctx context.Context, invoiceID int64) error
}

type transactionHistoryRepository struct {
	ResourceRepository[models.TransactionHistory]
	sender transport.Sender
}

// NewTransactionHistoryRepository creates a new instance of TransactionHistoryRepository.
func NewTransactionHistoryRepository(sender transport.Sender, reads transport.RetryPolicy) TransactionHistoryRepository {
	return &transactionHistoryRepository{
		ResourceRepository: NewResourceRepository(sender, TransactionHistoryResource, reads),
		sender:             sender,
	}
}

// RefundToWallet issues POST /api/TransactionHistory/RefundMoneyToWallet/{invoiceID} with no body.
func (r *transactionHistoryRepository) RefundToWallet(ctx context.Context, invoiceID int64) error {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/api/TransactionHistory/RefundMoneyToWallet/" + idString(invoiceID),
	})
	if err != nil {
		return err
	}
	return resp.Err("Invoice", idString(invoiceID))
}
