package models

// Invoice statuses that mean the booking has been paid.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCompleted = "completed"
	InvoiceStatusSuccess   = "success"
	InvoiceStatusRefunded  = "refunded"
)

// Invoice is the payment record of a booking.
type Invoice struct {
	InvoiceID   int64   `json:"invoiceID"`
	BookingID   int64   `json:"bookingID"`
	Status      string  `json:"status"`
	Content     string  `json:"content,omitempty"`
	TotalAmount float64 `json:"totalAmount,omitempty"`
	PaymentDate *string `json:"paymentDate,omitempty"`
}

// PayInvoiceRequest is the payload of POST /api/Invoice.
type PayInvoiceRequest struct {
	BookingID int64  `json:"bookingID"`
	Content   string `json:"content"`
}

// Wallet is the in-app stored balance of an account.
type Wallet struct {
	WalletID  int64   `json:"walletID"`
	AccountID int64   `json:"accountID"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status,omitempty"`
}

// TransactionHistory is one wallet ledger entry.
type TransactionHistory struct {
	TransactionHistoryID int64   `json:"transactionHistoryID"`
	WalletID             int64   `json:"walletID"`
	InvoiceID            *int64  `json:"invoiceID,omitempty"`
	Amount               float64 `json:"amount"`
	Before               float64 `json:"before"`
	After                float64 `json:"after"`
	Status               string  `json:"status"`
	Note                 string  `json:"note,omitempty"`
	TransactionDate      string  `json:"transactionDate"`
}
