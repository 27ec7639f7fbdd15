package repositories

import (
	"context"
	"net/http"

	"homecare_client/internal/models"
	"homecare_client/internal/transport"
)

// InvoiceRepository handles invoices; creating one is how a booking is paid.
type InvoiceRepository interface {
	ResourceRepository[models.Invoice]
	Pay(ctx context.Context, bookingID int64, content string) (*models.Invoice, error)
	// GetByBooking returns the invoice of a booking, or nil when none exists.
	GetByBooking(ctx context.Context, bookingID int64) (*models.Invoice, error)
	// IndexByBooking lists all invoices keyed by booking; later rows win.
	IndexByBooking(ctx context.Context) (map[int64]*models.Invoice, error)
}

type invoiceRepository struct {
	ResourceRepository[models.Invoice]
	sender transport.Sender
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(sender transport.Sender, reads transport.RetryPolicy) InvoiceRepository {
	return &invoiceRepository{
		ResourceRepository: NewResourceRepository(sender, InvoiceResource, reads),
		sender:             sender,
	}
}

// Pay issues POST /api/Invoice, which debits the wallet server-side.
func (r *invoiceRepository) Pay(ctx context.Context, bookingID int64, content string) (*models.Invoice, error) {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   InvoiceResource.createPath(),
		Body:   models.PayInvoiceRequest{BookingID: bookingID, Content: content},
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(InvoiceResource.Name, ""); err != nil {
		return nil, err
	}
	return decodeItem[models.Invoice](resp.Body)
}

func (r *invoiceRepository) GetByBooking(ctx context.Context, bookingID int64) (*models.Invoice, error) {
	invoices, err := r.GetByForeignKey(ctx, "bookingID", bookingID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}
	latest := invoices[len(invoices)-1]
	return &latest, nil
}

func (r *invoiceRepository) IndexByBooking(ctx context.Context) (map[int64]*models.Invoice, error) {
	invoices, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]*models.Invoice, len(invoices))
	for i := range invoices {
		index[invoices[i].BookingID] = &invoices[i]
	}
	return index, nil
}
