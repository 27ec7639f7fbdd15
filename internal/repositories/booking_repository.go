package repositories

import (
	"context"
	"net/http"

	"homecare_client/internal/models"
	"homecare_client/internal/transport"
)

// BookingRepository is CRUD on bookings plus the cancel action.
type BookingRepository interface {
	ResourceRepository[models.Booking]
	Cancel(ctx context.Context, bookingID int64) error
}

type bookingRepository struct {
	ResourceRepository[models.Booking]
	sender transport.Sender
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(sender transport.Sender, reads transport.RetryPolicy) BookingRepository {
	return &bookingRepository{
		ResourceRepository: NewResourceRepository(sender, BookingResource, reads),
		sender:             sender,
	}
}

// Cancel issues PUT /api/Booking/Cancel/{id}.
func (r *bookingRepository) Cancel(ctx context.Context, bookingID int64) error {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   "/api/Booking/Cancel/" + idString(bookingID),
	})
	if err != nil {
		return err
	}
	return resp.Err(BookingResource.Name, idString(bookingID))
}
