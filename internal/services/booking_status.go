package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"homecare_client/internal/models"
	"homecare_client/pkg/format"
)

// --- Booking rule errors ---
var (
	ErrBookingCompleted  = errors.New("booking is already completed")
	ErrBookingCancelled  = errors.New("booking is already cancelled")
	ErrCancelTooLate     = errors.New("paid booking can no longer be cancelled this close to the workdate")
	ErrLeadTimeTooShort  = errors.New("workdate is too soon")
	ErrInvalidWorkdate   = errors.New("invalid workdate")
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")
)

// settledInvoiceStatuses are the invoice statuses that mean the booking has been paid.
var settledInvoiceStatuses = map[string]bool{
	models.InvoiceStatusPaid:      true,
	models.InvoiceStatusCompleted: true,
	models.InvoiceStatusSuccess:   true,
}

// IsInvoiceSettled reports whether inv exists and is paid, completed or success.
func IsInvoiceSettled(inv *models.Invoice) bool {
	return inv != nil && settledInvoiceStatuses[strings.ToLower(inv.Status)]
}

// EffectiveStatus is the displayed status of a booking: completed wins, then a
// settled invoice makes it paid, otherwise the stored status stands.
func EffectiveStatus(b models.Booking, inv *models.Invoice) string {
	if b.Status == models.BookingStatusCompleted {
		return models.BookingStatusCompleted
	}
	if IsInvoiceSettled(inv) {
		return models.BookingStatusPaid
	}
	return b.Status
}

// BookingRules holds the time thresholds of the booking lifecycle.
type BookingRules struct {
	// CancelWindow applies to the auto-cancel sweep and to cancelling paid bookings.
	CancelWindow time.Duration
	// MinLeadTime applies to new bookings only.
	MinLeadTime time.Duration
	Location    *time.Location
}

// DefaultBookingRules is 2h cancel window, 3h10m lead time, UTC+7.
func DefaultBookingRules() BookingRules {
	return BookingRules{
		CancelWindow: 2 * time.Hour,
		MinLeadTime:  3*time.Hour + 10*time.Minute,
		Location:     format.Location(),
	}
}

func (r BookingRules) location() *time.Location {
	if r.Location == nil {
		return format.Location()
	}
	return r.Location
}

// Workdate parses the booking workdate in the service time zone.
func (r BookingRules) Workdate(b models.Booking) (time.Time, error) {
	t, err := format.ParseTimestamp(b.Workdate, r.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWorkdate, b.Workdate)
	}
	return t, nil
}

// CheckCancellable returns nil when a user may cancel the booking at now.
func (r BookingRules) CheckCancellable(b models.Booking, inv *models.Invoice, now time.Time) error {
	status := EffectiveStatus(b, inv)
	switch status {
	case models.BookingStatusCompleted:
		return ErrBookingCompleted
	case models.BookingStatusCancelled:
		return ErrBookingCancelled
	case models.BookingStatusPaid:
		workdate, err := r.Workdate(b)
		if err != nil {
			return err
		}
		if workdate.Sub(now) <= r.CancelWindow {
			return fmt.Errorf("%w: %s left", ErrCancelTooLate, workdate.Sub(now).Round(time.Minute))
		}
	}
	return nil
}

// ShouldAutoCancel reports whether the sweep must cancel the booking: the
// workdate is in the future but within CancelWindow and nothing was paid.
func (r BookingRules) ShouldAutoCancel(b models.Booking, inv *models.Invoice, now time.Time) bool {
	switch EffectiveStatus(b, inv) {
	case models.BookingStatusCompleted, models.BookingStatusCancelled, models.BookingStatusPaid:
		return false
	}
	workdate, err := r.Workdate(b)
	if err != nil {
		return false
	}
	left := workdate.Sub(now)
	return left > 0 && left <= r.CancelWindow
}

// CheckLeadTime rejects workdates closer than MinLeadTime to now.
func (r BookingRules) CheckLeadTime(workdate, now time.Time) error {
	if workdate.Sub(now) < r.MinLeadTime {
		return fmt.Errorf("%w: must be at least %s ahead", ErrLeadTimeTooShort, r.MinLeadTime)
	}
	return nil
}
