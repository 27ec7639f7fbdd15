package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"homecare_client/internal/events"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/internal/transport"

	"github.com/rs/zerolog/log"
)

// SweepReport lists what one sweep did.
type SweepReport struct {
	Cancelled []int64 `json:"cancelled"`
	Failed    []int64 `json:"failed"`
}

// Sweeper cancels unpaid bookings whose workdate is inside the cancel window.
// Every booking is attempted at most once per process, whether the cancel
// call succeeds or not.
type Sweeper struct {
	bookings     repositories.BookingRepository
	invoices     repositories.InvoiceRepository
	bus          *events.Bus
	rules        BookingRules
	interval     time.Duration
	serviceToken string
	now          func() time.Time

	mu        sync.Mutex
	processed map[int64]struct{}
}

// NewSweeper creates a Sweeper. serviceToken authenticates the periodic full
// sweep; sweeps triggered by a user request use that request's token.
func NewSweeper(
	bookings repositories.BookingRepository,
	invoices repositories.InvoiceRepository,
	bus *events.Bus,
	rules BookingRules,
	interval time.Duration,
	serviceToken string,
) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		bookings:     bookings,
		invoices:     invoices,
		bus:          bus,
		rules:        rules,
		interval:     interval,
		serviceToken: serviceToken,
		now:          time.Now,
		processed:    make(map[int64]struct{}),
	}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Dur("window", s.rules.CancelWindow).Msg("Auto-cancel sweeper started")

	if _, err := s.SweepOnce(ctx, s.now()); err != nil {
		log.Error().Err(err).Msg("Auto-cancel sweep failed")
	}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Auto-cancel sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx, s.now()); err != nil {
				log.Error().Err(err).Msg("Auto-cancel sweep failed")
			}
		}
	}
}

// SweepOnce loads every booking and invoice and sweeps them.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) (SweepReport, error) {
	if s.serviceToken != "" {
		ctx = transport.WithToken(ctx, s.serviceToken)
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("listing bookings for sweep: %w", err)
	}
	invoices, err := s.invoices.IndexByBooking(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("listing invoices for sweep: %w", err)
	}
	return s.Sweep(ctx, bookings, invoices, now), nil
}

// Candidates returns, in input order, the bookings the sweep would cancel now.
func (s *Sweeper) Candidates(bookings []models.Booking, invoices map[int64]*models.Invoice, now time.Time) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range bookings {
		if _, done := s.processed[b.BookingID]; done {
			continue
		}
		if s.rules.ShouldAutoCancel(b, invoices[b.BookingID], now) {
			out = append(out, b)
		}
	}
	return out
}

// Sweep cancels the candidates among bookings.
func (s *Sweeper) Sweep(ctx context.Context, bookings []models.Booking, invoices map[int64]*models.Invoice, now time.Time) SweepReport {
	var report SweepReport
	for _, b := range s.Candidates(bookings, invoices, now) {
		if !s.claim(b.BookingID) {
			continue
		}
		if err := s.bookings.Cancel(ctx, b.BookingID); err != nil {
			log.Error().Err(err).Int64("booking_id", b.BookingID).Msg("Auto-cancel failed")
			report.Failed = append(report.Failed, b.BookingID)
			continue
		}
		log.Info().Int64("booking_id", b.BookingID).Str("workdate", b.Workdate).Msg("Booking auto-cancelled")
		report.Cancelled = append(report.Cancelled, b.BookingID)
		if s.bus != nil {
			s.bus.Publish(events.TopicBookingAutoCancelled, events.BookingEvent{
				BookingID: b.BookingID,
				AccountID: b.AccountID,
				Reason:    "unpaid within cancel window",
			})
		}
	}
	return report
}

// claim marks id processed and reports whether this caller got it first.
func (s *Sweeper) claim(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.processed[id]; done {
		return false
	}
	s.processed[id] = struct{}{}
	return true
}

// Processed reports whether the sweep already handled the booking.
func (s *Sweeper) Processed(bookingID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.processed[bookingID]
	return ok
}
