package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/cache"
	"homecare_client/internal/events"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/pkg/format"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// --- Custom Service Errors for Booking ---
var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrCareProfileNotFound = errors.New("care profile not found")
	ErrServiceNotFound     = errors.New("service type not found")
	ErrEmptyBooking        = errors.New("booking must contain at least one service")
	ErrInsufficientBalance = errors.New("wallet balance is not enough")
	ErrRefundFailed        = errors.New("booking cancelled but refund failed")
)

// profileFetchLimit bounds concurrent per-profile booking fetches.
const profileFetchLimit = 4

// --- Booking DTOs ---

// ServiceLine is one ordered service in a new booking.
type ServiceLine struct {
	ServiceID int64 `json:"serviceID" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// CreateBookingRequest is the checkout payload.
type CreateBookingRequest struct {
	CareProfileID int64         `json:"careProfileID" binding:"required"`
	Workdate      string        `json:"workdate" binding:"required"`
	Extra         *float64      `json:"extra"`
	IsSchedule    bool          `json:"isSchedule"`
	Services      []ServiceLine `json:"services" binding:"required"`
}

type packagePayload struct {
	ServiceID int64 `json:"serviceID"`
	Quantity  int   `json:"quantity"`
}

type createBookingPayload struct {
	CareProfileID int64            `json:"careProfileID"`
	Amount        float64          `json:"amount"`
	Workdate      string           `json:"workdate"`
	Extra         *float64         `json:"extra,omitempty"`
	IsSchedule    bool             `json:"isSchedule"`
	Packages      []packagePayload `json:"customizePackageCreateDtos"`
}

// BookingView is one row of the booking history.
type BookingView struct {
	Booking         models.Booking  `json:"booking"`
	Invoice         *models.Invoice `json:"invoice,omitempty"`
	CareProfileName string          `json:"careProfileName"`
	EffectiveStatus string          `json:"effectiveStatus"`
	StatusLabel     string          `json:"statusLabel"`
	AmountLabel     string          `json:"amountLabel"`
	WorkdateLabel   string          `json:"workdateLabel"`
	CanCancel       bool            `json:"canCancel"`
}

// CancelResult tells whether a refund was issued with the cancellation.
type CancelResult struct {
	BookingID int64 `json:"bookingID"`
	Refunded  bool  `json:"refunded"`
}

// --- BookingService Interface ---

// BookingService methods take the acting account; accountID 0 skips the
// ownership check and is reserved for staff roles.
type BookingService interface {
	BookingHistory(ctx context.Context, accountID int64) ([]BookingView, error)
	PaymentDetails(ctx context.Context, accountID, bookingID int64) (*Result[cache.BookingSnapshot], error)
	CreateBooking(ctx context.Context, accountID int64, req CreateBookingRequest) (*models.Booking, error)
	PayBooking(ctx context.Context, accountID, bookingID int64) (*models.Invoice, error)
	CancelBooking(ctx context.Context, accountID, bookingID int64) (*CancelResult, error)
	ExportHistory(ctx context.Context, accountID int64) ([]byte, error)
}

// --- bookingService Implementation ---
type bookingService struct {
	repos     *repositories.Registry
	snapshots *cache.Snapshots
	sweeper   *Sweeper
	bus       *events.Bus
	rules     BookingRules
	now       func() time.Time
}

// NewBookingService creates a new instance of BookingService. Snapshots of
// auto-cancelled bookings are dropped as the sweeper reports them.
func NewBookingService(
	repos *repositories.Registry,
	snapshots *cache.Snapshots,
	sweeper *Sweeper,
	bus *events.Bus,
	rules BookingRules,
) BookingService {
	s := &bookingService{
		repos:     repos,
		snapshots: snapshots,
		sweeper:   sweeper,
		bus:       bus,
		rules:     rules,
		now:       time.Now,
	}
	bus.Subscribe(events.TopicBookingAutoCancelled, func(ev events.Event) {
		if payload, ok := ev.Payload.(events.BookingEvent); ok {
			s.dropSnapshot(context.Background(), payload.BookingID)
		}
	})
	return s
}

func (s *bookingService) BookingHistory(ctx context.Context, accountID int64) ([]BookingView, error) {
	profiles, err := s.repos.CareProfiles.GetByForeignKey(ctx, "accountID", accountID)
	if err != nil {
		return nil, fmt.Errorf("loading care profiles: %w", err)
	}

	perProfile := make([][]models.Booking, len(profiles))
	var invoices map[int64]*models.Invoice

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFetchLimit)
	g.Go(func() error {
		idx, err := s.repos.Invoices.IndexByBooking(gctx)
		if err != nil {
			return fmt.Errorf("loading invoices: %w", err)
		}
		invoices = idx
		return nil
	})
	for i, p := range profiles {
		i, p := i, p
		g.Go(func() error {
			bookings, err := s.repos.Bookings.GetByForeignKey(gctx, "careProfileID", p.CareProfileID)
			if err != nil {
				return fmt.Errorf("loading bookings of care profile %d: %w", p.CareProfileID, err)
			}
			perProfile[i] = bookings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(profiles))
	var all []models.Booking
	for i, p := range profiles {
		names[p.CareProfileID] = p.ProfileName
		all = append(all, perProfile[i]...)
	}

	now := s.now()
	if s.sweeper != nil {
		report := s.sweeper.Sweep(ctx, all, invoices, now)
		cancelled := make(map[int64]bool, len(report.Cancelled))
		for _, id := range report.Cancelled {
			cancelled[id] = true
		}
		for i := range all {
			if cancelled[all[i].BookingID] {
				all[i].Status = models.BookingStatusCancelled
			}
		}
	}

	views := make([]BookingView, 0, len(all))
	for _, b := range all {
		views = append(views, s.view(b, invoices[b.BookingID], names[b.CareProfileID], now))
	}
	s.sortNewestFirst(views)
	return views, nil
}

func (s *bookingService) view(b models.Booking, inv *models.Invoice, profileName string, now time.Time) BookingView {
	status := EffectiveStatus(b, inv)
	return BookingView{
		Booking:         b,
		Invoice:         inv,
		CareProfileName: profileName,
		EffectiveStatus: status,
		StatusLabel:     format.FormatStatus(status),
		AmountLabel:     format.FormatPrice(b.Amount),
		WorkdateLabel:   format.FormatDateTime(b.Workdate),
		CanCancel:       s.rules.CheckCancellable(b, inv, now) == nil,
	}
}

// sortNewestFirst orders by workdate descending; unparseable workdates go last.
func (s *bookingService) sortNewestFirst(views []BookingView) {
	keys := make(map[int64]time.Time, len(views))
	for _, v := range views {
		if t, err := s.rules.Workdate(v.Booking); err == nil {
			keys[v.Booking.BookingID] = t
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		ti, iok := keys[views[i].Booking.BookingID]
		tj, jok := keys[views[j].Booking.BookingID]
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})
}

// ownedBooking loads a booking and the care profile it belongs to.
func (s *bookingService) ownedBooking(ctx context.Context, accountID, bookingID int64) (*models.Booking, *models.CareProfile, error) {
	b, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: ID %d", ErrBookingNotFound, bookingID)
		}
		return nil, nil, err
	}
	profile, err := s.repos.CareProfiles.GetByID(ctx, b.CareProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: ID %d", ErrCareProfileNotFound, b.CareProfileID)
		}
		return nil, nil, err
	}
	if accountID != 0 && profile.AccountID != accountID {
		return nil, nil, fmt.Errorf("%w: ID %d", ErrBookingNotFound, bookingID)
	}
	return b, profile, nil
}

func (s *bookingService) PaymentDetails(ctx context.Context, accountID, bookingID int64) (*Result[cache.BookingSnapshot], error) {
	snap, err := s.liveSnapshot(ctx, accountID, bookingID)
	if err == nil {
		s.saveSnapshot(ctx, *snap)
		return fresh(*snap), nil
	}
	if !apperrors.IsOffline(err) {
		return nil, err
	}

	cached, cacheErr := s.snapshots.Load(ctx, bookingID)
	if cacheErr != nil {
		if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			log.Error().Err(cacheErr).Int64("booking_id", bookingID).Msg("Reading booking snapshot failed")
		}
		return nil, err
	}
	if accountID != 0 && cached.AccountID != accountID {
		return nil, err
	}
	log.Warn().Err(err).Int64("booking_id", bookingID).Time("cached_at", cached.CachedAt).
		Msg("Backend unreachable, serving cached payment details")
	return fallback(*cached), nil
}

func (s *bookingService) liveSnapshot(ctx context.Context, accountID, bookingID int64) (*cache.BookingSnapshot, error) {
	b, profile, err := s.ownedBooking(ctx, accountID, bookingID)
	if err != nil {
		return nil, err
	}
	inv, err := s.repos.Invoices.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice of booking %d: %w", bookingID, err)
	}
	packages, err := s.repos.CustomizePackages.GetByForeignKey(ctx, "bookingID", bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading packages of booking %d: %w", bookingID, err)
	}
	return &cache.BookingSnapshot{
		AccountID: profile.AccountID,
		Booking:   *b,
		Invoice:   inv,
		Packages:  packages,
		CachedAt:  s.now(),
	}, nil
}

func (s *bookingService) saveSnapshot(ctx context.Context, snap cache.BookingSnapshot) {
	if err := s.snapshots.Save(ctx, snap); err != nil {
		log.Error().Err(err).Int64("booking_id", snap.Booking.BookingID).Msg("Saving booking snapshot failed")
	}
}

func (s *bookingService) dropSnapshot(ctx context.Context, bookingID int64) {
	if err := s.snapshots.Drop(ctx, bookingID); err != nil {
		log.Error().Err(err).Int64("booking_id", bookingID).Msg("Dropping booking snapshot failed")
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, accountID int64, req CreateBookingRequest) (*models.Booking, error) {
	if len(req.Services) == 0 {
		return nil, ErrEmptyBooking
	}
	if req.Extra != nil && (*req.Extra < 0 || math.IsNaN(*req.Extra)) {
		return nil, apperrors.NewValidationError("extra", "surcharge must not be negative")
	}
	workdate, err := s.rules.Workdate(models.Booking{Workdate: req.Workdate})
	if err != nil {
		return nil, err
	}
	if err := s.rules.CheckLeadTime(workdate, s.now()); err != nil {
		return nil, err
	}

	profile, err := s.repos.CareProfiles.GetByID(ctx, req.CareProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrCareProfileNotFound, req.CareProfileID)
		}
		return nil, fmt.Errorf("failed to validate care profile for booking: %w", err)
	}
	if accountID != 0 && profile.AccountID != accountID {
		return nil, fmt.Errorf("%w: ID %d", ErrCareProfileNotFound, req.CareProfileID)
	}

	catalogue, err := s.repos.ServiceTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading service catalogue: %w", err)
	}
	prices := make(map[int64]float64, len(catalogue))
	for _, st := range catalogue {
		prices[st.ServiceID] = st.Price
	}

	lines := make([]PriceLine, 0, len(req.Services))
	packages := make([]packagePayload, 0, len(req.Services))
	for _, line := range req.Services {
		price, ok := prices[line.ServiceID]
		if !ok {
			return nil, fmt.Errorf("%w: ID %d", ErrServiceNotFound, line.ServiceID)
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		lines = append(lines, PriceLine{Price: price, Quantity: qty})
		packages = append(packages, packagePayload{ServiceID: line.ServiceID, Quantity: qty})
	}
	extra := 0.0
	if req.Extra != nil {
		extra = *req.Extra
	}

	payload := createBookingPayload{
		CareProfileID: req.CareProfileID,
		Amount:        BookingTotal(lines, extra),
		Workdate:      req.Workdate,
		Extra:         req.Extra,
		IsSchedule:    req.IsSchedule,
		Packages:      packages,
	}
	created, err := s.repos.Bookings.Create(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	if created == nil {
		created = &models.Booking{
			CareProfileID: payload.CareProfileID,
			AccountID:     profile.AccountID,
			Amount:        payload.Amount,
			Workdate:      payload.Workdate,
			Status:        models.BookingStatusPending,
			Extra:         payload.Extra,
			IsSchedule:    payload.IsSchedule,
		}
	}
	log.Info().Int64("booking_id", created.BookingID).Int64("care_profile_id", req.CareProfileID).
		Float64("amount", payload.Amount).Msg("Booking created")
	return created, nil
}

// PriceLine is a unit price and quantity.
type PriceLine struct {
	Price    float64
	Quantity int
}

// BookingTotal is Σ price×quantity × (1 + extraPercent/100), rounded to whole dong.
func BookingTotal(lines []PriceLine, extraPercent float64) float64 {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Price * float64(l.Quantity)
	}
	return math.Round(subtotal * (1 + extraPercent/100))
}

func (s *bookingService) PayBooking(ctx context.Context, accountID, bookingID int64) (*models.Invoice, error) {
	b, profile, err := s.ownedBooking(ctx, accountID, bookingID)
	if err != nil {
		return nil, err
	}
	inv, err := s.repos.Invoices.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice of booking %d: %w", bookingID, err)
	}
	if status := EffectiveStatus(*b, inv); status != models.BookingStatusPending {
		return nil, fmt.Errorf("%w: status %s", ErrBookingNotPayable, status)
	}

	wallet, err := s.repos.Wallets.GetByAccount(ctx, profile.AccountID)
	if err != nil {
		return nil, fmt.Errorf("loading wallet: %w", err)
	}
	if wallet.Amount < b.Amount {
		return nil, fmt.Errorf("%w: balance %s, amount %s", ErrInsufficientBalance,
			format.FormatPrice(wallet.Amount), format.FormatPrice(b.Amount))
	}

	paid, err := s.repos.Invoices.Pay(ctx, bookingID, fmt.Sprintf("Thanh toán đặt lịch #%d", bookingID))
	if err != nil {
		return nil, fmt.Errorf("paying booking %d: %w", bookingID, err)
	}
	if paid == nil {
		if paid, err = s.repos.Invoices.GetByBooking(ctx, bookingID); err != nil {
			return nil, fmt.Errorf("reloading invoice of booking %d: %w", bookingID, err)
		}
	}

	log.Info().Int64("booking_id", bookingID).Float64("amount", b.Amount).Msg("Booking paid")
	s.bus.Publish(events.TopicWalletChanged, events.AccountEvent{AccountID: profile.AccountID})
	if packages, err := s.repos.CustomizePackages.GetByForeignKey(ctx, "bookingID", bookingID); err == nil {
		s.saveSnapshot(ctx, cache.BookingSnapshot{AccountID: profile.AccountID, Booking: *b, Invoice: paid, Packages: packages})
	}
	return paid, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, accountID, bookingID int64) (*CancelResult, error) {
	b, profile, err := s.ownedBooking(ctx, accountID, bookingID)
	if err != nil {
		return nil, err
	}
	inv, err := s.repos.Invoices.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice of booking %d: %w", bookingID, err)
	}
	if err := s.rules.CheckCancellable(*b, inv, s.now()); err != nil {
		return nil, err
	}
	wasPaid := EffectiveStatus(*b, inv) == models.BookingStatusPaid

	if err := s.repos.Bookings.Cancel(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("cancelling booking %d: %w", bookingID, err)
	}
	s.dropSnapshot(ctx, bookingID)
	s.bus.Publish(events.TopicBookingCancelled, events.BookingEvent{
		BookingID: bookingID,
		AccountID: profile.AccountID,
		Reason:    "cancelled by user",
	})

	result := &CancelResult{BookingID: bookingID}
	if wasPaid && inv != nil {
		if err := s.repos.TransactionHistories.RefundToWallet(ctx, inv.InvoiceID); err != nil {
			log.Error().Err(err).Int64("booking_id", bookingID).Int64("invoice_id", inv.InvoiceID).Msg("Refund failed")
			return result, fmt.Errorf("%w: invoice %d: %v", ErrRefundFailed, inv.InvoiceID, err)
		}
		result.Refunded = true
		s.bus.Publish(events.TopicWalletChanged, events.AccountEvent{AccountID: profile.AccountID})
	}
	log.Info().Int64("booking_id", bookingID).Bool("refunded", result.Refunded).Msg("Booking cancelled")
	return result, nil
}
