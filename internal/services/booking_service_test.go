package services

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/events"
	"homecare_client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBookingHistory_JoinsInvoicesAndSweeps(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	env.api.Seed("Booking",
		models.Booking{BookingID: 1, CareProfileID: 10, Amount: 300000, Status: "pending", Workdate: workdateIn(48 * time.Hour)},
		models.Booking{BookingID: 2, CareProfileID: 11, Amount: 150000, Status: "pending", Workdate: workdateIn(90 * time.Minute)},
		models.Booking{BookingID: 3, CareProfileID: 20, Amount: 999000, Status: "pending", Workdate: workdateIn(72 * time.Hour)},
		models.Booking{BookingID: 4, CareProfileID: 10, Amount: 200000, Status: "completed", Workdate: workdateIn(-48 * time.Hour)},
	)
	env.api.Seed("Invoice", models.Invoice{InvoiceID: 9, BookingID: 1, Status: "paid"})

	views, err := env.bookingService().BookingHistory(ctxWithToken(), 1)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, int64(1), views[0].Booking.BookingID)
	assert.Equal(t, "paid", views[0].EffectiveStatus)
	assert.Equal(t, "Đã thanh toán", views[0].StatusLabel)
	assert.Equal(t, "300.000\u00a0₫", views[0].AmountLabel)
	assert.Equal(t, "Bà Nội", views[0].CareProfileName)
	assert.True(t, views[0].CanCancel)

	assert.Equal(t, int64(2), views[1].Booking.BookingID)
	assert.Equal(t, "cancelled", views[1].EffectiveStatus)
	assert.False(t, views[1].CanCancel)
	assert.Equal(t, "cancelled", env.api.Row("Booking", 2)["status"])

	assert.Equal(t, int64(4), views[2].Booking.BookingID)
	assert.Equal(t, "completed", views[2].EffectiveStatus)

	assert.Contains(t, env.topics(), events.TopicBookingAutoCancelled)
	assert.Equal(t, "Bearer user-token", env.api.LastAuthorization())
}

func TestBookingHistory_NoProfiles(t *testing.T) {
	env := newTestEnv(t)

	views, err := env.bookingService().BookingHistory(ctxWithToken(), 42)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestBookingHistory_ReadsAreRetried(t *testing.T) {
	env := newTestEnv(t)
	env.api.Seed("careprofiles", models.CareProfile{CareProfileID: 30, AccountID: 3, ProfileName: "Cô Ba"})
	env.api.Fail(http.MethodGet, "/api/Booking/GetAll", http.StatusServiceUnavailable, `{"title":"busy"}`)

	_, err := env.bookingService().BookingHistory(ctxWithToken(), 3)
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, 3, env.api.Calls(http.MethodGet, "/api/Booking/GetAll"))
}

func TestCancelBooking_PaidRefunds(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(100000)
	env.api.Seed("Booking", models.Booking{BookingID: 1, CareProfileID: 10, Amount: 300000, Status: "pending", Workdate: workdateIn(5 * time.Hour)})
	env.api.Seed("Invoice", models.Invoice{InvoiceID: 9, BookingID: 1, Status: "paid", TotalAmount: 300000})

	res, err := env.bookingService().CancelBooking(ctxWithToken(), 1, 1)
	require.NoError(t, err)
	assert.True(t, res.Refunded)
	assert.Equal(t, "cancelled", env.api.Row("Booking", 1)["status"])
	assert.Equal(t, "refunded", env.api.Row("Invoice", 9)["status"])
	assert.Equal(t, 400000.0, env.api.Row("wallets", 5)["amount"])
	assert.Equal(t, []string{events.TopicBookingCancelled, events.TopicWalletChanged}, env.topics())
}

func TestCancelBooking_PendingDoesNotRefund(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	env.api.Seed("Booking", models.Booking{BookingID: 1, CareProfileID: 10, Status: "pending", Workdate: workdateIn(time.Hour)})

	res, err := env.bookingService().CancelBooking(ctxWithToken(), 1, 1)
	require.NoError(t, err)
	assert.False(t, res.Refunded)
	assert.Equal(t, []string{events.TopicBookingCancelled}, env.topics())
}

func TestCancelBooking_Guards(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	env.api.Seed("Booking",
		models.Booking{BookingID: 1, CareProfileID: 10, Status: "completed", Workdate: workdateIn(240 * time.Hour)},
		models.Booking{BookingID: 2, CareProfileID: 10, Status: "pending", Workdate: workdateIn(90 * time.Minute)},
		models.Booking{BookingID: 3, CareProfileID: 20, Status: "pending", Workdate: workdateIn(48 * time.Hour)},
	)
	env.api.Seed("Invoice", models.Invoice{InvoiceID: 9, BookingID: 2, Status: "paid"})
	svc := env.bookingService()

	_, err := svc.CancelBooking(ctxWithToken(), 1, 1)
	assert.ErrorIs(t, err, ErrBookingCompleted)

	_, err = svc.CancelBooking(ctxWithToken(), 1, 2)
	assert.ErrorIs(t, err, ErrCancelTooLate)

	_, err = svc.CancelBooking(ctxWithToken(), 1, 3)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.CancelBooking(ctxWithToken(), 1, 77)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	assert.Zero(t, env.api.Calls(http.MethodPut, "/api/Booking/Cancel/1"))
	assert.Zero(t, env.api.Calls(http.MethodPut, "/api/Booking/Cancel/2"))
	assert.Zero(t, env.api.Calls(http.MethodPut, "/api/Booking/Cancel/3"))
}

func TestPayBooking(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(500000)
	env.api.Seed("Booking", models.Booking{BookingID: 1, CareProfileID: 10, Amount: 300000, Status: "pending", Workdate: workdateIn(24 * time.Hour)})
	svc := env.bookingService()

	inv, err := svc.PayBooking(ctxWithToken(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "paid", inv.Status)
	assert.Equal(t, 200000.0, env.api.Row("wallets", 5)["amount"])
	assert.Contains(t, env.topics(), events.TopicWalletChanged)

	snap, err := env.snapshots.Load(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, snap.Invoice)
	assert.Equal(t, "paid", snap.Invoice.Status)

	_, err = svc.PayBooking(ctxWithToken(), 1, 1)
	assert.ErrorIs(t, err, ErrBookingNotPayable)
}

func TestPayBooking_InsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(10000)
	env.api.Seed("Booking", models.Booking{BookingID: 1, CareProfileID: 10, Amount: 300000, Status: "pending", Workdate: workdateIn(24 * time.Hour)})

	_, err := env.bookingService().PayBooking(ctxWithToken(), 1, 1)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Zero(t, env.api.Calls(http.MethodPost, "/api/Invoice"))
}

func TestPaymentDetails_FallsBackToSnapshotWhenOffline(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	env.api.Seed("Booking", models.Booking{BookingID: 1, CareProfileID: 10, Amount: 300000, Status: "pending", Workdate: workdateIn(24 * time.Hour)})
	env.api.Seed("CustomizePackage",
		models.CustomizePackage{CustomizePackageID: 1, BookingID: 1, ServiceID: 3, Price: 150000, Quantity: 2, Total: 300000},
		models.CustomizePackage{CustomizePackageID: 2, BookingID: 8, ServiceID: 3, Price: 150000, Quantity: 1, Total: 150000},
	)
	svc := env.bookingService()

	live, err := svc.PaymentDetails(ctxWithToken(), 1, 1)
	require.NoError(t, err)
	assert.False(t, live.UsedFallback)
	assert.Len(t, live.Data.Packages, 1)
	assert.Equal(t, int64(1), live.Data.AccountID)

	env.api.Close()

	cached, err := svc.PaymentDetails(ctxWithToken(), 1, 1)
	require.NoError(t, err)
	assert.True(t, cached.UsedFallback)
	assert.Equal(t, int64(1), cached.Data.Booking.BookingID)
	assert.Len(t, cached.Data.Packages, 1)

	_, err = svc.PaymentDetails(ctxWithToken(), 2, 1)
	assert.True(t, apperrors.IsOffline(err), "another account must not see the snapshot")
}

func TestPaymentDetails_OfflineWithoutSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.api.Close()

	_, err := env.bookingService().PaymentDetails(ctxWithToken(), 1, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsOffline(err))
}

func TestPaymentDetails_NotFoundDoesNotFallBack(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	require.NoError(t, env.snapshots.Save(context.Background(), snapshotOf(1, 1)))

	_, err := env.bookingService().PaymentDetails(ctxWithToken(), 1, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestAutoCancelDropsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.bookingService()
	require.NoError(t, env.snapshots.Save(context.Background(), snapshotOf(1, 4)))

	env.bus.Publish(events.TopicBookingAutoCancelled, events.BookingEvent{BookingID: 4})

	_, err := env.snapshots.Load(context.Background(), 4)
	assert.Error(t, err)
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	env.api.Seed("servicetypes",
		models.ServiceType{ServiceID: 1, ServiceName: "Tắm bé", Price: 100000},
		models.ServiceType{ServiceID: 2, ServiceName: "Đo huyết áp", Price: 50000},
	)
	svc := env.bookingService()
	extra := 10.0

	created, err := svc.CreateBooking(ctxWithToken(), 1, CreateBookingRequest{
		CareProfileID: 10,
		Workdate:      workdateIn(4 * time.Hour),
		Extra:         &extra,
		Services:      []ServiceLine{{ServiceID: 1, Quantity: 2}, {ServiceID: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 275000.0, created.Amount)
	assert.Equal(t, "pending", created.Status)
	assert.NotZero(t, created.BookingID)
}

func TestCreateBooking_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(0)
	env.api.Seed("servicetypes", models.ServiceType{ServiceID: 1, Price: 100000})
	svc := env.bookingService()
	valid := CreateBookingRequest{CareProfileID: 10, Workdate: workdateIn(4 * time.Hour), Services: []ServiceLine{{ServiceID: 1}}}

	tooSoon := valid
	tooSoon.Workdate = workdateIn(3 * time.Hour)
	_, err := svc.CreateBooking(ctxWithToken(), 1, tooSoon)
	assert.ErrorIs(t, err, ErrLeadTimeTooShort)

	empty := valid
	empty.Services = nil
	_, err = svc.CreateBooking(ctxWithToken(), 1, empty)
	assert.ErrorIs(t, err, ErrEmptyBooking)

	unknown := valid
	unknown.Services = []ServiceLine{{ServiceID: 99}}
	_, err = svc.CreateBooking(ctxWithToken(), 1, unknown)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	foreign := valid
	foreign.CareProfileID = 20
	_, err = svc.CreateBooking(ctxWithToken(), 1, foreign)
	assert.ErrorIs(t, err, ErrCareProfileNotFound)

	badDate := valid
	badDate.Workdate = "tomorrow"
	_, err = svc.CreateBooking(ctxWithToken(), 1, badDate)
	assert.ErrorIs(t, err, ErrInvalidWorkdate)

	assert.Zero(t, env.api.Calls(http.MethodPost, "/api/Booking/create"))
}

func TestRenderBookingHistory(t *testing.T) {
	views := []BookingView{{
		Booking:         models.Booking{BookingID: 12},
		Invoice:         &models.Invoice{InvoiceID: 3},
		CareProfileName: "Bà Nội",
		StatusLabel:     "Đã thanh toán",
		AmountLabel:     "300.000\u00a0₫",
		WorkdateLabel:   "08:30 - 16/07/2025",
	}}

	data, err := RenderBookingHistory(views)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, BookingExportHeader, rows[0])
	assert.Equal(t, []string{"12", "Bà Nội", "08:30 - 16/07/2025", "300.000\u00a0₫", "Đã thanh toán", "3"}, rows[1])
}
