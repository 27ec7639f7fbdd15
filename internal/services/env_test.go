package services

import (
	"context"
	"testing"
	"time"

	"homecare_client/internal/cache"
	"homecare_client/internal/events"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/internal/testutil/fakeapi"
	"homecare_client/internal/transport"
	"homecare_client/pkg/format"
)

// testNow is 06:00 on 16/07/2025 in the service zone.
var testNow = time.Date(2025, 7, 16, 6, 0, 0, 0, format.Location())

// workdateIn renders testNow+d as a naive backend timestamp.
func workdateIn(d time.Duration) string {
	return testNow.Add(d).In(format.Location()).Format("2006-01-02T15:04:05")
}

type testEnv struct {
	api       *fakeapi.Server
	repos     *repositories.Registry
	bus       *events.Bus
	store     *cache.MemoryStore
	snapshots *cache.Snapshots
	sweeper   *Sweeper
	rules     BookingRules
	received  []events.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := fakeapi.New()
	t.Cleanup(api.Close)

	tr := transport.New(transport.Options{BaseURL: api.URL, Timeout: 2 * time.Second})
	repos := repositories.NewRegistry(tr, transport.RetryPolicy{MaxRetries: 2, Delay: time.Millisecond})
	bus := events.NewBus()
	store := cache.NewMemoryStore()
	rules := DefaultBookingRules()

	env := &testEnv{
		api:       api,
		repos:     repos,
		bus:       bus,
		store:     store,
		snapshots: cache.NewSnapshots(store, time.Hour),
		rules:     rules,
	}
	env.sweeper = NewSweeper(repos.Bookings, repos.Invoices, bus, rules, time.Hour, "service-token")
	env.sweeper.now = func() time.Time { return testNow }

	for _, topic := range []string{
		events.TopicBookingCancelled,
		events.TopicBookingAutoCancelled,
		events.TopicWalletChanged,
		events.TopicNotificationUpdated,
	} {
		bus.Subscribe(topic, func(ev events.Event) { env.received = append(env.received, ev) })
	}
	return env
}

func (e *testEnv) bookingService() *bookingService {
	svc := NewBookingService(e.repos, e.snapshots, e.sweeper, e.bus, e.rules).(*bookingService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func (e *testEnv) topics() []string {
	out := make([]string, 0, len(e.received))
	for _, ev := range e.received {
		out = append(out, ev.Topic)
	}
	return out
}

// seedCustomer creates account 1 with care profiles 10 and 11 and a wallet,
// plus account 2 with care profile 20.
func (e *testEnv) seedCustomer(balance float64) {
	e.api.Seed("careprofiles",
		models.CareProfile{CareProfileID: 10, AccountID: 1, ProfileName: "Bà Nội"},
		models.CareProfile{CareProfileID: 11, AccountID: 1, ProfileName: "Ông Ngoại"},
		models.CareProfile{CareProfileID: 20, AccountID: 2, ProfileName: "Người khác"},
	)
	e.api.Seed("wallets", models.Wallet{WalletID: 5, AccountID: 1, Amount: balance})
}

func ctxWithToken() context.Context {
	return transport.WithToken(context.Background(), "user-token")
}

func snapshotOf(accountID, bookingID int64) cache.BookingSnapshot {
	return cache.BookingSnapshot{
		AccountID: accountID,
		Booking:   models.Booking{BookingID: bookingID, CareProfileID: 10, Status: "pending"},
	}
}
