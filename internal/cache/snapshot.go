package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homecare_client/internal/models"
)

// BookingSnapshot is what the payment screen needs about one booking.
type BookingSnapshot struct {
	AccountID int64                     `json:"accountID"`
	Booking   models.Booking            `json:"booking"`
	Invoice   *models.Invoice           `json:"invoice,omitempty"`
	Packages  []models.CustomizePackage `json:"packages"`
	CachedAt  time.Time                 `json:"cachedAt"`
}

// SnapshotKey is the store key of a booking snapshot.
func SnapshotKey(bookingID int64) string {
	return fmt.Sprintf("booking:%d", bookingID)
}

// Snapshots stores BookingSnapshot values as JSON in a Store.
type Snapshots struct {
	store Store
	ttl   time.Duration
}

// NewSnapshots creates a typed snapshot cache.
func NewSnapshots(store Store, ttl time.Duration) *Snapshots {
	return &Snapshots{store: store, ttl: ttl}
}

// Save overwrites the snapshot of snap.Booking.
func (s *Snapshots) Save(ctx context.Context, snap BookingSnapshot) error {
	if snap.CachedAt.IsZero() {
		snap.CachedAt = time.Now()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal booking snapshot: %w", err)
	}
	return s.store.Set(ctx, SnapshotKey(snap.Booking.BookingID), string(data), s.ttl)
}

// Load returns ErrCacheMiss when no snapshot is stored.
func (s *Snapshots) Load(ctx context.Context, bookingID int64) (*BookingSnapshot, error) {
	raw, err := s.store.Get(ctx, SnapshotKey(bookingID))
	if err != nil {
		return nil, err
	}
	var snap BookingSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking snapshot %d: %w", bookingID, err)
	}
	return &snap, nil
}

// Drop removes the snapshot of a booking.
func (s *Snapshots) Drop(ctx context.Context, bookingID int64) error {
	return s.store.Delete(ctx, SnapshotKey(bookingID))
}
