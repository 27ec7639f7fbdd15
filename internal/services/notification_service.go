package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"homecare_client/internal/events"
	"homecare_client/internal/models"
	"homecare_client/internal/repositories"
	"homecare_client/pkg/format"

	"github.com/samber/lo"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationFeed is the notification list with its unread count.
type NotificationFeed struct {
	Items  []models.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

type NotificationService interface {
	List(ctx context.Context, accountID int64) (*NotificationFeed, error)
	MarkAsRead(ctx context.Context, accountID, notificationID int64) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
	bus           *events.Bus
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(notifications repositories.NotificationRepository, bus *events.Bus) NotificationService {
	return &notificationService{notifications: notifications, bus: bus}
}

func (s *notificationService) List(ctx context.Context, accountID int64) (*NotificationFeed, error) {
	items, err := s.notifications.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}
	loc := format.Location()
	sort.SliceStable(items, func(i, j int) bool {
		ti, _ := format.ParseTimestamp(items[i].CreatedAt, loc)
		tj, _ := format.ParseTimestamp(items[j].CreatedAt, loc)
		return ti.After(tj)
	})
	return &NotificationFeed{
		Items:  items,
		Unread: lo.CountBy(items, func(n models.Notification) bool { return !n.IsRead }),
	}, nil
}

// MarkAsRead marks one notification of accountID as read. accountID 0 skips
// the ownership check and is reserved for staff roles.
func (s *notificationService) MarkAsRead(ctx context.Context, accountID, notificationID int64) error {
	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrNotificationNotFound, notificationID)
		}
		return err
	}
	if accountID != 0 && n.AccountID != accountID {
		return fmt.Errorf("%w: ID %d", ErrNotificationNotFound, notificationID)
	}

	if err := s.notifications.MarkAsRead(ctx, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrNotificationNotFound, notificationID)
		}
		return err
	}
	s.bus.Publish(events.TopicNotificationUpdated, events.AccountEvent{AccountID: n.AccountID})
	return nil
}
