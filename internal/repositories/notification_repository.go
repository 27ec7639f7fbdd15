package repositories

import (
	"context"
	"net/http"

	"homecare_client/internal/models"
	"homecare_client/internal/transport"
)

// NotificationRepository lists notifications per account and marks them read.
type NotificationRepository interface {
	ResourceRepository[models.Notification]
	ListByAccount(ctx context.Context, accountID int64) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
}

type notificationRepository struct {
	ResourceRepository[models.Notification]
	sender transport.Sender
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(sender transport.Sender, reads transport.RetryPolicy) NotificationRepository {
	return &notificationRepository{
		ResourceRepository: NewResourceRepository(sender, NotificationResource, reads),
		sender:             sender,
	}
}

func (r *notificationRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.Notification, error) {
	return r.GetByForeignKey(ctx, "accountID", accountID)
}

// MarkAsRead issues PUT /api/Notification/IsRead/{id}.
func (r *notificationRepository) MarkAsRead(ctx context.Context, notificationID int64) error {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   "/api/Notification/IsRead/" + idString(notificationID),
	})
	if err != nil {
		return err
	}
	return resp.Err(NotificationResource.Name, idString(notificationID))
}
