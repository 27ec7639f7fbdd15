package models

// Notification is a message addressed to one account.
type Notification struct {
	NotificationID int64  `json:"notificationID"`
	AccountID      int64  `json:"accountID"`
	Message        string `json:"message"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt"`
}
