package services

import "context"

// Notification is a push message for clients' registered devices.
type Notification struct {
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	RecipientIDs []string          `json:"recipientIds"`
	Data         map[string]string `json:"data,omitempty"`
}

// NotificationSender is the black-box notification collaborator. Delivery is
// best-effort: callers log failures and never fail the triggering operation.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}
