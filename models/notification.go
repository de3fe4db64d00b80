package models

import "time"

// Notification is an in-app notification record delivered to a user's feed.
type Notification struct {
	ID          string            `bson:"id" json:"id"`
	RecipientID string            `bson:"recipient_id" json:"recipientId"`
	Title       string            `bson:"title" json:"title"`
	Body        string            `bson:"body" json:"body"`
	Data        map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool              `bson:"read" json:"read"`
	CreatedAt   time.Time         `bson:"created_at" json:"createdAt"`
}

// NotificationPayload is the queued task body for async delivery.
type NotificationPayload struct {
	RecipientID string            `json:"recipientId"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
}
