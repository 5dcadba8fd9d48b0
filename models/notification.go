package models

type NotificationType string

const (
	NotificationSystem   NotificationType = "SYSTEM"
	NotificationEvent    NotificationType = "EVENT"
	NotificationDonation NotificationType = "DONATION"
	NotificationSecurity NotificationType = "SECURITY"
)

type Notification struct {
	ID        ID               `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	ActionURL string           `json:"actionUrl,omitempty"`
	CreatedAt Timestamp        `json:"createdAt"`
}
