package model

// Notification severity classes.
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationSuccess = "success"
)

// Notification is a server-created alert. The client can mark it read or
// delete it.
type Notification struct {
	ID        ID             `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	EmailID   ID             `json:"email_id,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt Time           `json:"created_at"`
	ExpiresAt Time           `json:"expires_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
