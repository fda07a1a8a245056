package model

const (
	EventFrameAdded           = "frame_added"
	EventFrameRemoved         = "frame_removed"
	EventNotificationsEnabled = "notifications_enabled"
	EventNotificationsDisabed = "notifications_disabled"
)

type NotificationDetails struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type WebhookRequest struct {
	Event               string               `json:"event"`
	FID                 int64                `json:"fid"`
	Key                 string               `json:"key"`
	NotificationDetails *NotificationDetails `json:"notificationDetails,omitempty"`
}

type WebhookResponse struct{}
