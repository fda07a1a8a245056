package model

type NotifyRequest struct {
	FID   int64  `json:"fid"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type NotifyResponse struct {
	Result string `json:"result"`
}

type BroadcastRequest struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	FIDs  []int64 `json:"fids,omitempty"`
}

type BroadcastResponse struct {
	Total       int `json:"total"`
	Success     int `json:"success"`
	Failed      int `json:"failed"`
	RateLimited int `json:"rate_limited"`
	NoToken     int `json:"no_token"`
}

// BroadcastEvent is the message published when a quest or reward creation
// requests a notification. The broadcaster command consumes it.
type BroadcastEvent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
