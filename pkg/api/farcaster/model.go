package farcaster

import "github.com/basequest/backend/pkg/enum"

type SendResult string

var (
	SendSuccess     = enum.New(SendResult("success"))
	SendRateLimited = enum.New(SendResult("rate_limited"))
	SendFailure     = enum.New(SendResult("failure"))
)

// Notification is one push message addressed to a single stored token. The
// endpoint url is part of the stored credential, not a fixed domain.
type Notification struct {
	Token     string
	URL       string
	Title     string
	Body      string
	TargetURL string
}
