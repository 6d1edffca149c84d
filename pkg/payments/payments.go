// Package payments talks to the external payment provider: it opens hosted
// checkout sessions and authenticates the provider's webhook events.
package payments

import "errors"

// EventCheckoutSessionCompleted is the event type that confirms payment.
const EventCheckoutSessionCompleted = "checkout.session.completed"

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// LineItem is one priced line of a checkout session.
type LineItem struct {
	Name            string
	UnitAmountMinor int64
	Quantity        int64
}

// SessionRequest describes the hosted checkout to open.
type SessionRequest struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is the provider's answer to a SessionRequest.
type Session struct {
	ID  string
	URL string
}

// Event is an authenticated webhook event. SessionID and Metadata are only
// populated for checkout session events.
type Event struct {
	ID        string
	Type      string
	SessionID string
	Metadata  map[string]string
}
