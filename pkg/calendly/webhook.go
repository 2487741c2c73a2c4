// Package calendly holds the inbound webhook contract for the external
// scheduling provider: payload shapes and signature verification.
package calendly

// Webhook event types this backend reacts to.
const (
	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
	EventInviteeUpdated  = "invitee.updated"
)

// SignatureHeader carries the provider-issued signature of the raw body.
const SignatureHeader = "Calendly-Webhook-Signature"

// WebhookEvent is the inbound payload shape.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

// WebhookPayload correlates the event back to a local interview by the
// provider-issued event URI. The provider knows nothing about internal IDs.
type WebhookPayload struct {
	EventURI   string `json:"event_uri"`
	InviteeURI string `json:"invitee_uri,omitempty"`
}
