package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook payload.
const SignatureHeader = "Checkout-Signature"

// EventCheckoutCompleted is the event type emitted when a customer
// finishes paying.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a provider webhook notification.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string `json:"id"`
			ClientReferenceID string `json:"client_reference_id"`
			AmountTotal       int64  `json:"amount_total"`
			Currency          string `json:"currency"`
		} `json:"object"`
	} `json:"data"`

	// ClientReference mirrors the nested field for convenience.
	ClientReference string `json:"-"`
}

// Completed reports whether this event finalizes a checkout.
func (e *Event) Completed() bool {
	return e.Type == EventCheckoutCompleted
}

// Amount returns the paid amount in major units.
func (e *Event) Amount() float64 {
	return fromMinorUnit(e.Data.Object.AmountTotal)
}

// WebhookVerifier authenticates and decodes webhook payloads.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier for the shared webhook secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// ParseEvent checks the signature over the raw payload and decodes the
// event. A missing or wrong signature is a 400; the provider retries with
// a correct one, an attacker never has one.
func (v *WebhookVerifier) ParseEvent(payload []byte, signature string) (*Event, error) {
	if !v.verify(payload, signature) {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			"Webhook signature verification failed", http.StatusBadRequest)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, apperrors.ErrBadRequest.WithError(err)
	}
	event.ClientReference = event.Data.Object.ClientReferenceID
	return &event, nil
}

// Sign computes the signature for a payload. Tests and local tooling use
// it to produce valid callbacks.
func (v *WebhookVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *WebhookVerifier) verify(payload []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}
