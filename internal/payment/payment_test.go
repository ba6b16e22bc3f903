package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = map[string]string{
			"client_reference_id": r.PostForm.Get("client_reference_id"),
			"unit_amount":         r.PostForm.Get("line_items[0][price_data][unit_amount]"),
			"currency":            r.PostForm.Get("line_items[0][price_data][currency]"),
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "cs_123", "url": "https://pay.test/cs_123",
			"amount_total": 49700, "currency": "usd",
		})
	}))
	defer server.Close()

	client := NewClient(&config.PaymentConfig{
		Endpoint: server.URL, SecretKey: "sk_test", Currency: "usd",
	})

	session, err := client.CreateCheckoutSession(context.Background(), service.CheckoutParams{
		TourName:        "The Sea Explorer",
		Amount:          497,
		ClientReference: "tour:user",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "cs_123" || session.Amount != 497 {
		t.Errorf("session = %+v", session)
	}
	if gotForm["unit_amount"] != "49700" {
		t.Errorf("unit_amount = %s, want 49700", gotForm["unit_amount"])
	}
	if gotForm["client_reference_id"] != "tour:user" {
		t.Errorf("client_reference_id = %s", gotForm["client_reference_id"])
	}
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate_limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(&config.PaymentConfig{Endpoint: server.URL, SecretKey: "sk_test"})

	_, err := client.CreateCheckoutSession(context.Background(), service.CheckoutParams{Amount: 100})
	if apperrors.Classify(err).Status != 500 {
		t.Errorf("err = %v, want internal", err)
	}
}

func webhookPayload(reference string, amount int64) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","client_reference_id":"%s","amount_total":%d,"currency":"usd"}}}`,
		reference, amount))
}

func TestParseEvent(t *testing.T) {
	verifier := NewWebhookVerifier("whsec_test")
	payload := webhookPayload("abc:def", 49700)

	event, err := verifier.ParseEvent(payload, verifier.Sign(payload))
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if !event.Completed() {
		t.Error("event not completed")
	}
	if event.ClientReference != "abc:def" {
		t.Errorf("reference = %s", event.ClientReference)
	}
	if event.Amount() != 497 {
		t.Errorf("amount = %v, want 497", event.Amount())
	}
}

func TestParseEventRejectsBadSignature(t *testing.T) {
	verifier := NewWebhookVerifier("whsec_test")
	payload := webhookPayload("abc:def", 100)

	for _, sig := range []string{"", "zz", NewWebhookVerifier("other").Sign(payload)} {
		_, err := verifier.ParseEvent(payload, sig)
		if apperrors.Classify(err).Status != 400 {
			t.Errorf("sig %q: err = %v, want 400", sig, err)
		}
	}
}

func TestParseEventRejectsTamperedPayload(t *testing.T) {
	verifier := NewWebhookVerifier("whsec_test")
	payload := webhookPayload("abc:def", 100)
	sig := verifier.Sign(payload)

	tampered := webhookPayload("abc:def", 999999)
	if _, err := verifier.ParseEvent(tampered, sig); err == nil {
		t.Fatal("tampered payload accepted")
	}
}
