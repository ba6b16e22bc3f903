package mocks

import (
	"context"
	"sync"

	"github.com/trailbound/trailbound-go/internal/domain/service"
)

// SentMail records one outgoing message on the mailer mock.
type SentMail struct {
	Kind string
	To   string
	Name string
	URL  string
}

// MockMailer is an in-memory Mailer.
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail

	SendErr error
}

var _ service.Mailer = (*MockMailer)(nil)

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, name, url string) error {
	return m.record("welcome", to, name, url)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return m.record("password_reset", to, name, resetURL)
}

func (m *MockMailer) record(kind, to, name, url string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{Kind: kind, To: to, Name: name, URL: url})
	return nil
}

// MockPaymentGateway is an in-memory PaymentGateway.
type MockPaymentGateway struct {
	mu       sync.Mutex
	Requests []service.CheckoutParams

	Session   *service.CheckoutSession
	CreateErr error
}

var _ service.PaymentGateway = (*MockPaymentGateway)(nil)

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		Session: &service.CheckoutSession{ID: "cs_test", URL: "https://checkout.test/cs_test"},
	}
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, params service.CheckoutParams) (*service.CheckoutSession, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, params)
	session := *m.Session
	session.Amount = params.Amount
	return &session, nil
}
