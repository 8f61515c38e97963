// Package gateway abstracts the third-party payment providers behind one
// interface. Providers differ in integration shape: Khalti hands back a URL
// to redirect the payer to, eSewa requires a client-side form POST signed
// over an ordered field set. Initiate therefore returns a tagged result with
// exactly one of the two checkout shapes populated.
package gateway

import (
	"context"
	"fmt"

	"sajilokaam-api/internal/entity"
)

type InitiateRequest struct {
	// TransactionID is our identifier for the attempt; providers echo it
	// back (purchase_order_id for Khalti, transaction_uuid for eSewa).
	TransactionID string
	Amount        float64
	ProductName   string
	ReturnURL     string
	CancelURL     string
}

// RedirectCheckout is produced by redirect gateways: send the user agent to
// PaymentURL.
type RedirectCheckout struct {
	PaymentURL string `json:"paymentUrl"`
}

// FormCheckout is produced by form-POST gateways: the caller renders the
// fields as a hidden HTML form targeting Action and auto-submits it.
type FormCheckout struct {
	Action           string            `json:"action"`
	Fields           map[string]string `json:"fields"`
	SignedFieldNames string            `json:"signedFieldNames"`
	Signature        string            `json:"signature"`
}

type InitiateResult struct {
	// TransactionID is the id to reconcile against later. For Khalti this is
	// the provider-issued pidx, for eSewa our own transaction_uuid.
	TransactionID string
	Redirect      *RedirectCheckout
	Form          *FormCheckout
}

type VerifyResult struct {
	Verified   bool
	GatewayRef string
}

type PaymentGateway interface {
	Method() entity.PaymentMethod
	// Initiate registers (or locally prepares) a checkout for the attempt.
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error)
	// Verify re-checks the transaction outcome with the provider. A reachable
	// provider reporting a not-completed transaction is (false, nil), not an
	// error; errors mean the answer is unknown.
	Verify(ctx context.Context, transactionId string, amount float64) (*VerifyResult, error)
}

// CallbackVerifier is implemented by gateways whose inbound callbacks carry
// a signature that can be checked against the shared secret.
type CallbackVerifier interface {
	VerifyCallback(fields map[string]string) bool
}

// Error wraps any provider-side failure: network errors, timeouts, rejected
// requests. It never implies a state transition happened.
type Error struct {
	Gateway string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s gateway: %s: %v", e.Gateway, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Registry struct {
	gateways map[entity.PaymentMethod]PaymentGateway
}

func NewRegistry(gateways ...PaymentGateway) *Registry {
	m := make(map[entity.PaymentMethod]PaymentGateway, len(gateways))
	for _, g := range gateways {
		m[g.Method()] = g
	}

	return &Registry{gateways: m}
}

func (r *Registry) Get(method entity.PaymentMethod) (PaymentGateway, bool) {
	g, ok := r.gateways[method]

	return g, ok
}
