package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"sajilokaam-api/internal/entity"

	"go.uber.org/zap"
)

// Khalti is a redirect gateway: initiate registers the purchase with the
// provider and yields a hosted payment URL; verification is a server-side
// lookup by pidx.
type Khalti struct {
	client    *http.Client
	baseURL   string
	secretKey string
	siteURL   string
	log       *zap.Logger
}

func NewKhalti(baseURL, secretKey, siteURL string, timeout time.Duration, log *zap.Logger) *Khalti {
	return &Khalti{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		secretKey: secretKey,
		siteURL:   siteURL,
		log:       log,
	}
}

func (k *Khalti) Method() entity.PaymentMethod {
	return entity.MethodKhalti
}

type khaltiInitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

func (k *Khalti) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error) {
	// Khalti amounts are in paisa.
	body := map[string]interface{}{
		"return_url":          req.ReturnURL,
		"website_url":         k.siteURL,
		"amount":              int64(math.Round(req.Amount * 100)),
		"purchase_order_id":   req.TransactionID,
		"purchase_order_name": req.ProductName,
	}

	var decoded khaltiInitiateResponse
	if err := k.post(ctx, "/epayment/initiate/", body, &decoded); err != nil {
		return nil, &Error{Gateway: "khalti", Op: "initiate", Err: err}
	}
	if decoded.Pidx == "" || decoded.PaymentURL == "" {
		return nil, &Error{Gateway: "khalti", Op: "initiate", Err: fmt.Errorf("incomplete response: pidx=%q", decoded.Pidx)}
	}

	k.log.Info("khalti payment initiated",
		zap.String("pidx", decoded.Pidx),
		zap.String("order", req.TransactionID))

	return &InitiateResult{
		TransactionID: decoded.Pidx,
		Redirect:      &RedirectCheckout{PaymentURL: decoded.PaymentURL},
	}, nil
}

type khaltiLookupResponse struct {
	Pidx          string `json:"pidx"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func (k *Khalti) Verify(ctx context.Context, transactionId string, amount float64) (*VerifyResult, error) {
	body := map[string]interface{}{"pidx": transactionId}

	var decoded khaltiLookupResponse
	if err := k.post(ctx, "/epayment/lookup/", body, &decoded); err != nil {
		return nil, &Error{Gateway: "khalti", Op: "verify", Err: err}
	}

	return &VerifyResult{
		Verified:   decoded.Status == "Completed",
		GatewayRef: decoded.TransactionID,
	}, nil
}

func (k *Khalti) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Key "+k.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
